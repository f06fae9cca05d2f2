package model

import "time"

// ActionPlacementCreated is recorded once per placement submission.
// Status transitions intentionally do not produce activity records.
const ActionPlacementCreated = "signed_document"

// ActivityRecord is an append-only fact: an actor placed a mark on a document
// at a point in time. Records are never mutated after creation.
type ActivityRecord struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	DocumentID string    `json:"document_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
