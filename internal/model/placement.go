package model

import "time"

// ContentKind discriminates what a placement renders on the page.
type ContentKind string

const (
	// ContentImage renders a stamp image stored in object storage.
	ContentImage ContentKind = "image"
	// ContentText renders a literal string.
	ContentText ContentKind = "text"
	// ContentDefault renders the built-in marker text.
	ContentDefault ContentKind = "default"
)

// Content is the closed choice of what a placement draws. Exactly one case
// applies; an image reference and a literal text are never both meaningful.
type Content struct {
	Kind     ContentKind `json:"kind"`
	ImageKey string      `json:"image_key,omitempty"`
	Text     string      `json:"text,omitempty"`
}

// NewContent builds the content variant from the two optional submission
// fields. An image reference takes precedence over text when both arrive.
func NewContent(imageKey, text string) Content {
	switch {
	case imageKey != "":
		return Content{Kind: ContentImage, ImageKey: imageKey}
	case text != "":
		return Content{Kind: ContentText, Text: text}
	default:
		return Content{Kind: ContentDefault}
	}
}

// Placement represents one mark to be composited onto a specific page of a
// document. Created on submission, mutated only by status transition, removed
// only when its document is deleted.
type Placement struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	AuthorID   string    `json:"author_id"`
	PageNumber int       `json:"page_number"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Content    Content   `json:"content"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
