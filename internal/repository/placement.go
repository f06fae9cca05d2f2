package repository

import (
	"context"

	"signapi/internal/model"
)

// PlacementRepository defines data access for placements.
type PlacementRepository interface {
	// Create inserts a new placement record and returns the stored row.
	Create(ctx context.Context, p *model.Placement) (*model.Placement, error)

	// FindByID returns a placement by its ID.
	FindByID(ctx context.Context, id string) (*model.Placement, error)

	// ListByDocument returns every placement of a document ordered by
	// creation time ascending (ties broken by id). Compositing relies on
	// this order for deterministic layering.
	ListByDocument(ctx context.Context, documentID string) ([]model.Placement, error)

	// ListByDocumentDesc returns a document's placements newest first,
	// as shown in the review audit trail.
	ListByDocumentDesc(ctx context.Context, documentID string) ([]model.Placement, error)

	// UpdateStatus sets the status of a single placement and returns the
	// updated row. Returns sql.ErrNoRows if the placement does not exist.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Placement, error)
}
