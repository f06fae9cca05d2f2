package repository

import (
	"context"

	"signapi/internal/model"
)

// ActivityRepository is the append-only activity trail. Records are written
// once and never updated or deleted individually; document deletion cascades.
type ActivityRepository interface {
	// Append inserts a new activity record and returns the stored row.
	Append(ctx context.Context, rec *model.ActivityRecord) (*model.ActivityRecord, error)

	// List returns recent activity records, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.ActivityRecord], error)
}
