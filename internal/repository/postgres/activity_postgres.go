package postgres

import (
	"context"
	"database/sql"

	"signapi/internal/model"
	"signapi/internal/repository"
)

// ActivityPostgres is a PostgreSQL implementation of repository.ActivityRepository.
// The table is append-only; there is no update or single-row delete path.
type ActivityPostgres struct {
	db *sql.DB
}

// NewActivityPostgres creates a new ActivityPostgres repository.
func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

// Append inserts a new activity row and returns the stored record.
func (r *ActivityPostgres) Append(ctx context.Context, rec *model.ActivityRecord) (*model.ActivityRecord, error) {
	const q = `
		INSERT INTO activity_log (id, action, actor_id, document_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, action, actor_id, document_id, message, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.Action,
		rec.ActorID,
		rec.DocumentID,
		rec.Message,
		rec.CreatedAt,
	)
	var out model.ActivityRecord
	var message sql.NullString
	if err := row.Scan(
		&out.ID,
		&out.Action,
		&out.ActorID,
		&out.DocumentID,
		&message,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	out.Message = message.String
	return &out, nil
}

// List returns activity records newest first with a total count.
func (r *ActivityPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ActivityRecord], error) {
	const qCount = `SELECT COUNT(*) FROM activity_log`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, action, actor_id, document_id, message, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ActivityRecord, 0)
	for rows.Next() {
		var rec model.ActivityRecord
		var message sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Action,
			&rec.ActorID,
			&rec.DocumentID,
			&message,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Message = message.String
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ActivityRecord]{
		Items: items,
		Total: total,
	}, nil
}
