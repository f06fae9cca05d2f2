package postgres

import (
	"context"
	"database/sql"

	"signapi/internal/model"
	"signapi/internal/repository"
)

// PlacementPostgres is a PostgreSQL implementation of repository.PlacementRepository.
// The content variant is stored as two nullable columns (image_key, text_value)
// and rebuilt into the tagged form on scan.
type PlacementPostgres struct {
	db *sql.DB
}

// NewPlacementPostgres creates a new PlacementPostgres repository.
func NewPlacementPostgres(db *sql.DB) *PlacementPostgres {
	return &PlacementPostgres{db: db}
}

var _ repository.PlacementRepository = (*PlacementPostgres)(nil)

const placementColumns = `id, document_id, author_id, page_number, x, y, image_key, text_value, status, created_at`

// Create inserts a new placement row and returns the stored record.
func (r *PlacementPostgres) Create(ctx context.Context, p *model.Placement) (*model.Placement, error) {
	const q = `
		INSERT INTO placements (id, document_id, author_id, page_number, x, y, image_key, text_value, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + placementColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.DocumentID,
		p.AuthorID,
		p.PageNumber,
		p.X,
		p.Y,
		nullIfEmpty(p.Content.ImageKey),
		nullIfEmpty(p.Content.Text),
		p.Status,
		p.CreatedAt,
	)
	return scanPlacementRow(row)
}

// FindByID fetches a single placement by its ID.
func (r *PlacementPostgres) FindByID(ctx context.Context, id string) (*model.Placement, error) {
	const q = `SELECT ` + placementColumns + ` FROM placements WHERE id = $1`
	return scanPlacementRow(r.db.QueryRowContext(ctx, q, id))
}

// ListByDocument returns a document's placements in creation order.
// The id tiebreak keeps layering stable for rows created in the same instant.
func (r *PlacementPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.Placement, error) {
	const q = `
		SELECT ` + placementColumns + `
		FROM placements
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.queryPlacements(ctx, q, documentID)
}

// ListByDocumentDesc returns a document's placements newest first.
func (r *PlacementPostgres) ListByDocumentDesc(ctx context.Context, documentID string) ([]model.Placement, error) {
	const q = `
		SELECT ` + placementColumns + `
		FROM placements
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryPlacements(ctx, q, documentID)
}

// UpdateStatus sets a placement's status and returns the updated row.
func (r *PlacementPostgres) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Placement, error) {
	const q = `
		UPDATE placements
		SET status = $2
		WHERE id = $1
		RETURNING ` + placementColumns
	return scanPlacementRow(r.db.QueryRowContext(ctx, q, id, status))
}

func (r *PlacementPostgres) queryPlacements(ctx context.Context, q string, args ...any) ([]model.Placement, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Placement, 0)
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlacement(s rowScanner) (*model.Placement, error) {
	var (
		p        model.Placement
		imageKey sql.NullString
		text     sql.NullString
	)
	if err := s.Scan(
		&p.ID,
		&p.DocumentID,
		&p.AuthorID,
		&p.PageNumber,
		&p.X,
		&p.Y,
		&imageKey,
		&text,
		&p.Status,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Content = model.NewContent(imageKey.String, text.String)
	return &p, nil
}

func scanPlacementRow(row *sql.Row) (*model.Placement, error) {
	return scanPlacement(row)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
