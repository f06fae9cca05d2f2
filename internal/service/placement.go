package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"signapi/internal/model"
	"signapi/internal/pdf"
	"signapi/internal/repository"
	"signapi/internal/storage"
)

// Compositor merges placements into a fresh output document. Implemented by
// pdf.Engine; abstracted here so the orchestration is testable without
// parsing real PDFs.
type Compositor interface {
	Composite(ctx context.Context, source []byte, placements []model.Placement) (*pdf.Result, error)
}

// SubmitPlacementInput is the validated submission payload. ImageKey and Text
// are both optional; when both are set the image wins.
type SubmitPlacementInput struct {
	DocumentID string
	AuthorID   string
	PageNumber int
	X          float64
	Y          float64
	ImageKey   string
	Text       string
}

// GenerateResult is the materialized output document.
type GenerateResult struct {
	Data        []byte
	Filename    string
	ContentType string
	Skipped     int
}

// PlacementService defines the placement and compositing use cases.
type PlacementService interface {
	// Submit validates and persists a new pending placement, and appends the
	// corresponding activity record.
	Submit(ctx context.Context, in SubmitPlacementInput) (*model.Placement, error)

	// ListByDocument returns a document's placements in creation order.
	ListByDocument(ctx context.Context, documentID string) ([]model.Placement, error)

	// AuditTrail returns a document's placements newest first.
	AuditTrail(ctx context.Context, documentID string) ([]model.Placement, error)

	// UpdateStatus applies a review decision to a single placement. Only
	// "signed" and "rejected" are legal targets; a decision may be revised,
	// so moving between the two remains permitted.
	UpdateStatus(ctx context.Context, id, targetStatus string) (*model.Placement, error)

	// UploadImage stores a stamp image asset and returns its object key for
	// later reference by placements.
	UploadImage(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (string, error)

	// Generate composites the document's current placements into a new PDF.
	// It never mutates the source document or the stored placements.
	Generate(ctx context.Context, documentID string) (*GenerateResult, error)
}

type placementService struct {
	store      storage.Storage
	docs       repository.DocumentRepository
	placements repository.PlacementRepository
	activity   repository.ActivityRepository
	compositor Compositor
}

// NewPlacementService constructs a new PlacementService.
func NewPlacementService(
	store storage.Storage,
	docs repository.DocumentRepository,
	placements repository.PlacementRepository,
	activity repository.ActivityRepository,
	compositor Compositor,
) PlacementService {
	return &placementService{
		store:      store,
		docs:       docs,
		placements: placements,
		activity:   activity,
		compositor: compositor,
	}
}

func (s *placementService) Submit(ctx context.Context, in SubmitPlacementInput) (*model.Placement, error) {
	if in.DocumentID == "" {
		return nil, ErrIDRequired
	}
	if in.X < 0 || in.X > 1 || in.Y < 0 || in.Y > 1 {
		return nil, ErrInvalidCoordinates
	}
	// Only the lower bound is checkable here; whether the page exists in the
	// document is settled at compositing time.
	if in.PageNumber < 0 {
		return nil, ErrInvalidPage
	}
	if in.PageNumber == 0 {
		in.PageNumber = 1
	}

	// The document must exist; its page count is unknown until the binary is
	// parsed, so the page number is only range-checked at compositing time.
	if _, err := s.docs.FindByID(ctx, in.DocumentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	p := &model.Placement{
		ID:         uuid.New().String(),
		DocumentID: in.DocumentID,
		AuthorID:   in.AuthorID,
		PageNumber: in.PageNumber,
		X:          in.X,
		Y:          in.Y,
		Content:    model.NewContent(in.ImageKey, in.Text),
		Status:     model.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	stored, err := s.placements.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save placement: %w", err)
	}

	rec := &model.ActivityRecord{
		ID:         uuid.New().String(),
		Action:     model.ActionPlacementCreated,
		ActorID:    in.AuthorID,
		DocumentID: in.DocumentID,
		Message:    fmt.Sprintf("User signed page %d of document.", stored.PageNumber),
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.activity.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	return stored, nil
}

func (s *placementService) ListByDocument(ctx context.Context, documentID string) ([]model.Placement, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	return s.placements.ListByDocument(ctx, documentID)
}

func (s *placementService) AuditTrail(ctx context.Context, documentID string) ([]model.Placement, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	return s.placements.ListByDocumentDesc(ctx, documentID)
}

func (s *placementService) UpdateStatus(ctx context.Context, id, targetStatus string) (*model.Placement, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	status, err := model.ParseReviewStatus(targetStatus)
	if err != nil {
		return nil, err
	}
	p, err := s.placements.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlacementNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *placementService) UploadImage(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (string, error) {
	if r == nil {
		return "", ErrReaderNil
	}
	ext := filepath.Ext(originalFilename)
	key := filepath.ToSlash(filepath.Join("signatures", uuid.New().String()+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return objInfo.Key, nil
}

// Generate is read-only with respect to persisted state: it reads the source
// binary and the current placement set and derives a fresh output each call.
func (s *placementService) Generate(ctx context.Context, documentID string) (*GenerateResult, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer rc.Close()
	source, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	placements, err := s.placements.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}

	res, err := s.compositor.Composite(ctx, source, placements)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Data:        res.Output,
		Filename:    outputFilename(doc.OriginalName),
		ContentType: "application/pdf",
		Skipped:     res.Skipped,
	}, nil
}

// outputFilename derives the suggested download name from the document's
// display name: strip a trailing .pdf if present, re-append it, fall back to
// a generic name when the display name is absent.
func outputFilename(originalName string) string {
	name := strings.TrimSpace(originalName)
	if name == "" {
		return "signed.pdf"
	}
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	return name + ".pdf"
}
