package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"signapi/internal/model"
	"signapi/internal/pdf"
	repoMocks "signapi/internal/repository/mocks"
	"signapi/internal/storage"
	storeMocks "signapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPlacementFixture() (*storeMocks.MockStorage, *repoMocks.MockDocumentRepository, *repoMocks.MockPlacementRepository, *repoMocks.MockActivityRepository, *MockCompositor, PlacementService) {
	mStore := new(storeMocks.MockStorage)
	mDocs := new(repoMocks.MockDocumentRepository)
	mPlacements := new(repoMocks.MockPlacementRepository)
	mActivity := new(repoMocks.MockActivityRepository)
	mCompositor := new(MockCompositor)
	svc := NewPlacementService(mStore, mDocs, mPlacements, mActivity, mCompositor)
	return mStore, mDocs, mPlacements, mActivity, mCompositor, svc
}

func TestPlacementService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path with text", func(t *testing.T) {
		_, mDocs, mPlacements, mActivity, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
		mPlacements.On("Create", ctx, mock.MatchedBy(func(p *model.Placement) bool {
			return p.DocumentID == "doc-1" &&
				p.AuthorID == "user-1" &&
				p.PageNumber == 2 &&
				p.Status == model.StatusPending &&
				p.Content.Kind == model.ContentText &&
				p.Content.Text == "Jane Doe"
		})).Return(&model.Placement{
			ID:         "p-1",
			DocumentID: "doc-1",
			AuthorID:   "user-1",
			PageNumber: 2,
			Status:     model.StatusPending,
		}, nil)
		mActivity.On("Append", ctx, mock.MatchedBy(func(rec *model.ActivityRecord) bool {
			return rec.Action == model.ActionPlacementCreated &&
				rec.DocumentID == "doc-1" &&
				rec.Message == "User signed page 2 of document."
		})).Return(&model.ActivityRecord{ID: "act-1"}, nil)

		p, err := svc.Submit(ctx, SubmitPlacementInput{
			DocumentID: "doc-1",
			AuthorID:   "user-1",
			PageNumber: 2,
			X:          0.5,
			Y:          0.25,
			Text:       "Jane Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, p.Status)
		mDocs.AssertExpectations(t)
		mPlacements.AssertExpectations(t)
		mActivity.AssertExpectations(t)
	})

	t.Run("image wins over text", func(t *testing.T) {
		_, mDocs, mPlacements, mActivity, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
		mPlacements.On("Create", ctx, mock.MatchedBy(func(p *model.Placement) bool {
			return p.Content.Kind == model.ContentImage && p.Content.ImageKey == "signatures/a.png"
		})).Return(&model.Placement{ID: "p-1", PageNumber: 1}, nil)
		mActivity.On("Append", ctx, mock.Anything).Return(&model.ActivityRecord{}, nil)

		_, err := svc.Submit(ctx, SubmitPlacementInput{
			DocumentID: "doc-1",
			X:          0.1,
			Y:          0.1,
			ImageKey:   "signatures/a.png",
			Text:       "ignored",
		})
		require.NoError(t, err)
		mPlacements.AssertExpectations(t)
	})

	t.Run("zero page defaults to first", func(t *testing.T) {
		_, mDocs, mPlacements, mActivity, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
		mPlacements.On("Create", ctx, mock.MatchedBy(func(p *model.Placement) bool {
			return p.PageNumber == 1
		})).Return(&model.Placement{ID: "p-1", PageNumber: 1}, nil)
		mActivity.On("Append", ctx, mock.Anything).Return(&model.ActivityRecord{}, nil)

		_, err := svc.Submit(ctx, SubmitPlacementInput{DocumentID: "doc-1", X: 0, Y: 0})
		require.NoError(t, err)
		mPlacements.AssertExpectations(t)
	})

	t.Run("missing document id", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		_, err := svc.Submit(ctx, SubmitPlacementInput{X: 0.5, Y: 0.5})
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("coordinates out of range", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		for _, in := range []SubmitPlacementInput{
			{DocumentID: "doc-1", X: -0.1, Y: 0.5},
			{DocumentID: "doc-1", X: 1.1, Y: 0.5},
			{DocumentID: "doc-1", X: 0.5, Y: -0.1},
			{DocumentID: "doc-1", X: 0.5, Y: 1.1},
		} {
			_, err := svc.Submit(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidCoordinates)
		}
	})

	t.Run("negative page number rejected", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		_, err := svc.Submit(ctx, SubmitPlacementInput{DocumentID: "doc-1", PageNumber: -1, X: 0.5, Y: 0.5})
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("boundary coordinates accepted", func(t *testing.T) {
		_, mDocs, mPlacements, mActivity, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil).Twice()
		mPlacements.On("Create", ctx, mock.Anything).Return(&model.Placement{ID: "p", PageNumber: 1}, nil).Twice()
		mActivity.On("Append", ctx, mock.Anything).Return(&model.ActivityRecord{}, nil).Twice()

		_, err := svc.Submit(ctx, SubmitPlacementInput{DocumentID: "doc-1", X: 0, Y: 0})
		assert.NoError(t, err)
		_, err = svc.Submit(ctx, SubmitPlacementInput{DocumentID: "doc-1", X: 1, Y: 1})
		assert.NoError(t, err)
	})

	t.Run("document not found", func(t *testing.T) {
		_, mDocs, _, _, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Submit(ctx, SubmitPlacementInput{DocumentID: "missing", X: 0.5, Y: 0.5})
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("activity append failure surfaces", func(t *testing.T) {
		_, mDocs, mPlacements, mActivity, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
		mPlacements.On("Create", ctx, mock.Anything).Return(&model.Placement{ID: "p-1", PageNumber: 1}, nil)
		mActivity.On("Append", ctx, mock.Anything).Return(nil, errors.New("insert fail"))

		_, err := svc.Submit(ctx, SubmitPlacementInput{DocumentID: "doc-1", X: 0.5, Y: 0.5})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "record activity")
	})
}

func TestPlacementService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("sign", func(t *testing.T) {
		_, _, mPlacements, _, _, svc := newPlacementFixture()

		mPlacements.On("UpdateStatus", ctx, "p-1", model.StatusSigned).
			Return(&model.Placement{ID: "p-1", Status: model.StatusSigned}, nil)

		p, err := svc.UpdateStatus(ctx, "p-1", "signed")
		require.NoError(t, err)
		assert.Equal(t, model.StatusSigned, p.Status)
	})

	t.Run("revise a signed decision to rejected", func(t *testing.T) {
		_, _, mPlacements, _, _, svc := newPlacementFixture()

		mPlacements.On("UpdateStatus", ctx, "p-1", model.StatusRejected).
			Return(&model.Placement{ID: "p-1", Status: model.StatusRejected}, nil)

		p, err := svc.UpdateStatus(ctx, "p-1", "rejected")
		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, p.Status)
	})

	t.Run("invalid target status", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		for _, target := range []string{"pending", "approved", "SIGNED", ""} {
			_, err := svc.UpdateStatus(ctx, "p-1", target)
			assert.ErrorIs(t, err, model.ErrInvalidStatus, target)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, _, mPlacements, _, _, svc := newPlacementFixture()

		mPlacements.On("UpdateStatus", ctx, "missing", model.StatusSigned).Return(nil, sql.ErrNoRows)

		_, err := svc.UpdateStatus(ctx, "missing", "signed")
		assert.ErrorIs(t, err, ErrPlacementNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		_, err := svc.UpdateStatus(ctx, "", "signed")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestPlacementService_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore, _, _, _, _, svc := newPlacementFixture()

		r := strings.NewReader("png bytes")
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "signatures/") && strings.HasSuffix(key, ".png")
		}), r, storage.PutObjectOptions{
			Size:        9,
			ContentType: "image/png",
			Metadata:    map[string]string{"original-filename": "stamp.png"},
		}).Return(storage.ObjectInfo{Key: "signatures/uuid.png"}, nil)

		key, err := svc.UploadImage(ctx, r, "stamp.png", "image/png", 9)
		require.NoError(t, err)
		assert.Equal(t, "signatures/uuid.png", key)
		mStore.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		_, err := svc.UploadImage(ctx, nil, "stamp.png", "image/png", 0)
		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore, _, _, _, _, svc := newPlacementFixture()

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.UploadImage(ctx, strings.NewReader("x"), "stamp.png", "image/png", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upload to storage")
	})
}

func TestPlacementService_Generate(t *testing.T) {
	ctx := context.Background()
	source := []byte("%PDF-1.7 source")

	t.Run("happy path", func(t *testing.T) {
		mStore, mDocs, mPlacements, _, mCompositor, svc := newPlacementFixture()

		doc := &model.Document{ID: "doc-1", OriginalName: "Lease Agreement.pdf", StoragePath: "documents/uuid.pdf"}
		placements := []model.Placement{{ID: "p-1", PageNumber: 1, X: 0.5, Y: 0.9}}

		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, "documents/uuid.pdf").
			Return(io.NopCloser(strings.NewReader(string(source))), nil, nil)
		mPlacements.On("ListByDocument", ctx, "doc-1").Return(placements, nil)
		mCompositor.On("Composite", ctx, source, placements).
			Return(&pdf.Result{Output: []byte("signed output"), Skipped: 1}, nil)

		res, err := svc.Generate(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, []byte("signed output"), res.Data)
		assert.Equal(t, "Lease Agreement.pdf", res.Filename)
		assert.Equal(t, "application/pdf", res.ContentType)
		assert.Equal(t, 1, res.Skipped)
		mCompositor.AssertExpectations(t)
	})

	t.Run("document not found", func(t *testing.T) {
		_, mDocs, _, _, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Generate(ctx, "missing")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("source fetch failure", func(t *testing.T) {
		mStore, mDocs, _, _, _, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", StoragePath: "p"}, nil)
		mStore.On("Get", ctx, "p").Return(nil, nil, errors.New("NoSuchKey"))

		_, err := svc.Generate(ctx, "doc-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "fetch source")
	})

	t.Run("compositor error passes through", func(t *testing.T) {
		mStore, mDocs, mPlacements, _, mCompositor, svc := newPlacementFixture()

		mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", StoragePath: "p"}, nil)
		mStore.On("Get", ctx, "p").Return(io.NopCloser(strings.NewReader("x")), nil, nil)
		mPlacements.On("ListByDocument", ctx, "doc-1").Return([]model.Placement{}, nil)
		mCompositor.On("Composite", ctx, mock.Anything, mock.Anything).
			Return(nil, pdf.ErrSourceCorrupt)

		_, err := svc.Generate(ctx, "doc-1")
		assert.ErrorIs(t, err, pdf.ErrSourceCorrupt)
	})

	t.Run("empty id", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		_, err := svc.Generate(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"Lease Agreement.pdf", "Lease Agreement.pdf"},
		{"Lease Agreement.PDF", "Lease Agreement.pdf"},
		{"notes", "notes.pdf"},
		{"archive.pdf.pdf", "archive.pdf.pdf"},
		{"", "signed.pdf"},
		{"   ", "signed.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outputFilename(tt.original), tt.original)
	}
}

func TestPlacementService_Listing(t *testing.T) {
	ctx := context.Background()

	t.Run("list in creation order", func(t *testing.T) {
		_, _, mPlacements, _, _, svc := newPlacementFixture()

		expected := []model.Placement{{ID: "p-1"}, {ID: "p-2"}}
		mPlacements.On("ListByDocument", ctx, "doc-1").Return(expected, nil)

		items, err := svc.ListByDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, expected, items)
	})

	t.Run("audit trail newest first", func(t *testing.T) {
		_, _, mPlacements, _, _, svc := newPlacementFixture()

		expected := []model.Placement{{ID: "p-2"}, {ID: "p-1"}}
		mPlacements.On("ListByDocumentDesc", ctx, "doc-1").Return(expected, nil)

		items, err := svc.AuditTrail(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, expected, items)
	})

	t.Run("empty ids rejected", func(t *testing.T) {
		_, _, _, _, _, svc := newPlacementFixture()

		_, err := svc.ListByDocument(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
		_, err = svc.AuditTrail(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
