package mocks

import (
	"context"
	"io"

	"signapi/internal/model"
	"signapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPlacementService struct {
	mock.Mock
}

func (m *MockPlacementService) Submit(ctx context.Context, in service.SubmitPlacementInput) (*model.Placement, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Placement), args.Error(1)
}

func (m *MockPlacementService) ListByDocument(ctx context.Context, documentID string) ([]model.Placement, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Placement), args.Error(1)
}

func (m *MockPlacementService) AuditTrail(ctx context.Context, documentID string) ([]model.Placement, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Placement), args.Error(1)
}

func (m *MockPlacementService) UpdateStatus(ctx context.Context, id, targetStatus string) (*model.Placement, error) {
	args := m.Called(ctx, id, targetStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Placement), args.Error(1)
}

func (m *MockPlacementService) UploadImage(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (string, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockPlacementService) Generate(ctx context.Context, documentID string) (*service.GenerateResult, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}
