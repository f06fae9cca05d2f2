package mocks

import (
	"context"

	"signapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPlacementRepository struct {
	mock.Mock
}

func (m *MockPlacementRepository) Create(ctx context.Context, p *model.Placement) (*model.Placement, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Placement), args.Error(1)
}

func (m *MockPlacementRepository) FindByID(ctx context.Context, id string) (*model.Placement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Placement), args.Error(1)
}

func (m *MockPlacementRepository) ListByDocument(ctx context.Context, documentID string) ([]model.Placement, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Placement), args.Error(1)
}

func (m *MockPlacementRepository) ListByDocumentDesc(ctx context.Context, documentID string) ([]model.Placement, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Placement), args.Error(1)
}

func (m *MockPlacementRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Placement, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Placement), args.Error(1)
}
