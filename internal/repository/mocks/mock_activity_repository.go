package mocks

import (
	"context"

	"signapi/internal/model"
	"signapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, rec *model.ActivityRecord) (*model.ActivityRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ActivityRecord), args.Error(1)
}

func (m *MockActivityRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ActivityRecord], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ActivityRecord]), args.Error(1)
}
