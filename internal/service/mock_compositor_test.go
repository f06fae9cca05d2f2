package service

import (
	"context"

	"signapi/internal/model"
	"signapi/internal/pdf"

	"github.com/stretchr/testify/mock"
)

type MockCompositor struct {
	mock.Mock
}

func (m *MockCompositor) Composite(ctx context.Context, source []byte, placements []model.Placement) (*pdf.Result, error) {
	args := m.Called(ctx, source, placements)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pdf.Result), args.Error(1)
}
