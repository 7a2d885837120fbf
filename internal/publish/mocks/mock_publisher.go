package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfcatalog/internal/publish"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, obj publish.Object) (publish.Published, error) {
	args := m.Called(ctx, obj)
	return args.Get(0).(publish.Published), args.Error(1)
}
