package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfcatalog/internal/model"
	"pdfcatalog/internal/service"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Years(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogService) ByYear(ctx context.Context, yearLevel string) ([]model.Document, error) {
	args := m.Called(ctx, yearLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, req service.UploadRequest) (*service.UploadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}
