package service

import (
	"context"
	"errors"
	"strings"

	"pdfcatalog/internal/model"
	"pdfcatalog/internal/repository"
)

var ErrYearRequired = errors.New("year is required")

// CatalogService defines the read use cases of the catalog.
type CatalogService interface {
	// Years lists the distinct year levels.
	Years(ctx context.Context) ([]string, error)

	// ByYear lists the documents of a year level ordered by subject, then title.
	ByYear(ctx context.Context, yearLevel string) ([]model.Document, error)
}

type catalogService struct {
	repo repository.DocumentRepository
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(repo repository.DocumentRepository) CatalogService {
	return &catalogService{repo: repo}
}

// Years never returns a nil slice so the response encodes as [].
func (s *catalogService) Years(ctx context.Context) ([]string, error) {
	years, err := s.repo.ListYears(ctx)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []string{}
	}
	return years, nil
}

func (s *catalogService) ByYear(ctx context.Context, yearLevel string) ([]model.Document, error) {
	if strings.TrimSpace(yearLevel) == "" {
		return nil, ErrYearRequired
	}
	docs, err := s.repo.ListByYear(ctx, yearLevel)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}
