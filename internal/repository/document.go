package repository

import (
	"context"

	"pdfcatalog/internal/model"
)

// DocumentRepository defines data access for the pdfs table using SQL queries only.
// No business logic here; strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	// The caller supplies the ID.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// ListYears returns the distinct year levels in ascending order.
	ListYears(ctx context.Context) ([]string, error)

	// ListByYear returns the documents of one year level ordered by subject, then title.
	ListByYear(ctx context.Context, yearLevel string) ([]model.Document, error)
}
