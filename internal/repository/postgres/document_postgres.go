package postgres

import (
	"context"
	"database/sql"

	"pdfcatalog/internal/model"
	"pdfcatalog/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new pdfs row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO pdfs (id, title, subject, year_level, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, subject, year_level, file_url
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Subject,
		doc.YearLevel,
		doc.FileURL,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.Title,
		&out.Subject,
		&out.YearLevel,
		&out.FileURL,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListYears returns every distinct year_level. An empty table yields an empty slice.
func (r *DocumentPostgres) ListYears(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT year_level FROM pdfs ORDER BY year_level`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := make([]string, 0)
	for rows.Next() {
		var y string
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return years, nil
}

// ListByYear returns the documents of yearLevel ordered by subject, then title.
func (r *DocumentPostgres) ListByYear(ctx context.Context, yearLevel string) ([]model.Document, error) {
	const q = `
		SELECT id, title, subject, year_level, file_url
		FROM pdfs
		WHERE year_level = $1
		ORDER BY subject, title
	`
	rows, err := r.db.QueryContext(ctx, q, yearLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.Title,
			&d.Subject,
			&d.YearLevel,
			&d.FileURL,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
