package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pdfcatalog/internal/model"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrStorage       = errors.New("storage error")
	ErrPublish       = errors.New("publish error")
	ErrDatabase      = errors.New("database error")
)

const uploadSuccessMessage = "PDF uploaded successfully"

// UploadRequest carries the four form fields of an upload plus the file name.
type UploadRequest struct {
	Title       string
	Subject     string
	Year        string
	FileName    string
	ContentType string
	Data        []byte
}

// Validate reports ErrMissingFields when any field is blank or the file is empty.
func (r UploadRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" ||
		strings.TrimSpace(r.Subject) == "" ||
		strings.TrimSpace(r.Year) == "" ||
		r.FileName == "" ||
		len(r.Data) == 0 {
		return ErrMissingFields
	}
	return nil
}

// UploadResult is the JSON body returned after a successful upload.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Year    string `json:"year"`
	FileURL string `json:"fileUrl"`
}

func newUploadResult(doc *model.Document) *UploadResult {
	return &UploadResult{
		Success: true,
		Message: uploadSuccessMessage,
		ID:      doc.ID,
		Title:   doc.Title,
		Subject: doc.Subject,
		Year:    doc.YearLevel,
		FileURL: doc.FileURL,
	}
}

// UploadService stores a PDF and records it in the catalog.
// The local and remote implementations are alternative deployments.
type UploadService interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

var tracer trace.Tracer = otel.Tracer("pdfcatalog/service")

func startUploadSpan(ctx context.Context, name string, req UploadRequest) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("pdf.file_name", req.FileName),
		attribute.String("pdf.year_level", req.Year),
		attribute.Int("pdf.size", len(req.Data)),
	))
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
