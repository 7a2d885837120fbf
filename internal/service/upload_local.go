package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"pdfcatalog/internal/logging"
	"pdfcatalog/internal/model"
	"pdfcatalog/internal/repository"
)

// LocalFileRoute is the URL prefix under which saved files are served.
const LocalFileRoute = "/pdfs"

type localUploadService struct {
	dir  string
	repo repository.DocumentRepository
	log  *logging.Logger
}

// NewLocalUploadService saves files under dir and records /pdfs/<name> URLs.
// A file with the same name is overwritten.
func NewLocalUploadService(dir string, repo repository.DocumentRepository, log *logging.Logger) UploadService {
	return &localUploadService{dir: dir, repo: repo, log: log.With("upload_local")}
}

func (s *localUploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	ctx, span := startUploadSpan(ctx, "upload.local", req)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := filepath.Base(filepath.Clean("/" + req.FileName))
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	target := filepath.Join(s.dir, name)
	if _, err := os.Stat(target); err == nil {
		s.log.Warn("upload_overwrite", map[string]any{"file_name": name})
	}
	if err := os.WriteFile(target, req.Data, 0o644); err != nil {
		failSpan(span, err)
		s.log.Error("upload_save_failed", err, map[string]any{"file_name": name})
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.log.Info("upload_saved", map[string]any{"file_name": name, "size": len(req.Data)})

	doc := &model.Document{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Subject:   req.Subject,
		YearLevel: req.Year,
		FileURL:   LocalFileRoute + "/" + url.PathEscape(name),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		failSpan(span, err)
		s.log.Error("upload_record_failed", err, map[string]any{"file_name": name, "id": doc.ID})
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	s.log.Info("upload_recorded", map[string]any{"id": stored.ID})

	return newUploadResult(stored), nil
}
