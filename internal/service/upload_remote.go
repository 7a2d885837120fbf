package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pdfcatalog/internal/logging"
	"pdfcatalog/internal/model"
	"pdfcatalog/internal/publish"
	"pdfcatalog/internal/repository"
)

type remoteUploadService struct {
	pub  publish.Publisher
	repo repository.DocumentRepository
	log  *logging.Logger
}

// NewRemoteUploadService publishes the file first and records the document
// only after the publisher reports success.
//
// The two steps are not atomic: if the insert fails the published file stays
// behind without a catalog row.
func NewRemoteUploadService(pub publish.Publisher, repo repository.DocumentRepository, log *logging.Logger) UploadService {
	return &remoteUploadService{pub: pub, repo: repo, log: log.With("upload_remote")}
}

func (s *remoteUploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	ctx, span := startUploadSpan(ctx, "upload.remote", req)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	published, err := s.pub.Publish(ctx, publish.Object{
		FileName:    req.FileName,
		Title:       req.Title,
		ContentType: req.ContentType,
		Data:        req.Data,
	})
	if err != nil {
		failSpan(span, err)
		s.log.Error("upload_publish_failed", err, map[string]any{"file_name": req.FileName})
		return nil, fmt.Errorf("%w: %w", ErrPublish, err)
	}
	s.log.Info("upload_published", map[string]any{"path": published.Path, "url": published.URL})

	doc := &model.Document{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Subject:   req.Subject,
		YearLevel: req.Year,
		FileURL:   published.URL,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		failSpan(span, err)
		s.log.Error("upload_record_failed", err, map[string]any{
			"path": published.Path,
			"id":   doc.ID,
			"msg":  "published file has no catalog row",
		})
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	s.log.Info("upload_recorded", map[string]any{"id": stored.ID})

	return newUploadResult(stored), nil
}
