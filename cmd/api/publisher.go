package main

import (
	"context"
	"fmt"

	"pdfcatalog/internal/config"
	"pdfcatalog/internal/publish"
	"pdfcatalog/internal/storage"
)

// newPublisher picks the remote backend named by UPLOAD_BACKEND.
func newPublisher(ctx context.Context, cfg *config.AppConfig) (publish.Publisher, error) {
	switch cfg.Upload.Backend {
	case config.BackendGitHub:
		gh, err := publish.NewGitHubPublisher(cfg.GitHub, cfg.Upload.PublicBaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("github publisher: %w", err)
		}
		return gh, nil
	case config.BackendObject:
		store, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		return publish.NewObjectPublisher(store, cfg.GitHub.PathPrefix, cfg.Upload.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}
