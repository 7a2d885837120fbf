package storage

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"pdfcatalog/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.MinIOConfig
		wantErr string
	}{
		{
			name:    "missing endpoint",
			cfg:     config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"},
			wantErr: "minio endpoint is required",
		},
		{
			name:    "missing credentials",
			cfg:     config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"},
			wantErr: "minio credentials are required",
		},
		{
			name:    "missing bucket",
			cfg:     config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: "minio bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewMinIO(ctx, tt.cfg)
			assert.EqualError(t, err, tt.wantErr)
			assert.Nil(t, st)
		})
	}
}

func TestObjectURL(t *testing.T) {
	endpoint, _ := url.Parse("https://storage.example.com")

	assert.Equal(t,
		"https://storage.example.com/pdf-storage/pdfs/Year%207/alg.pdf",
		objectURL(endpoint, "pdf-storage", "pdfs/Year 7/alg.pdf"),
	)
	assert.Equal(t,
		"https://storage.example.com/pdf-storage/alg.pdf",
		objectURL(endpoint, "pdf-storage", "/alg.pdf"),
	)
}
