package publish

import (
	"bytes"
	"context"
	"fmt"

	"pdfcatalog/internal/storage"
)

// ObjectPublisher writes files to an S3-compatible bucket.
type ObjectPublisher struct {
	store   storage.Storage
	prefix  string
	baseURL string
}

// NewObjectPublisher stores objects under prefix. With an empty publicBaseURL
// the store's own object URL is used.
func NewObjectPublisher(store storage.Storage, prefix, publicBaseURL string) *ObjectPublisher {
	return &ObjectPublisher{store: store, prefix: prefix, baseURL: publicBaseURL}
}

func (p *ObjectPublisher) Publish(ctx context.Context, obj Object) (Published, error) {
	key := objectPath(p.prefix, obj.FileName)
	ct := obj.ContentType
	if ct == "" {
		ct = "application/pdf"
	}

	info, err := p.store.Put(ctx, key, bytes.NewReader(obj.Data), storage.PutObjectOptions{
		Size:        int64(len(obj.Data)),
		ContentType: ct,
		Metadata:    map[string]string{"title": obj.Title},
	})
	if err != nil {
		return Published{}, fmt.Errorf("upload to storage: %w", err)
	}

	u := p.store.ObjectURL(info.Key)
	if p.baseURL != "" {
		u = joinURL(p.baseURL, info.Key)
	}
	return Published{Path: info.Key, URL: u}, nil
}
