package shared

import (
	"context"
	"time"
)

// StoredObject is the result of an upload: where it lives and how to fetch it
type StoredObject struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
}

// ObjectStorage stores generated documents (audit exports, invoice PDFs)
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// GenerateDownloadURL returns a time-limited URL; expiresIn <= 0 uses the default
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// StoreDocument uploads data and returns a download link for it
func StoreDocument(ctx context.Context, s ObjectStorage, key, contentType string, data []byte) (*StoredObject, error) {
	if err := s.Upload(ctx, key, data, contentType); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	return &StoredObject{Key: key, URL: url, ExpiresAt: expiresAt, ContentType: contentType, Size: len(data)}, nil
}
