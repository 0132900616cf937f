package storage

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned when no object storage backend is configured.
var ErrDisabled = errors.New("object storage is not configured")

// SignedUpload is an ephemeral grant for a direct PUT against object storage.
type SignedUpload struct {
	Path      string
	Token     string
	SignedURL string
}

// SignedDownload is an ephemeral grant for a direct GET against object storage.
type SignedDownload struct {
	URL       string
	ExpiresIn time.Duration
}

// ObjectStorage issues pre-authorized URLs for direct upload and download.
// It never proxies object bytes.
type ObjectStorage interface {
	SignUpload(ctx context.Context, path, contentType string) (*SignedUpload, error)
	SignDownload(ctx context.Context, path string, expiresIn time.Duration) (*SignedDownload, error)
}
