package storage

import (
	"context"
	"io"
)

// StoredFile identifies an uploaded object and where clients can fetch it.
type StoredFile struct {
	URL      string `json:"url"`
	PublicID string `json:"filename"`
}

// StorageService defines the interface for storage operations.
type StorageService interface {
	// Upload stores the content under folder/name and returns its reference.
	Upload(ctx context.Context, content io.Reader, folder, name string) (*StoredFile, error)
	DeleteFile(ctx context.Context, publicID string) error
}
