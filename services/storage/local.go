package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes files under a root directory that the HTTP layer
// serves at urlPrefix.
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", root, err)
	}
	return &LocalStorage{root: root, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Root is the directory files are written to.
func (s *LocalStorage) Root() string {
	return s.root
}

// Upload writes to a temp file and renames it into place, so readers never
// see a partially written document.
func (s *LocalStorage) Upload(ctx context.Context, content io.Reader, folder, name string) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("LocalStorage: invalid file name")
	}
	folder = strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")
	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("LocalStorage: failed to create folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("LocalStorage: failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("LocalStorage: failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("LocalStorage: failed to close file: %w", err)
	}
	dest := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("LocalStorage: failed to move file into place: %w", err)
	}

	publicID := path.Join(folder, name)
	return &StoredFile{URL: s.urlPrefix + "/" + publicID, PublicID: publicID}, nil
}

// DeleteFile removes the file; a missing file is not an error.
func (s *LocalStorage) DeleteFile(ctx context.Context, publicID string) error {
	p := filepath.Join(s.root, filepath.Clean("/"+publicID))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("LocalStorage: failed to delete file: %w", err)
	}
	return nil
}
