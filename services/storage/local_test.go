package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/invoices/")
	require.NoError(t, err)

	ctx := context.Background()
	f, err := s.Upload(ctx, strings.NewReader("%PDF-1.3"), "", "INV-ABC123.pdf")
	require.NoError(t, err)
	assert.Equal(t, "INV-ABC123.pdf", f.PublicID)
	assert.Equal(t, "/invoices/INV-ABC123.pdf", f.URL)

	data, err := os.ReadFile(filepath.Join(root, "INV-ABC123.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	require.NoError(t, s.DeleteFile(ctx, f.PublicID))
	_, err = os.Stat(filepath.Join(root, "INV-ABC123.pdf"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.DeleteFile(ctx, f.PublicID))
}

func TestLocalStorage_NoPathEscape(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/files")
	require.NoError(t, err)

	f, err := s.Upload(context.Background(), strings.NewReader("x"), "../../etc", "../passwd")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "etc", "passwd"))
	assert.Equal(t, "etc/passwd", f.PublicID)
	assert.Equal(t, "/files/etc/passwd", f.URL)
}
