package storage

import (
	"path/filepath"
	"testing"

	"roame/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStore_Local(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")
	store, localDir, err := InvoiceStore(config.Config{InvoiceStorage: "local", InvoiceDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)
	assert.Equal(t, dir, localDir)
	assert.DirExists(t, dir)
}

func TestInvoiceStore_CloudinaryNeedsCredentials(t *testing.T) {
	_, _, err := InvoiceStore(config.Config{InvoiceStorage: "cloudinary"})
	assert.Error(t, err)
}

func TestInvoiceStore_Unknown(t *testing.T) {
	_, _, err := InvoiceStore(config.Config{InvoiceStorage: "s3"})
	assert.EqualError(t, err, `unknown INVOICE_STORAGE "s3"`)
}
