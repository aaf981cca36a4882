package storage

import (
	"fmt"

	"roame/config"
)

// Backends accepted by INVOICE_STORAGE.
const (
	BackendLocal      = "local"
	BackendCloudinary = "cloudinary"
)

// Cloudinary builds the Cloudinary backend from the loaded configuration.
func Cloudinary(cfg config.Config) (StorageService, error) {
	cld, err := NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return cld, nil
}

// InvoiceStore picks where invoice documents go. localDir is the directory
// to serve under /invoices and is empty for remote backends.
func InvoiceStore(cfg config.Config) (store StorageService, localDir string, err error) {
	switch cfg.InvoiceStorage {
	case "", BackendLocal:
		local, err := NewLocalStorage(cfg.InvoiceDir, "/invoices")
		if err != nil {
			return nil, "", err
		}
		return local, local.Root(), nil
	case BackendCloudinary:
		cld, err := Cloudinary(cfg)
		if err != nil {
			return nil, "", err
		}
		return cld, "", nil
	}
	return nil, "", fmt.Errorf("unknown INVOICE_STORAGE %q", cfg.InvoiceStorage)
}
