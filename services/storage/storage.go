package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"roame/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStorage keeps listing images and invoice documents on Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds the Cloudinary backend from credentials.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	utils.GetLogger().Info("Cloudinary storage initialized", zap.String("cloudName", cloudName))
	return &CloudinaryStorage{cld: cld}, nil
}

// Upload uploads content into folder. The name (without extension) becomes
// the public id so repeated uploads of the same document overwrite it.
func (s *CloudinaryStorage) Upload(ctx context.Context, content io.Reader, folder, name string) (*StoredFile, error) {
	publicID := strings.TrimSuffix(name, path.Ext(name))
	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		Overwrite:    api.Bool(true),
		ResourceType: "auto",
	}
	result, err := s.cld.Upload.Upload(ctx, content, params)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStorage: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("CloudinaryStorage: no public ID returned")
	}
	return &StoredFile{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *CloudinaryStorage) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("CloudinaryStorage: failed to delete file: %w", err)
	}
	return nil
}
