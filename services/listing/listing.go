package listing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"roame/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Search returns listings matching the free-text query and category.
func (s *DefaultListingService) Search(ctx context.Context, q, category string) ([]models.Listing, error) {
	listings, err := s.Listings.Find(ctx, strings.TrimSpace(q), strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return listings, nil
}

// Get loads a listing with its host and reviews in posting order.
func (s *DefaultListingService) Get(ctx context.Context, id string) (*ListingDetail, error) {
	listing, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	detail := &ListingDetail{Listing: listing, Reviews: []ReviewView{}}
	if owner, err := s.Users.GetByID(ctx, listing.OwnerID); err != nil {
		s.Logger.Warn("Failed to load listing owner", zap.String("listingId", id), zap.Error(err))
	} else if owner != nil {
		detail.OwnerName = owner.Username
	}

	reviews, err := s.Reviews.FindByIDs(ctx, listing.Reviews)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	byID := make(map[string]models.Review, len(reviews))
	for _, r := range reviews {
		byID[r.ID] = r
	}
	names := map[string]string{}
	for _, rid := range listing.Reviews {
		r, ok := byID[rid]
		if !ok {
			continue
		}
		name, seen := names[r.AuthorID]
		if !seen {
			if author, err := s.Users.GetByID(ctx, r.AuthorID); err == nil && author != nil {
				name = author.Username
			}
			names[r.AuthorID] = name
		}
		detail.Reviews = append(detail.Reviews, ReviewView{Review: r, AuthorName: name})
	}
	return detail, nil
}

// Create publishes a listing for ownerID and marks them as a host.
func (s *DefaultListingService) Create(ctx context.Context, ownerID string, in models.Listing, image *Upload) (*models.Listing, error) {
	if ownerID == "" {
		return nil, ErrForbidden
	}
	in.Geometry.Type = "Point"
	if err := validateNew(in); err != nil {
		return nil, err
	}

	listing := in
	listing.ID = uuid.New().String()
	listing.OwnerID = ownerID
	listing.Reviews = []string{}
	listing.Image = models.Image{}
	if image != nil {
		img, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		listing.Image = *img
	}

	if err := s.Listings.Create(ctx, &listing); err != nil {
		s.discardImage(ctx, listing.Image)
		return nil, fmt.Errorf("Create: %w", err)
	}

	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		s.Logger.Warn("Failed to load listing owner", zap.String("userId", ownerID), zap.Error(err))
	} else if owner != nil && !owner.IsHost {
		if err := s.Users.SetHost(ctx, ownerID); err != nil {
			s.Logger.Error("Failed to mark user as host", zap.String("userId", ownerID), zap.Error(err))
		}
	}

	s.Logger.Info("Listing created", zap.String("listingId", listing.ID), zap.String("ownerId", ownerID))
	return &listing, nil
}

// Update changes the host-editable fields of a listing the caller owns.
func (s *DefaultListingService) Update(ctx context.Context, userID, id string, edit models.ListingEdit, image *Upload) (*models.Listing, error) {
	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateEditable(edit); err != nil {
		return nil, err
	}

	edit.Image = nil
	if image != nil {
		img, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		edit.Image = img
	}

	updated, err := s.Listings.UpdateEditable(ctx, id, edit)
	if err != nil {
		if edit.Image != nil {
			s.discardImage(ctx, *edit.Image)
		}
		return nil, fmt.Errorf("Update: %w", err)
	}
	if updated == nil {
		return nil, ErrListingNotFound
	}
	if edit.Image != nil && current.Image.Filename != "" && current.Image.Filename != edit.Image.Filename {
		s.discardImage(ctx, current.Image)
	}
	return updated, nil
}

// Delete removes a listing the caller owns together with its reviews and photo.
func (s *DefaultListingService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	deleted, err := s.Listings.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if deleted == nil {
		return ErrListingNotFound
	}

	if len(deleted.Reviews) > 0 {
		n, err := s.Reviews.DeleteMany(ctx, deleted.Reviews)
		if err != nil {
			return fmt.Errorf("Delete: listing removed but reviews were not: %w", err)
		}
		s.Logger.Info("Deleted listing reviews", zap.String("listingId", id), zap.Int64("count", n))
	}
	s.discardImage(ctx, deleted.Image)
	return nil
}

func (s *DefaultListingService) owned(ctx context.Context, userID, id string) (*models.Listing, error) {
	listing, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %s: %w", id, err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if userID == "" || listing.OwnerID != userID {
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *DefaultListingService) uploadImage(ctx context.Context, image *Upload) (*models.Image, error) {
	if s.Images == nil {
		return nil, invalid("image uploads are not enabled")
	}
	ext := strings.ToLower(filepath.Ext(image.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, invalid("image must be a jpg, png or webp file")
	}
	stored, err := s.Images.Upload(ctx, image.Content, s.Folder, uuid.New().String()+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to upload listing image: %w", err)
	}
	return &models.Image{URL: stored.URL, Filename: stored.PublicID}, nil
}

func (s *DefaultListingService) discardImage(ctx context.Context, img models.Image) {
	if s.Images == nil || img.Filename == "" {
		return
	}
	if err := s.Images.DeleteFile(ctx, img.Filename); err != nil {
		s.Logger.Warn("Failed to delete listing image", zap.String("filename", img.Filename), zap.Error(err))
	}
}
