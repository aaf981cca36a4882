package listingRepo

import (
	"context"

	"roame/models"
)

// ListingRepository defines methods for listing data access.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	// GetByID returns the listing, or nil when none exists.
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	// Find searches listings by free text and category; both optional.
	Find(ctx context.Context, q, category string) ([]models.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.Listing, error)
	// UpdateEditable sets only host-editable fields and returns the new document.
	UpdateEditable(ctx context.Context, id string, edit models.ListingEdit) (*models.Listing, error)
	// Delete removes the listing and returns what was deleted, or nil.
	Delete(ctx context.Context, id string) (*models.Listing, error)
	PushReview(ctx context.Context, listingID, reviewID string) error
	PullReview(ctx context.Context, listingID, reviewID string) error
}
