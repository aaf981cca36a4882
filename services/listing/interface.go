package listing

import (
	"context"
	"io"

	listingRepo "roame/database/repository/listing"
	reviewRepo "roame/database/repository/review"
	userRepo "roame/database/repository/user"
	"roame/models"
	"roame/services/storage"

	"go.uber.org/zap"
)

// ListingService covers listing CRUD, search and reviews.
type ListingService interface {
	Search(ctx context.Context, q, category string) ([]models.Listing, error)
	Get(ctx context.Context, id string) (*ListingDetail, error)
	Create(ctx context.Context, ownerID string, in models.Listing, image *Upload) (*models.Listing, error)
	Update(ctx context.Context, userID, id string, edit models.ListingEdit, image *Upload) (*models.Listing, error)
	Delete(ctx context.Context, userID, id string) error

	AddReview(ctx context.Context, userID, listingID string, rating int, comment string) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, listingID, reviewID string) error
}

// Upload is a listing photo received from the client.
type Upload struct {
	Content  io.Reader
	Filename string
}

// ReviewView is a review with its author's display name.
type ReviewView struct {
	models.Review
	AuthorName string `json:"author_name"`
}

// ListingDetail is a listing page: the listing, its host and its reviews.
type ListingDetail struct {
	Listing   *models.Listing `json:"listing"`
	OwnerName string          `json:"owner_username"`
	Reviews   []ReviewView    `json:"reviews"`
	IsOwner   bool            `json:"isOwner"` // viewer is the host
}

// DefaultListingService is the production implementation.
type DefaultListingService struct {
	Listings listingRepo.ListingRepository
	Reviews  reviewRepo.ReviewRepository
	Users    userRepo.UserRepository
	// Images is optional; listings are created without a photo when nil.
	Images storage.StorageService
	Folder string
	Logger *zap.Logger
}

func NewListingService(
	listings listingRepo.ListingRepository,
	reviews reviewRepo.ReviewRepository,
	users userRepo.UserRepository,
	images storage.StorageService,
	logger *zap.Logger,
) *DefaultListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultListingService{
		Listings: listings,
		Reviews:  reviews,
		Users:    users,
		Images:   images,
		Folder:   "roame/listings",
		Logger:   logger,
	}
}
