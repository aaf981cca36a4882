package listing

import (
	"context"
	"fmt"
	"strings"

	"roame/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddReview posts a review and appends it to the listing.
func (s *DefaultListingService) AddReview(ctx context.Context, userID, listingID string, rating int, comment string) (*models.Review, error) {
	if userID == "" {
		return nil, ErrForbidden
	}
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}
	listing, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("AddReview: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		ListingID: listingID,
		AuthorID:  userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("AddReview: %w", err)
	}
	if err := s.Listings.PushReview(ctx, listingID, review.ID); err != nil {
		// the listing vanished in between; drop the orphan
		if derr := s.Reviews.Delete(ctx, review.ID); derr != nil {
			s.Logger.Error("Failed to remove orphaned review", zap.String("reviewId", review.ID), zap.Error(derr))
		}
		return nil, fmt.Errorf("AddReview: %w", err)
	}
	return review, nil
}

// DeleteReview removes a review written by the caller.
func (s *DefaultListingService) DeleteReview(ctx context.Context, userID, listingID, reviewID string) error {
	review, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("DeleteReview: %w", err)
	}
	if review == nil || review.ListingID != listingID {
		return ErrReviewNotFound
	}
	if userID == "" || review.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.Listings.PullReview(ctx, listingID, reviewID); err != nil {
		return fmt.Errorf("DeleteReview: %w", err)
	}
	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("DeleteReview: %w", err)
	}
	return nil
}
