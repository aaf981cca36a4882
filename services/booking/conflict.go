package booking

import (
	"context"
	"fmt"

	"roame/models"
)

// Overlaps applies the half-open rule: [a1,a2) and [b1,b2) overlap iff
// a1 < b2 and b1 < a2. Adjacent stays do not overlap.
func Overlaps(a, b models.DateRange) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// ConflictChecker answers whether a stay collides with stored bookings.
type ConflictChecker struct {
	Bookings BookingFinder
}

func NewConflictChecker(bookings BookingFinder) *ConflictChecker {
	return &ConflictChecker{Bookings: bookings}
}

// HasConflict narrows candidates in storage and confirms each with Overlaps.
func (c *ConflictChecker) HasConflict(ctx context.Context, listingID string, stay models.DateRange) (bool, error) {
	existing, err := c.Bookings.FindOverlapping(ctx, listingID, stay)
	if err != nil {
		return false, fmt.Errorf("conflict check failed: %w", err)
	}
	for _, b := range existing {
		if b.ListingID != "" && b.ListingID != listingID {
			continue
		}
		if Overlaps(b.Stay(), stay) {
			return true, nil
		}
	}
	return false, nil
}
