package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"roame/models"
)

// UnavailableDates returns every night covered by the bookings, as sorted,
// de-duplicated UTC midnights. Check-out days stay free so a new guest can
// arrive the day another leaves.
func UnavailableDates(bookings []models.Booking) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, b := range bookings {
		for _, night := range b.Stay().Nights() {
			if _, ok := seen[night]; ok {
				continue
			}
			seen[night] = struct{}{}
			dates = append(dates, night)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// FormatDates renders dates as YYYY-MM-DD.
func FormatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.UTC().Format(models.DateLayout))
	}
	return out
}

// BookingPage is what a guest needs to pick dates for a listing.
type BookingPage struct {
	Listing       *models.Listing `json:"listing"`
	RazorpayKey   string          `json:"razorpayKey"`
	DisabledDates []string        `json:"disabledDates"`
}

// AvailabilityService builds the booking page for a listing.
type AvailabilityService struct {
	Bookings BookingFinder
	Listings ListingFinder
	// Public gateway key id, safe to hand to browsers.
	GatewayKeyID string
}

// BookingPage returns nil when the listing does not exist.
func (s *AvailabilityService) BookingPage(ctx context.Context, listingID string) (*BookingPage, error) {
	listing, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing == nil {
		return nil, nil
	}
	bookings, err := s.Bookings.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return &BookingPage{
		Listing:       listing,
		RazorpayKey:   s.GatewayKeyID,
		DisabledDates: FormatDates(UnavailableDates(bookings)),
	}, nil
}
