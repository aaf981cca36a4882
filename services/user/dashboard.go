package user

import (
	"context"
	"fmt"

	"roame/models"
)

// Dashboard gathers the user's trips and, for hosts, their listings and the
// bookings made on them. Bookings whose listing or guest no longer exists
// are left out.
func (s *DefaultUserService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		User:                   u,
		UserBookings:           []BookingView{},
		HostListings:           []models.Listing{},
		BookingsOnHostListings: []BookingView{},
	}

	trips, err := s.Bookings.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}
	tripListings, err := s.listingsByID(ctx, trips)
	if err != nil {
		return nil, err
	}
	for _, b := range trips {
		if l, ok := tripListings[b.ListingID]; ok {
			d.UserBookings = append(d.UserBookings, BookingView{Booking: b, Listing: l})
		}
	}

	if !u.IsHost {
		return d, nil
	}

	d.HostListings, err = s.Listings.FindByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}
	if len(d.HostListings) == 0 {
		return d, nil
	}
	owned := make(map[string]*models.Listing, len(d.HostListings))
	ids := make([]string, 0, len(d.HostListings))
	for i := range d.HostListings {
		owned[d.HostListings[i].ID] = &d.HostListings[i]
		ids = append(ids, d.HostListings[i].ID)
	}

	stays, err := s.Bookings.FindByListings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}
	guests := map[string]*GuestView{}
	for _, b := range stays {
		l, ok := owned[b.ListingID]
		if !ok {
			continue
		}
		guest, seen := guests[b.UserID]
		if !seen {
			g, err := s.Repo.GetByID(ctx, b.UserID)
			if err != nil {
				return nil, fmt.Errorf("Dashboard: %w", err)
			}
			if g != nil {
				guest = &GuestView{ID: g.ID, Username: g.Username, Name: g.Name, Email: g.Email}
			}
			guests[b.UserID] = guest
		}
		if guest == nil {
			continue
		}
		d.BookingsOnHostListings = append(d.BookingsOnHostListings, BookingView{Booking: b, Listing: l, Guest: guest})
	}
	return d, nil
}

func (s *DefaultUserService) listingsByID(ctx context.Context, bookings []models.Booking) (map[string]*models.Listing, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, b := range bookings {
		if !seen[b.ListingID] {
			seen[b.ListingID] = true
			ids = append(ids, b.ListingID)
		}
	}
	listings, err := s.Listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}
	out := make(map[string]*models.Listing, len(listings))
	for i := range listings {
		out[listings[i].ID] = &listings[i]
	}
	return out, nil
}
