package bookingRepo

import (
	"context"
	"errors"

	"roame/models"
)

// ErrNightTaken is returned by CreateSettled when at least one night of the
// stay is already held by another booking.
var ErrNightTaken = errors.New("night already booked for listing")

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// GetByID returns the booking, or nil when none exists.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetByPaymentID returns the booking settled by a payment, or nil.
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error)
	// FindByListing returns every booking of a listing.
	FindByListing(ctx context.Context, listingID string) ([]models.Booking, error)
	// FindOverlapping returns bookings whose stay intersects the range.
	FindOverlapping(ctx context.Context, listingID string, stay models.DateRange) ([]models.Booking, error)
	// FindByUser returns the bookings a guest made, newest first.
	FindByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// FindByListings returns bookings on any of the listings, newest first.
	FindByListings(ctx context.Context, listingIDs []string) ([]models.Booking, error)
	// CreateSettled atomically stores the booking and claims its nights.
	CreateSettled(ctx context.Context, booking *models.Booking) error
	// AttachInvoice sets the invoice fields once. It reports false when the
	// booking already carried an invoice.
	AttachInvoice(ctx context.Context, bookingID, invoiceID, invoiceFile string) (bool, error)
}
