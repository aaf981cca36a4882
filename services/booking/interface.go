package booking

import (
	"context"

	"roame/models"
)

// BookingFinder is the read side of booking storage used here.
type BookingFinder interface {
	FindByListing(ctx context.Context, listingID string) ([]models.Booking, error)
	FindOverlapping(ctx context.Context, listingID string, stay models.DateRange) ([]models.Booking, error)
}

// BookingStore is everything settlement needs from booking storage.
type BookingStore interface {
	BookingFinder
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error)
	CreateSettled(ctx context.Context, booking *models.Booking) error
}

// ListingFinder looks listings up by id; nil means not found.
type ListingFinder interface {
	GetByID(ctx context.Context, id string) (*models.Listing, error)
}

// ListingLocker serializes settlement per listing. Release must be called
// once the critical section ends.
type ListingLocker interface {
	Acquire(ctx context.Context, listingID string) (release func(), err error)
}

// OrderStateRecorder follows gateway orders through settlement.
type OrderStateRecorder interface {
	Transition(ctx context.Context, orderID string, next models.OrderState) error
	// Amount is what the gateway order charges, in major units; 0 when unknown.
	Amount(ctx context.Context, orderID string) (float64, error)
}

// TaskEnqueuer schedules the background work that follows settlement.
type TaskEnqueuer interface {
	EnqueueInvoice(ctx context.Context, bookingID string) error
	EnqueueRefund(ctx context.Context, paymentID string, amount float64, reason string) error
}

// SettlementService turns a captured payment into a confirmed booking.
type SettlementService interface {
	Settle(ctx context.Context, req SettlementRequest) (*SettlementResult, error)
}
