package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"roame/models"
	"roame/services/booking"
	"roame/services/storage"

	"go.uber.org/zap"
)

// GSTRate is included in every booking total.
const GSTRate = 0.15

// ErrBookingNotFound is returned for unknown booking ids.
var ErrBookingNotFound = errors.New("booking not found")

// BookingStore is the booking storage the generator needs.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	AttachInvoice(ctx context.Context, bookingID, invoiceID, invoiceFile string) (bool, error)
}

type ListingFinder interface {
	GetByID(ctx context.Context, id string) (*models.Listing, error)
}

type UserFinder interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Notifier is told once when a booking's invoice is first attached.
type Notifier interface {
	BookingConfirmed(ctx context.Context, user *models.User, b *models.Booking, invoice models.InvoiceRef) error
}

// InvoiceService generates and looks up booking invoices.
type InvoiceService interface {
	EnsureInvoice(ctx context.Context, bookingID string) (*models.InvoiceRef, error)
	Confirmation(ctx context.Context, bookingID, userID string) (*models.BookingConfirmation, *models.InvoiceData, error)
}

// DefaultInvoiceService implements InvoiceService.
type DefaultInvoiceService struct {
	Bookings BookingStore
	Listings ListingFinder
	Users    UserFinder
	Renderer Renderer
	Store    storage.StorageService
	Notifier Notifier // optional
	Folder   string
	Logger   *zap.Logger

	locks *booking.LocalLocker
}

func NewInvoiceService(
	bookings BookingStore,
	listings ListingFinder,
	users UserFinder,
	renderer Renderer,
	store storage.StorageService,
	folder string,
	logger *zap.Logger,
) *DefaultInvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultInvoiceService{
		Bookings: bookings,
		Listings: listings,
		Users:    users,
		Renderer: renderer,
		Store:    store,
		Folder:   folder,
		Logger:   logger,
		locks:    booking.NewLocalLocker(),
	}
}

// InvoiceID derives the invoice number from the booking id.
func InvoiceID(bookingID string) string {
	tail := bookingID
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return "INV-" + strings.ToUpper(tail)
}

// SplitGST splits a GST-inclusive total into a rounded base and the tax.
func SplitGST(total float64) (base, gst float64) {
	base = math.Round(total / (1 + GSTRate))
	return base, total - base
}

// BuildInvoiceData assembles what is printed on the invoice.
func BuildInvoiceData(b *models.Booking, user *models.User, listing *models.Listing) models.InvoiceData {
	base, gst := SplitGST(b.TotalPrice)
	data := models.InvoiceData{
		InvoiceID:    InvoiceID(b.ID),
		BookingID:    b.ID,
		CustomerName: user.DisplayName(),
		Date:         b.CreatedAt.UTC().Format(models.DateLayout),
		From:         b.CheckIn.UTC().Format(models.DateLayout),
		To:           b.CheckOut.UTC().Format(models.DateLayout),
		Nights:       len(b.Stay().Nights()),
		Guests:       b.Guests,
		BaseAmount:   base,
		GST:          gst,
		TotalAmount:  b.TotalPrice,
	}
	if listing != nil {
		data.ListingTitle = listing.Title
	}
	return data
}

// EnsureInvoice returns the booking's invoice, generating it on first call.
// Repeated or concurrent calls yield the same invoice and never a second document.
func (s *DefaultInvoiceService) EnsureInvoice(ctx context.Context, bookingID string) (*models.InvoiceRef, error) {
	release, err := s.locks.Acquire(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.HasInvoice() {
		return &models.InvoiceRef{InvoiceID: b.InvoiceID, URL: b.InvoiceFile}, nil
	}

	user, listing := s.lookupParties(ctx, b)
	data := BuildInvoiceData(b, user, listing)

	doc, err := s.Renderer.Render(data)
	if err != nil {
		return nil, err
	}
	// Same name every time, so a retried upload overwrites instead of duplicating.
	stored, err := s.Store.Upload(ctx, bytes.NewReader(doc), s.Folder, data.InvoiceID+s.Renderer.Ext())
	if err != nil {
		return nil, fmt.Errorf("failed to store invoice %s: %w", data.InvoiceID, err)
	}

	attached, err := s.Bookings.AttachInvoice(ctx, b.ID, data.InvoiceID, stored.URL)
	if err != nil {
		return nil, err
	}
	if !attached {
		// another process attached first; theirs is authoritative
		current, err := s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload booking: %w", err)
		}
		if current == nil || !current.HasInvoice() {
			return nil, fmt.Errorf("invoice for booking %s was not attached", bookingID)
		}
		return &models.InvoiceRef{InvoiceID: current.InvoiceID, URL: current.InvoiceFile}, nil
	}

	ref := models.InvoiceRef{InvoiceID: data.InvoiceID, URL: stored.URL}
	s.Logger.Info("Invoice generated", zap.String("bookingId", b.ID), zap.String("invoiceId", ref.InvoiceID))

	if s.Notifier != nil && user != nil {
		if err := s.Notifier.BookingConfirmed(ctx, user, b, ref); err != nil {
			s.Logger.Warn("Failed to send booking confirmation", zap.String("bookingId", b.ID), zap.Error(err))
		}
	}
	return &ref, nil
}

// lookupParties loads the guest and the listing; either may be missing.
func (s *DefaultInvoiceService) lookupParties(ctx context.Context, b *models.Booking) (*models.User, *models.Listing) {
	var user *models.User
	var listing *models.Listing
	if s.Users != nil {
		u, err := s.Users.GetByID(ctx, b.UserID)
		if err != nil {
			s.Logger.Warn("Invoice without customer details", zap.String("bookingId", b.ID), zap.Error(err))
		}
		user = u
	}
	if s.Listings != nil {
		l, err := s.Listings.GetByID(ctx, b.ListingID)
		if err != nil {
			s.Logger.Warn("Invoice without listing details", zap.String("bookingId", b.ID), zap.Error(err))
		}
		listing = l
	}
	return user, listing
}

// Confirmation returns the settled booking of userID with its invoice.
func (s *DefaultInvoiceService) Confirmation(ctx context.Context, bookingID, userID string) (*models.BookingConfirmation, *models.InvoiceData, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil || b.UserID != userID {
		return nil, nil, ErrBookingNotFound
	}

	ref, err := s.EnsureInvoice(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	user, listing := s.lookupParties(ctx, b)
	data := BuildInvoiceData(b, user, listing)
	data.InvoiceID = ref.InvoiceID

	b.InvoiceID, b.InvoiceFile = ref.InvoiceID, ref.URL
	return &models.BookingConfirmation{Booking: *b, Listing: listing, Invoice: ref}, &data, nil
}
