package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "roame/database/repository/booking"
	"roame/models"
	"roame/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementRequest is a gateway checkout callback plus the stay the guest paid for.
type SettlementRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    string
	ListingID string
	CheckIn   string
	CheckOut  string
	Guests    int
	Amount    float64
}

// Outcome of a settlement attempt.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
)

// SettlementResult identifies the confirmed booking.
type SettlementResult struct {
	BookingID string  `json:"bookingId"`
	Outcome   Outcome `json:"outcome"`
	// Replayed is set when the payment had already been settled earlier.
	Replayed bool `json:"-"`
}

// DefaultSettlementService implements SettlementService.
type DefaultSettlementService struct {
	Bookings  BookingStore
	Listings  ListingFinder
	Conflicts *ConflictChecker
	Locker    ListingLocker
	Orders    OrderStateRecorder // optional
	Tasks     TaskEnqueuer       // optional
	Logger    *zap.Logger

	// Signature secret shared with the gateway. Never log it.
	secret     string
	autoRefund bool
	now        func() time.Time
	newID      func() string
}

// NewSettlementService wires the orchestrator. orders and tasks may be nil.
func NewSettlementService(
	bookings BookingStore,
	listings ListingFinder,
	locker ListingLocker,
	orders OrderStateRecorder,
	tasks TaskEnqueuer,
	secret string,
	autoRefund bool,
	logger *zap.Logger,
) *DefaultSettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSettlementService{
		Bookings:   bookings,
		Listings:   listings,
		Conflicts:  NewConflictChecker(bookings),
		Locker:     locker,
		Orders:     orders,
		Tasks:      tasks,
		Logger:     logger,
		secret:     secret,
		autoRefund: autoRefund,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// validateCallback checks what the signature covers. It is all an
// unauthenticated caller learns about before the signature is checked.
func validateCallback(req SettlementRequest) error {
	switch {
	case strings.TrimSpace(req.OrderID) == "":
		return NewValidationError("razorpay_order_id", "is required")
	case strings.TrimSpace(req.PaymentID) == "":
		return NewValidationError("razorpay_payment_id", "is required")
	case strings.TrimSpace(req.Signature) == "":
		return NewValidationError("razorpay_signature", "is required")
	}
	return nil
}

func validateStay(req SettlementRequest) error {
	switch {
	case req.UserID == "":
		return NewValidationError("user", "is required")
	case strings.TrimSpace(req.ListingID) == "":
		return NewValidationError("listingId", "is required")
	case req.CheckIn == "" || req.CheckOut == "":
		return NewValidationError("dates", "check-in and check-out are required")
	case req.Guests < 1:
		return NewValidationError("guests", "must be at least 1")
	}
	return nil
}

// Settle verifies the payment, guards the listing against overlapping stays
// and persists the booking. A payment that was already settled returns the
// existing booking instead of creating another.
func (s *DefaultSettlementService) Settle(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	log := s.Logger.With(
		zap.String("orderId", req.OrderID),
		zap.String("paymentId", req.PaymentID),
		zap.String("listingId", req.ListingID),
	)

	if err := validateCallback(req); err != nil {
		return nil, err
	}

	s.transition(ctx, req.OrderID, models.OrderVerifying)

	if !payment.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.secret) {
		log.Warn("Rejected payment with invalid signature")
		s.transition(ctx, req.OrderID, models.OrderRejectedSignature)
		return nil, ErrSignatureMismatch
	}

	if err := validateStay(req); err != nil {
		return nil, err
	}
	req.Amount = s.chargedAmount(ctx, req, log)
	if req.Amount <= 0 {
		return nil, NewValidationError("amount", "must be positive")
	}

	stay, err := models.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, NewValidationError("dates", err.Error())
	}

	if existing, err := s.replay(ctx, req); err != nil || existing != nil {
		return existing, err
	}

	listing, err := s.Listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %s: %w", req.ListingID, err)
	}
	if listing == nil {
		return nil, NewValidationError("listingId", "listing not found")
	}

	release, err := s.Locker.Acquire(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock listing %s: %w", req.ListingID, err)
	}
	defer release()

	// A concurrent settlement of this same payment may have finished while
	// this one waited for the lock.
	if existing, err := s.replay(ctx, req); err != nil || existing != nil {
		return existing, err
	}

	conflict, err := s.Conflicts.HasConflict(ctx, req.ListingID, stay)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, s.rejectConflict(ctx, req, log)
	}

	booking := &models.Booking{
		ID:         s.newID(),
		ListingID:  req.ListingID,
		UserID:     req.UserID,
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		Guests:     req.Guests,
		TotalPrice: req.Amount,
		OrderID:    req.OrderID,
		PaymentID:  req.PaymentID,
		CreatedAt:  s.now(),
	}
	if err := s.Bookings.CreateSettled(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrNightTaken) {
			if existing, rerr := s.replay(ctx, req); rerr == nil && existing != nil {
				return existing, nil
			}
			return nil, s.rejectConflict(ctx, req, log)
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	log.Info("Booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("stay", stay.String()),
		zap.String("userId", req.UserID))
	s.transition(ctx, req.OrderID, models.OrderConfirmed)

	if s.Tasks != nil {
		if err := s.Tasks.EnqueueInvoice(ctx, booking.ID); err != nil {
			// payment-success generates the invoice on demand as well
			log.Error("Failed to enqueue invoice generation", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	return &SettlementResult{BookingID: booking.ID, Outcome: OutcomeConfirmed}, nil
}

// chargedAmount prefers the amount of the gateway order over the one the
// client sent. Orders the tracker never saw fall back to the client amount.
func (s *DefaultSettlementService) chargedAmount(ctx context.Context, req SettlementRequest, log *zap.Logger) float64 {
	if s.Orders == nil {
		return req.Amount
	}
	amount, err := s.Orders.Amount(ctx, req.OrderID)
	if err != nil {
		log.Warn("Order amount not available, using client amount", zap.Error(err))
		return req.Amount
	}
	if amount <= 0 {
		return req.Amount
	}
	if req.Amount != amount {
		log.Warn("Client amount differs from order amount",
			zap.Float64("clientAmount", req.Amount),
			zap.Float64("orderAmount", amount))
	}
	return amount
}

// replay returns the booking already created for this payment, if any. A
// payment id belonging to another user or stay is never handed back.
func (s *DefaultSettlementService) replay(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	existing, err := s.Bookings.GetByPaymentID(ctx, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment %s: %w", req.PaymentID, err)
	}
	if existing == nil {
		return nil, nil
	}
	if existing.UserID != req.UserID || existing.ListingID != req.ListingID || existing.OrderID != req.OrderID {
		return nil, NewValidationError("razorpay_payment_id", "payment already used for another booking")
	}
	return &SettlementResult{BookingID: existing.ID, Outcome: OutcomeConfirmed, Replayed: true}, nil
}

// rejectConflict records the rejection and, when enabled, queues a refund
// because the gateway has already captured the money.
func (s *DefaultSettlementService) rejectConflict(ctx context.Context, req SettlementRequest, log *zap.Logger) error {
	log.Warn("Captured payment hit a booking conflict",
		zap.String("checkIn", req.CheckIn),
		zap.String("checkOut", req.CheckOut),
		zap.Bool("autoRefund", s.autoRefund))
	s.transition(ctx, req.OrderID, models.OrderRejectedConflict)

	// Never refund a payment that backs a stored booking.
	if held, err := s.Bookings.GetByPaymentID(ctx, req.PaymentID); err != nil || held != nil {
		if err != nil {
			log.Error("Could not confirm payment is unused, refund skipped", zap.Error(err))
		} else {
			log.Error("Payment already backs a booking, refund skipped", zap.String("bookingId", held.ID))
		}
		return ErrBookingConflict
	}

	if s.autoRefund && s.Tasks != nil {
		if err := s.Tasks.EnqueueRefund(ctx, req.PaymentID, req.Amount, "booking conflict"); err != nil {
			log.Error("Failed to enqueue refund, manual reconciliation needed", zap.Error(err))
		}
	} else {
		log.Error("Captured payment not refunded, manual reconciliation needed", zap.Float64("amount", req.Amount))
	}
	return ErrBookingConflict
}

func (s *DefaultSettlementService) transition(ctx context.Context, orderID string, next models.OrderState) {
	if s.Orders == nil {
		return
	}
	if err := s.Orders.Transition(ctx, orderID, next); err != nil {
		s.Logger.Warn("Order state not recorded",
			zap.String("orderId", orderID),
			zap.String("state", string(next)),
			zap.Error(err))
	}
}
