package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "roame/database/repository/booking"
	"roame/models"

	"github.com/stretchr/testify/mock"
)

// memStore keeps bookings in memory and enforces one booking per
// (listing, night) the way the unique index does in MongoDB.
type memStore struct {
	mu       sync.Mutex
	bookings []models.Booking
	nights   map[string]string
	listings map[string]*models.Listing
	findErr  error
	inserts  int
}

func newMemStore() *memStore {
	return &memStore{nights: map[string]string{}, listings: map[string]*models.Listing{}}
}

func nightKey(listingID string, n time.Time) string {
	return listingID + "/" + n.Format(models.DateLayout)
}

func (m *memStore) FindByListing(ctx context.Context, listingID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.ListingID == listingID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) FindOverlapping(ctx context.Context, listingID string, stay models.DateRange) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.Booking
	for _, b := range m.bookings {
		if b.ListingID == listingID && b.CheckIn.Before(stay.CheckOut) && b.CheckOut.After(stay.CheckIn) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.PaymentID == paymentID {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateSettled(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	nights := booking.Stay().Nights()
	for _, n := range nights {
		if _, taken := m.nights[nightKey(booking.ListingID, n)]; taken {
			return bookingRepo.ErrNightTaken
		}
	}
	for _, n := range nights {
		m.nights[nightKey(booking.ListingID, n)] = booking.ID
	}
	m.bookings = append(m.bookings, *booking)
	m.inserts++
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings[id], nil
}

// noopLocker lets tests exercise the storage-level guard on its own.
type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

type mockTasks struct {
	mock.Mock
}

func (m *mockTasks) EnqueueInvoice(ctx context.Context, bookingID string) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *mockTasks) EnqueueRefund(ctx context.Context, paymentID string, amount float64, reason string) error {
	return m.Called(ctx, paymentID, amount, reason).Error(0)
}

type recordedStates struct {
	mu      sync.Mutex
	states  map[string][]models.OrderState
	amounts map[string]float64
}

func (r *recordedStates) Amount(ctx context.Context, orderID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amounts[orderID], nil
}

func (r *recordedStates) Transition(ctx context.Context, orderID string, next models.OrderState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.states == nil {
		r.states = map[string][]models.OrderState{}
	}
	r.states[orderID] = append(r.states[orderID], next)
	return nil
}

// barrierStore holds the first n GetByPaymentID callers until all of them
// have looked, so they all miss each other's booking.
type barrierStore struct {
	*memStore
	mu      sync.Mutex
	waiting int
	n       int
	release chan struct{}
}

func newBarrierStore(inner *memStore, n int) *barrierStore {
	return &barrierStore{memStore: inner, n: n, release: make(chan struct{})}
}

func (b *barrierStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	got, err := b.memStore.GetByPaymentID(ctx, paymentID)
	b.mu.Lock()
	if b.waiting < b.n {
		b.waiting++
		if b.waiting == b.n {
			close(b.release)
		}
		b.mu.Unlock()
		<-b.release
		return got, err
	}
	b.mu.Unlock()
	return got, err
}
