package listing

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"roame/models"
	"roame/services/storage"
)

type memListings struct {
	mu   sync.Mutex
	byID map[string]*models.Listing
}

func newMemListings() *memListings { return &memListings{byID: map[string]*models.Listing{}} }

func (m *memListings) Create(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *memListings) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	cp.Reviews = append([]string(nil), l.Reviews...)
	return &cp, nil
}

func (m *memListings) Find(ctx context.Context, q, category string) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Listing{}
	for _, l := range m.byID {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memListings) FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	return nil, errors.New("not used")
}

func (m *memListings) FindByOwner(ctx context.Context, ownerID string) ([]models.Listing, error) {
	return nil, errors.New("not used")
}

func (m *memListings) UpdateEditable(ctx context.Context, id string, e models.ListingEdit) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	l.OwnerName, l.DOB, l.Contact = e.OwnerName, e.DOB, e.Contact
	l.Category, l.PlaceType = e.Category, e.PlaceType
	l.Guests, l.Bedrooms, l.Beds, l.Bathrooms = e.Guests, e.Bedrooms, e.Beds, e.Bathrooms
	l.Title, l.Description, l.Price = e.Title, e.Description, e.Price
	if e.Image != nil {
		l.Image = *e.Image
	}
	cp := *l
	return &cp, nil
}

func (m *memListings) Delete(ctx context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	delete(m.byID, id)
	return l, nil
}

func (m *memListings) PushReview(ctx context.Context, listingID, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[listingID]
	if !ok {
		return errors.New("listing not found")
	}
	l.Reviews = append(l.Reviews, reviewID)
	return nil
}

func (m *memListings) PullReview(ctx context.Context, listingID, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[listingID]
	if !ok {
		return nil
	}
	kept := l.Reviews[:0]
	for _, r := range l.Reviews {
		if r != reviewID {
			kept = append(kept, r)
		}
	}
	l.Reviews = kept
	return nil
}

type memReviews struct {
	mu   sync.Mutex
	byID map[string]models.Review
}

func newMemReviews() *memReviews { return &memReviews{byID: map[string]models.Review{}} }

func (m *memReviews) Create(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = *r
	return nil
}

func (m *memReviews) GetByID(ctx context.Context, id string) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memReviews) FindByIDs(ctx context.Context, ids []string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	// reverse order so callers cannot rely on it
	for i := len(ids) - 1; i >= 0; i-- {
		if r, ok := m.byID[ids[i]]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviews) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memReviews) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.byID[id]; ok {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) SetHost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.IsHost = true
	}
	return nil
}

type memImages struct {
	uploaded []string
	deleted  []string
}

func (m *memImages) Upload(ctx context.Context, content io.Reader, folder, name string) (*storage.StoredFile, error) {
	if _, err := io.ReadAll(content); err != nil {
		return nil, err
	}
	id := folder + "/" + name
	m.uploaded = append(m.uploaded, id)
	return &storage.StoredFile{URL: "https://img.test/" + id, PublicID: id}, nil
}

func (m *memImages) DeleteFile(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return nil
}
