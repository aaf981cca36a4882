package booking

import (
	"context"
	"errors"
	"testing"

	"roame/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	existing := stay("2024-06-01", "2024-06-05")

	cases := []struct {
		name     string
		proposed models.DateRange
		want     bool
	}{
		{"starts inside", stay("2024-06-04", "2024-06-06"), true},
		{"adjacent after", stay("2024-06-05", "2024-06-07"), false},
		{"adjacent before", stay("2024-05-28", "2024-06-01"), false},
		{"contains", stay("2024-05-30", "2024-06-10"), true},
		{"inside", stay("2024-06-02", "2024-06-03"), true},
		{"identical", stay("2024-06-01", "2024-06-05"), true},
		{"far away", stay("2024-07-01", "2024-07-05"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(existing, tc.proposed))
			assert.Equal(t, tc.want, Overlaps(tc.proposed, existing), "overlap must be symmetric")
		})
	}
}

func TestConflictChecker(t *testing.T) {
	store := newMemStore()
	store.bookings = []models.Booking{bookingFor("L1", "2024-06-01", "2024-06-05")}
	checker := NewConflictChecker(store)
	ctx := context.Background()

	conflict, err := checker.HasConflict(ctx, "L1", stay("2024-06-04", "2024-06-06"))
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = checker.HasConflict(ctx, "L1", stay("2024-06-05", "2024-06-07"))
	require.NoError(t, err)
	assert.False(t, conflict)

	conflict, err = checker.HasConflict(ctx, "L2", stay("2024-06-02", "2024-06-03"))
	require.NoError(t, err)
	assert.False(t, conflict, "other listings never conflict")
}

func TestConflictChecker_StorageError(t *testing.T) {
	store := newMemStore()
	store.findErr = errors.New("connection reset")

	_, err := NewConflictChecker(store).HasConflict(context.Background(), "L1", stay("2024-06-01", "2024-06-02"))
	assert.Error(t, err)
}
