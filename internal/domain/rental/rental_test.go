package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRental(t *testing.T) {
	start := time.Now().UTC()
	end := start.Add(72 * time.Hour)

	r, err := NewRental(1, 2, start, end)
	require.NoError(t, err)

	assert.Contains(t, r.SID(), "rent_")
	assert.Equal(t, uint(1), r.UserID())
	assert.Equal(t, uint(2), r.VolumeID())
	assert.True(t, r.EndTime().After(r.StartTime()))
}

func TestNewRental_InvalidWindow(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewRental(1, 2, now, now)
	assert.ErrorIs(t, err, ErrInvalidWindow, "zero-length window is rejected")

	_, err = NewRental(1, 2, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNewRental_MissingOwnership(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewRental(0, 2, now, now.Add(time.Hour))
	assert.Error(t, err)

	_, err = NewRental(1, 0, now, now.Add(time.Hour))
	assert.Error(t, err)
}

func TestIsValidAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	r, err := NewRental(1, 2, start, end)
	require.NoError(t, err)

	assert.True(t, r.IsValidAt(start))
	assert.True(t, r.IsValidAt(end), "validity holds up to and including endTime")
	assert.False(t, r.IsValidAt(end.Add(time.Nanosecond)), "expiry is now > endTime")
}

func TestTimeRemainingAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)
	r, err := NewRental(1, 2, start, end)
	require.NoError(t, err)

	assert.Equal(t, 4*time.Hour, r.TimeRemainingAt(end.Add(-4*time.Hour)))
	assert.Equal(t, time.Duration(0), r.TimeRemainingAt(end.Add(time.Hour)), "remaining is floored at zero")
}

func TestReconstruct(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := Reconstruct(0, "rent_x", 1, 2, start, start.Add(time.Hour), start)
	assert.Error(t, err)

	_, err = Reconstruct(1, "rent_x", 1, 2, start, start, start)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	r, err := Reconstruct(1, "rent_x", 1, 2, start, start.Add(time.Hour), start)
	require.NoError(t, err)
	assert.Equal(t, uint(1), r.ID())
}
