// Package rental models time-bounded access grants. A rental lets one user
// read every chapter of one paid volume until its end time passes. Rentals
// are immutable once created: renewing inserts a new row, expiry is derived
// from the clock and never written back.
package rental

import (
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/shared/id"
)

type Rental struct {
	rentID    uint
	sid       string
	userID    uint
	volumeID  uint
	startTime time.Time
	endTime   time.Time
	createdAt time.Time
}

// NewRental creates a rental. The caller's payment workflow decides the
// duration; the only rule enforced here is that endTime is strictly after
// startTime.
func NewRental(userID, volumeID uint, startTime, endTime time.Time) (*Rental, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if volumeID == 0 {
		return nil, fmt.Errorf("volume ID is required")
	}
	if !endTime.After(startTime) {
		return nil, ErrInvalidWindow
	}

	sid, err := id.GenerateWithPrefix(id.PrefixRental, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rental SID: %w", err)
	}

	return &Rental{
		sid:       sid,
		userID:    userID,
		volumeID:  volumeID,
		startTime: startTime.UTC(),
		endTime:   endTime.UTC(),
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a rental from persistence.
func Reconstruct(rentID uint, sid string, userID, volumeID uint, startTime, endTime, createdAt time.Time) (*Rental, error) {
	if rentID == 0 {
		return nil, fmt.Errorf("rental ID cannot be zero")
	}
	if userID == 0 || volumeID == 0 {
		return nil, fmt.Errorf("rental ownership is incomplete")
	}
	if !endTime.After(startTime) {
		return nil, ErrInvalidWindow
	}

	return &Rental{
		rentID:    rentID,
		sid:       sid,
		userID:    userID,
		volumeID:  volumeID,
		startTime: startTime,
		endTime:   endTime,
		createdAt: createdAt,
	}, nil
}

func (r *Rental) ID() uint             { return r.rentID }
func (r *Rental) SID() string          { return r.sid }
func (r *Rental) UserID() uint         { return r.userID }
func (r *Rental) VolumeID() uint       { return r.volumeID }
func (r *Rental) StartTime() time.Time { return r.startTime }
func (r *Rental) EndTime() time.Time   { return r.endTime }
func (r *Rental) CreatedAt() time.Time { return r.createdAt }

func (r *Rental) SetID(rentID uint) error {
	if r.rentID != 0 {
		return fmt.Errorf("rental ID already set")
	}
	if rentID == 0 {
		return fmt.Errorf("rental ID cannot be zero")
	}
	r.rentID = rentID
	return nil
}

// IsValidAt reports whether the rental grants access at the given instant.
// Validity is derived, never stored: a rental expires the moment now passes
// endTime.
func (r *Rental) IsValidAt(now time.Time) bool {
	return !now.After(r.endTime)
}

// TimeRemainingAt returns how long the rental still runs, floored at zero.
func (r *Rental) TimeRemainingAt(now time.Time) time.Duration {
	remaining := r.endTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
