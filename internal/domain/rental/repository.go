package rental

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rental *Rental) error
	GetByID(ctx context.Context, rentID uint) (*Rental, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Rental, error)

	// FindActive returns the unexpired rental for the (user, volume) pair
	// with the greatest end time, or nil when none exists. Several rentals
	// for the same pair may coexist after renewals; only the longest-running
	// valid one is consulted for access. Unknown IDs yield nil, not an
	// error.
	FindActive(ctx context.Context, userID, volumeID uint, now time.Time) (*Rental, error)
}
