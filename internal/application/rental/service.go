// Package rental implements the rent-volume workflow: debit the reader's
// coins and open a time-bounded access window over one paid volume.
package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// TransactionRunner runs a function inside one storage transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RentalDTO is the API shape of a rental.
type RentalDTO struct {
	SID           string    `json:"sid"`
	VolumeSID     string    `json:"volume_sid"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	TimeRemaining string    `json:"time_remaining"`
}

type Service struct {
	rentalRepo rental.Repository
	volumeRepo volume.Repository
	userRepo   user.Repository
	tx         TransactionRunner
	duration   time.Duration
	now        func() time.Time
	logger     logger.Interface
}

func NewService(
	rentalRepo rental.Repository,
	volumeRepo volume.Repository,
	userRepo user.Repository,
	tx TransactionRunner,
	duration time.Duration,
	logger logger.Interface,
) *Service {
	return &Service{
		rentalRepo: rentalRepo,
		volumeRepo: volumeRepo,
		userRepo:   userRepo,
		tx:         tx,
		duration:   duration,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RentVolume charges the user the volume's rent price and opens a rental
// window of the configured duration starting now. Renting a volume the user
// already holds a rental on is allowed and inserts a fresh window; access
// checks always follow the rental with the greatest end time, so renewing
// mid-window never shortens access.
func (s *Service) RentVolume(ctx context.Context, userID uint, volumeSID string) (*RentalDTO, error) {
	vol, err := s.volumeRepo.GetBySID(ctx, volumeSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	if vol == nil {
		return nil, errors.NewNotFoundError("volume not found", volumeSID)
	}
	if !vol.IsRentable() {
		return nil, errors.NewValidationError("volume is not rentable")
	}

	now := s.now()
	var rent *rental.Rental

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		usr, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if usr == nil {
			return errors.NewNotFoundError("user not found")
		}

		if err := usr.Debit(vol.RentPrice()); err != nil {
			return err
		}
		if err := s.userRepo.Update(ctx, usr); err != nil {
			return fmt.Errorf("failed to persist coin debit: %w", err)
		}

		rent, err = rental.NewRental(usr.ID(), vol.ID(), now, now.Add(s.duration))
		if err != nil {
			return err
		}
		if err := s.rentalRepo.Create(ctx, rent); err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("volume rented",
		"user_id", userID, "volume_sid", volumeSID, "end_time", rent.EndTime())

	return s.toDTO(rent, volumeSID, now), nil
}

// GetActiveRental returns the user's currently valid rental on the volume, or
// a not-found error when none is running.
func (s *Service) GetActiveRental(ctx context.Context, userID uint, volumeSID string) (*RentalDTO, error) {
	vol, err := s.volumeRepo.GetBySID(ctx, volumeSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	if vol == nil {
		return nil, errors.NewNotFoundError("volume not found", volumeSID)
	}

	now := s.now()
	rent, err := s.rentalRepo.FindActive(ctx, userID, vol.ID(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rental: %w", err)
	}
	if rent == nil {
		return nil, errors.NewNotFoundError("no active rental for this volume")
	}
	return s.toDTO(rent, volumeSID, now), nil
}

// ListRentals returns every rental the user ever held, newest first, including
// expired ones. Expiry is derived from the clock at read time.
func (s *Service) ListRentals(ctx context.Context, userID uint) ([]*RentalDTO, error) {
	rentals, err := s.rentalRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}

	now := s.now()
	out := make([]*RentalDTO, 0, len(rentals))
	for _, rent := range rentals {
		vol, err := s.volumeRepo.GetByID(ctx, rent.VolumeID())
		if err != nil {
			return nil, fmt.Errorf("failed to load volume: %w", err)
		}
		volumeSID := ""
		if vol != nil {
			volumeSID = vol.SID()
		}
		out = append(out, s.toDTO(rent, volumeSID, now))
	}
	return out, nil
}

func (s *Service) toDTO(rent *rental.Rental, volumeSID string, now time.Time) *RentalDTO {
	return &RentalDTO{
		SID:           rent.SID(),
		VolumeSID:     volumeSID,
		StartTime:     rent.StartTime(),
		EndTime:       rent.EndTime(),
		TimeRemaining: rent.TimeRemainingAt(now).String(),
	}
}
