// Package topup implements the coin top-up workflow: a reader initiates a
// request, the payment provider settles it through a webhook, and completion
// credits the reader's coin balance.
package topup

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/topup"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// TransactionRunner runs a function inside one storage transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TopUpDTO struct {
	SID         string       `json:"sid"`
	Amount      int64        `json:"amount"`
	Status      topup.Status `json:"status"`
	ProviderRef string       `json:"provider_ref"`
	CreatedAt   time.Time    `json:"created_at"`
	SettledAt   *time.Time   `json:"settled_at,omitempty"`
}

type CreateTopUpInput struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

type Service struct {
	topUpRepo topup.Repository
	userRepo  user.Repository
	tx        TransactionRunner
	now       func() time.Time
	logger    logger.Interface
}

func NewService(topUpRepo topup.Repository, userRepo user.Repository, tx TransactionRunner, logger logger.Interface) *Service {
	return &Service{
		topUpRepo: topUpRepo,
		userRepo:  userRepo,
		tx:        tx,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateTopUp opens a pending request. The returned provider reference is
// what the payment provider echoes back in its settlement webhook.
func (s *Service) CreateTopUp(ctx context.Context, userID uint, input CreateTopUpInput) (*TopUpDTO, error) {
	top, err := topup.NewTopUp(userID, input.Amount)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.topUpRepo.Create(ctx, top); err != nil {
		return nil, fmt.Errorf("failed to create top-up: %w", err)
	}

	s.logger.Infow("top-up created",
		"topup_sid", top.SID(), "user_id", userID, "amount", input.Amount)
	return toDTO(top), nil
}

// Settle processes a provider webhook. Settlement is idempotent on the
// provider reference: a replayed webhook finds the request already settled
// and returns its current state without crediting coins again. Unknown
// references yield a not-found error so the provider retries against the
// right environment.
func (s *Service) Settle(ctx context.Context, providerRef string, approved bool) (*TopUpDTO, error) {
	var result *TopUpDTO

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		top, err := s.topUpRepo.GetByProviderRef(ctx, providerRef)
		if err != nil {
			return fmt.Errorf("failed to load top-up: %w", err)
		}
		if top == nil {
			return errors.NewNotFoundError("top-up not found", providerRef)
		}

		if top.Status() != topup.StatusPending {
			result = toDTO(top)
			return nil
		}

		now := s.now()
		if !approved {
			if err := top.Decline(now); err != nil {
				return err
			}
			if err := s.topUpRepo.Update(ctx, top); err != nil {
				return fmt.Errorf("failed to persist decline: %w", err)
			}
			result = toDTO(top)
			return nil
		}

		if err := top.Complete(now); err != nil {
			return err
		}

		usr, err := s.userRepo.GetByID(ctx, top.UserID())
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if usr == nil {
			return errors.NewNotFoundError("user not found")
		}
		if err := usr.Credit(top.Amount()); err != nil {
			return err
		}

		if err := s.topUpRepo.Update(ctx, top); err != nil {
			return fmt.Errorf("failed to persist completion: %w", err)
		}
		if err := s.userRepo.Update(ctx, usr); err != nil {
			return fmt.Errorf("failed to persist coin credit: %w", err)
		}
		result = toDTO(top)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("top-up settled",
		"topup_sid", result.SID, "status", result.Status)
	return result, nil
}

// GetTopUp returns one request by SID.
func (s *Service) GetTopUp(ctx context.Context, sid string) (*TopUpDTO, error) {
	top, err := s.topUpRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load top-up: %w", err)
	}
	if top == nil {
		return nil, errors.NewNotFoundError("top-up not found", sid)
	}
	return toDTO(top), nil
}

// ListTopUps returns the user's top-up history.
func (s *Service) ListTopUps(ctx context.Context, userID uint) ([]*TopUpDTO, error) {
	tops, err := s.topUpRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list top-ups: %w", err)
	}

	out := make([]*TopUpDTO, 0, len(tops))
	for _, top := range tops {
		out = append(out, toDTO(top))
	}
	return out, nil
}

func toDTO(top *topup.TopUp) *TopUpDTO {
	return &TopUpDTO{
		SID:         top.SID(),
		Amount:      top.Amount(),
		Status:      top.Status(),
		ProviderRef: top.ProviderRef(),
		CreatedAt:   top.CreatedAt(),
		SettledAt:   top.SettledAt(),
	}
}
