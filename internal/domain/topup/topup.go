// Package topup models coin top-up requests. A request is created when a
// reader initiates a payment and settles when the payment provider confirms
// or declines it; completion credits the user's coin balance.
package topup

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-press/inkwell/internal/shared/id"
)

// Status of a top-up request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusDeclined:  true,
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

type TopUp struct {
	topID       uint
	sid         string
	userID      uint
	amount      int64
	status      Status
	providerRef string
	createdAt   time.Time
	settledAt   *time.Time
}

// NewTopUp creates a pending request. providerRef is the idempotency key
// handed to the payment provider so a replayed webhook settles the same
// request instead of minting coins twice.
func NewTopUp(userID uint, amount int64) (*TopUp, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if amount < 1 {
		return nil, fmt.Errorf("top-up amount must be at least 1")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixTopUp, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate top-up SID: %w", err)
	}

	return &TopUp{
		sid:         sid,
		userID:      userID,
		amount:      amount,
		status:      StatusPending,
		providerRef: uuid.NewString(),
		createdAt:   time.Now().UTC(),
	}, nil
}

func Reconstruct(topID uint, sid string, userID uint, amount int64, status Status, providerRef string, createdAt time.Time, settledAt *time.Time) (*TopUp, error) {
	if topID == 0 {
		return nil, fmt.Errorf("top-up ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid top-up status: %s", status)
	}
	if amount < 1 {
		return nil, fmt.Errorf("top-up amount must be at least 1")
	}

	return &TopUp{
		topID:       topID,
		sid:         sid,
		userID:      userID,
		amount:      amount,
		status:      status,
		providerRef: providerRef,
		createdAt:   createdAt,
		settledAt:   settledAt,
	}, nil
}

func (t *TopUp) ID() uint              { return t.topID }
func (t *TopUp) SID() string           { return t.sid }
func (t *TopUp) UserID() uint          { return t.userID }
func (t *TopUp) Amount() int64         { return t.amount }
func (t *TopUp) Status() Status        { return t.status }
func (t *TopUp) ProviderRef() string   { return t.providerRef }
func (t *TopUp) CreatedAt() time.Time  { return t.createdAt }
func (t *TopUp) SettledAt() *time.Time { return t.settledAt }

func (t *TopUp) SetID(topID uint) error {
	if t.topID != 0 {
		return fmt.Errorf("top-up ID already set")
	}
	if topID == 0 {
		return fmt.Errorf("top-up ID cannot be zero")
	}
	t.topID = topID
	return nil
}

// Complete settles a pending request successfully.
func (t *TopUp) Complete(now time.Time) error {
	if t.status != StatusPending {
		return ErrAlreadySettled
	}
	t.status = StatusCompleted
	settled := now.UTC()
	t.settledAt = &settled
	return nil
}

// Decline settles a pending request unsuccessfully.
func (t *TopUp) Decline(now time.Time) error {
	if t.status != StatusPending {
		return ErrAlreadySettled
	}
	t.status = StatusDeclined
	settled := now.UTC()
	t.settledAt = &settled
	return nil
}
