// Package unlock hosts the auto-unlock engine: after any event that raises a
// novel's accumulated contribution balance, it flips as many paid chapters to
// published as the balance affords, strictly in reading order.
package unlock

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	domainunlock "github.com/inkwell-press/inkwell/internal/domain/unlock"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/retry"
)

// Sink receives invalidation signals for every flipped chapter: cache
// eviction plus client broadcast. Calls are fire-and-forget; a sink failure
// must never fail the unlock itself.
type Sink interface {
	ChapterUnlocked(ctx context.Context, novelSID, chapterSID string)
}

// TransactionRunner runs a function inside one storage transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Unlocked describes one flipped chapter.
type Unlocked struct {
	ChapterID  uint
	ChapterSID string
	Order      int
	Price      int64
	NewMode    content.Mode
}

type Engine struct {
	novelRepo   novel.Repository
	chapterRepo chapter.Repository
	tx          TransactionRunner
	sink        Sink
	policy      retry.Policy
	now         func() time.Time
	logger      logger.Interface
}

func NewEngine(
	novelRepo novel.Repository,
	chapterRepo chapter.Repository,
	tx TransactionRunner,
	sink Sink,
	policy retry.Policy,
	logger logger.Interface,
) *Engine {
	return &Engine{
		novelRepo:   novelRepo,
		chapterRepo: chapterRepo,
		tx:          tx,
		sink:        sink,
		policy:      policy,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// SetClock overrides the engine clock. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// CheckAndUnlock re-derives the unlockable prefix of the novel's paid
// chapters from its current balance and flips it. The whole batch — chapter
// flips plus the balance subtraction — commits in one transaction, so a
// mid-batch failure leaves nothing half-applied and a retry re-derives from
// unchanged state. Re-running with no intervening contribution flips
// nothing: the balance was already spent.
//
// Transient store conflicts (two contributions racing on one novel) are
// retried with backoff; exhaustion surfaces as an error and never as a
// partial success.
func (e *Engine) CheckAndUnlock(ctx context.Context, novelSID string) ([]Unlocked, error) {
	var unlocked []Unlocked

	err := retry.Do(ctx, e.policy, errors.IsTransientStoreError, func(ctx context.Context) error {
		var err error
		unlocked, err = e.runBatch(ctx, novelSID)
		return err
	})
	if err != nil {
		e.logger.Errorw("auto-unlock failed", "novel_sid", novelSID, "error", err)
		return nil, err
	}

	// Signal after commit: the flips are durable, and a crash between
	// signals cannot re-flip anything on retry because the batch is a
	// re-derivation.
	for _, u := range unlocked {
		e.sink.ChapterUnlocked(ctx, novelSID, u.ChapterSID)
	}

	if len(unlocked) > 0 {
		e.logger.Infow("auto-unlock flipped chapters",
			"novel_sid", novelSID, "count", len(unlocked))
	}
	return unlocked, nil
}

func (e *Engine) runBatch(ctx context.Context, novelSID string) ([]Unlocked, error) {
	var unlocked []Unlocked

	err := e.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		unlocked = unlocked[:0]

		nov, err := e.novelRepo.GetBySID(ctx, novelSID)
		if err != nil {
			return fmt.Errorf("failed to load novel: %w", err)
		}
		if nov == nil {
			return errors.NewNotFoundError("novel not found", novelSID)
		}

		paid, err := e.chapterRepo.ListPaidByNovelOrdered(ctx, nov.ID())
		if err != nil {
			return fmt.Errorf("failed to list paid chapters: %w", err)
		}

		planned, spend := domainunlock.Plan(nov.Balance(), paid)
		if len(planned) == 0 {
			return nil
		}

		now := e.now()
		for _, ch := range planned {
			price := ch.Price()
			if err := ch.Unlock(now); err != nil {
				return fmt.Errorf("failed to unlock chapter %s: %w", ch.SID(), err)
			}
			if err := e.chapterRepo.UpdateMode(ctx, ch.ID(), ch.Mode(), ch.Price(), now); err != nil {
				return fmt.Errorf("failed to persist unlock of chapter %s: %w", ch.SID(), err)
			}
			unlocked = append(unlocked, Unlocked{
				ChapterID:  ch.ID(),
				ChapterSID: ch.SID(),
				Order:      ch.Order(),
				Price:      price,
				NewMode:    ch.Mode(),
			})
		}

		if err := nov.SpendBalance(spend); err != nil {
			return fmt.Errorf("failed to spend novel balance: %w", err)
		}
		if err := e.novelRepo.Update(ctx, nov); err != nil {
			return fmt.Errorf("failed to persist novel balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}
