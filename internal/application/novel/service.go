// Package novel implements novel management and the contribution workflow
// that feeds the auto-unlock engine.
package novel

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/application/unlock"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// SlugCache maps a novel's URL slug to its SID. Slugs are immutable after
// creation, so entries only leave the cache by TTL or novel deletion.
type SlugCache interface {
	Get(slug string) (string, bool)
	Add(slug, sid string)
	Remove(slug string)
}

// UnlockTrigger re-runs the auto-unlock check for a novel. Satisfied by the
// unlock engine.
type UnlockTrigger interface {
	CheckAndUnlock(ctx context.Context, novelSID string) ([]unlock.Unlocked, error)
}

// TransactionRunner runs a function inside one storage transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type NovelDTO struct {
	SID         string       `json:"sid"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Balance     int64        `json:"balance"`
	Roster      novel.Roster `json:"roster,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateNovelInput struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Slug        string `json:"slug" binding:"required,slug,max=255"`
	Description string `json:"description" binding:"max=4096"`
}

type UpdateNovelInput struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=4096"`
}

type ContributeInput struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// ContributeResult reports what a contribution changed.
type ContributeResult struct {
	Novel          *NovelDTO         `json:"novel"`
	UnlockedCount  int               `json:"unlocked_count"`
	UnlockedOrders []int             `json:"unlocked_orders,omitempty"`
	Unlocked       []unlock.Unlocked `json:"-"`
}

type Service struct {
	novelRepo novel.Repository
	userRepo  user.Repository
	slugCache SlugCache
	unlocker  UnlockTrigger
	tx        TransactionRunner
	logger    logger.Interface
}

func NewService(
	novelRepo novel.Repository,
	userRepo user.Repository,
	slugCache SlugCache,
	unlocker UnlockTrigger,
	tx TransactionRunner,
	logger logger.Interface,
) *Service {
	return &Service{
		novelRepo: novelRepo,
		userRepo:  userRepo,
		slugCache: slugCache,
		unlocker:  unlocker,
		tx:        tx,
		logger:    logger,
	}
}

// CreateNovel registers a novel owned by the creator. The slug must be unique;
// the storage layer's unique index is the source of truth for that.
func (s *Service) CreateNovel(ctx context.Context, creatorID uint, input CreateNovelInput) (*NovelDTO, error) {
	nov, err := novel.NewNovel(input.Title, input.Slug, creatorID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if input.Description != "" {
		nov.SetDescription(input.Description)
	}

	if err := s.novelRepo.Create(ctx, nov); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("slug already in use", input.Slug)
		}
		return nil, fmt.Errorf("failed to create novel: %w", err)
	}

	s.slugCache.Add(nov.Slug(), nov.SID())
	s.logger.Infow("novel created", "novel_sid", nov.SID(), "slug", nov.Slug())
	return toDTO(nov), nil
}

// GetNovel returns a novel by SID.
func (s *Service) GetNovel(ctx context.Context, sid string) (*NovelDTO, error) {
	nov, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	return toDTO(nov), nil
}

// GetNovelBySlug resolves the public reader URL. The slug-to-SID mapping is
// served from an in-process cache; the novel row itself is always read fresh
// so balance and roster stay current.
func (s *Service) GetNovelBySlug(ctx context.Context, slug string) (*NovelDTO, error) {
	if sid, ok := s.slugCache.Get(slug); ok {
		nov, err := s.novelRepo.GetBySID(ctx, sid)
		if err != nil {
			return nil, fmt.Errorf("failed to load novel: %w", err)
		}
		if nov != nil {
			return toDTO(nov), nil
		}
		// Stale entry: the novel is gone.
		s.slugCache.Remove(slug)
	}

	nov, err := s.novelRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load novel: %w", err)
	}
	if nov == nil {
		return nil, errors.NewNotFoundError("novel not found", slug)
	}
	s.slugCache.Add(nov.Slug(), nov.SID())
	return toDTO(nov), nil
}

// ListNovels returns one page of novels with the total count.
func (s *Service) ListNovels(ctx context.Context, page, pageSize int) ([]*NovelDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	novels, total, err := s.novelRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list novels: %w", err)
	}

	out := make([]*NovelDTO, 0, len(novels))
	for _, nov := range novels {
		out = append(out, toDTO(nov))
	}
	return out, total, nil
}

// UpdateNovel applies a partial update.
func (s *Service) UpdateNovel(ctx context.Context, sid string, input UpdateNovelInput) (*NovelDTO, error) {
	nov, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := nov.SetTitle(*input.Title); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if input.Description != nil {
		nov.SetDescription(*input.Description)
	}

	if err := s.novelRepo.Update(ctx, nov); err != nil {
		return nil, fmt.Errorf("failed to update novel: %w", err)
	}
	return toDTO(nov), nil
}

// SetRoster replaces the novel's staff roster. Entries may reference users by
// numeric ID or by username; both forms match during access checks.
func (s *Service) SetRoster(ctx context.Context, sid string, roster novel.Roster) (*NovelDTO, error) {
	nov, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	nov.SetRoster(roster)
	if err := s.novelRepo.Update(ctx, nov); err != nil {
		return nil, fmt.Errorf("failed to update roster: %w", err)
	}

	s.logger.Infow("roster updated", "novel_sid", sid, "size", len(roster))
	return toDTO(nov), nil
}

// DeleteNovel removes the novel and evicts its slug mapping.
func (s *Service) DeleteNovel(ctx context.Context, sid string) error {
	nov, err := s.loadBySID(ctx, sid)
	if err != nil {
		return err
	}

	if err := s.novelRepo.Delete(ctx, nov.ID()); err != nil {
		return fmt.Errorf("failed to delete novel: %w", err)
	}
	s.slugCache.Remove(nov.Slug())
	s.logger.Infow("novel deleted", "novel_sid", sid)
	return nil
}

// Contribute moves coins from the reader to the novel's accumulated balance,
// then re-runs the unlock check. The debit and the balance credit commit
// together; the unlock batch runs after, in its own transaction, so a failed
// unlock never swallows the contribution — the next one picks it up.
func (s *Service) Contribute(ctx context.Context, userID uint, sid string, input ContributeInput) (*ContributeResult, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		usr, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if usr == nil {
			return errors.NewNotFoundError("user not found")
		}

		nov, err := s.novelRepo.GetBySID(ctx, sid)
		if err != nil {
			return fmt.Errorf("failed to load novel: %w", err)
		}
		if nov == nil {
			return errors.NewNotFoundError("novel not found", sid)
		}

		if err := usr.Debit(input.Amount); err != nil {
			return err
		}
		if err := nov.Contribute(input.Amount); err != nil {
			return errors.NewValidationError(err.Error())
		}

		if err := s.userRepo.Update(ctx, usr); err != nil {
			return fmt.Errorf("failed to persist coin debit: %w", err)
		}
		if err := s.novelRepo.Update(ctx, nov); err != nil {
			return fmt.Errorf("failed to persist contribution: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	unlocked, err := s.unlocker.CheckAndUnlock(ctx, sid)
	if err != nil {
		// The contribution is already committed; report it and let the next
		// contribution (or a manual re-check) retry the unlock.
		s.logger.Errorw("unlock check failed after contribution",
			"novel_sid", sid, "error", err)
		unlocked = nil
	}

	nov, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	result := &ContributeResult{
		Novel:         toDTO(nov),
		UnlockedCount: len(unlocked),
		Unlocked:      unlocked,
	}
	for _, u := range unlocked {
		result.UnlockedOrders = append(result.UnlockedOrders, u.Order)
	}
	return result, nil
}

func (s *Service) loadBySID(ctx context.Context, sid string) (*novel.Novel, error) {
	nov, err := s.novelRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load novel: %w", err)
	}
	if nov == nil {
		return nil, errors.NewNotFoundError("novel not found", sid)
	}
	return nov, nil
}

func toDTO(nov *novel.Novel) *NovelDTO {
	return &NovelDTO{
		SID:         nov.SID(),
		Title:       nov.Title(),
		Slug:        nov.Slug(),
		Description: nov.Description(),
		Balance:     nov.Balance(),
		Roster:      nov.Roster(),
		CreatedAt:   nov.CreatedAt(),
		UpdatedAt:   nov.UpdatedAt(),
	}
}
