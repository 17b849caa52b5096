// Package access orchestrates chapter read authorization: it assembles the
// snapshots the pure evaluator needs and maps the decision onto a response
// that never leaks a locked chapter's body.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/access"
	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// ChapterView is what a reader gets back for one chapter. Body is populated
// only when the decision grants access.
type ChapterView struct {
	ChapterSID    string             `json:"chapter_sid"`
	Title         string             `json:"title"`
	Order         int                `json:"order"`
	Mode          content.Mode       `json:"mode"`
	EffectiveMode content.Mode       `json:"effective_mode"`
	Price         int64              `json:"price,omitempty"`
	Body          string             `json:"body,omitempty"`
	Granted       bool               `json:"granted"`
	Reason        access.Reason      `json:"reason"`
	Message       string             `json:"message,omitempty"`
	Rental        *access.RentalInfo `json:"rental,omitempty"`
}

// BodyCache keeps rendered chapter bodies close to the reader so granted
// reads skip the body column on the primary store. Misses are silent; cache
// failures must degrade to a store read, never to a denial.
type BodyCache interface {
	GetBody(ctx context.Context, chapterSID string) (string, bool)
	SetBody(ctx context.Context, chapterSID, body string)
}

type Service struct {
	chapterRepo chapter.Repository
	volumeRepo  volume.Repository
	novelRepo   novel.Repository
	userRepo    user.Repository
	rentalRepo  rental.Repository
	bodies      BodyCache
	now         func() time.Time
	logger      logger.Interface
}

func NewService(
	chapterRepo chapter.Repository,
	volumeRepo volume.Repository,
	novelRepo novel.Repository,
	userRepo user.Repository,
	rentalRepo rental.Repository,
	bodies BodyCache,
	logger logger.Interface,
) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		volumeRepo:  volumeRepo,
		novelRepo:   novelRepo,
		userRepo:    userRepo,
		rentalRepo:  rentalRepo,
		bodies:      bodies,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// EvaluateChapter loads the chapter with its owning volume and novel, decides
// whether the requesting user (0 for anonymous) may read it, and returns the
// chapter with the body stripped on denial. A rental is looked up only when a
// paid gate is actually reachable for this request.
func (s *Service) EvaluateChapter(ctx context.Context, chapterSID string, userID uint) (*ChapterView, error) {
	ch, err := s.chapterRepo.GetBySID(ctx, chapterSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapter: %w", err)
	}
	if ch == nil {
		return nil, errors.NewNotFoundError("chapter not found", chapterSID)
	}

	vol, err := s.volumeRepo.GetByID(ctx, ch.VolumeID())
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	nov, err := s.novelRepo.GetByID(ctx, ch.NovelID())
	if err != nil {
		return nil, fmt.Errorf("failed to load novel: %w", err)
	}
	if vol == nil || nov == nil {
		s.logger.Errorw("chapter references missing parent",
			"chapter_sid", chapterSID, "volume_id", ch.VolumeID(), "novel_id", ch.NovelID())
		return nil, errors.NewNotFoundError("chapter not found", chapterSID)
	}

	var usr *user.User
	if userID != 0 {
		usr, err = s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
	}

	now := s.now()

	var rent *rental.Rental
	if usr != nil && !usr.Role().IsStaff() && ch.EffectiveMode(vol.Mode()) == content.ModePaid {
		rent, err = s.rentalRepo.FindActive(ctx, usr.ID(), vol.ID(), now)
		if err != nil {
			return nil, fmt.Errorf("failed to look up rental: %w", err)
		}
	}

	decision := access.Evaluate(access.Input{
		Chapter: ch,
		Volume:  vol,
		Novel:   nov,
		User:    usr,
		Rental:  rent,
		Now:     now,
	})

	view := &ChapterView{
		ChapterSID:    ch.SID(),
		Title:         ch.Title(),
		Order:         ch.Order(),
		Mode:          ch.Mode(),
		EffectiveMode: ch.EffectiveMode(vol.Mode()),
		Granted:       decision.Granted,
		Reason:        decision.Reason,
		Message:       decision.Message,
		Rental:        decision.RentalInfo,
	}
	if decision.Granted {
		body, err := s.loadBody(ctx, ch)
		if err != nil {
			return nil, err
		}
		view.Body = body
	} else if ch.Mode() == content.ModePaid {
		view.Price = ch.Price()
	}
	return view, nil
}

// loadBody serves the rendered body cache-first. Repository reads leave the
// body column unloaded, so a miss costs one extra query and primes the cache.
func (s *Service) loadBody(ctx context.Context, ch *chapter.Chapter) (string, error) {
	if body, ok := s.bodies.GetBody(ctx, ch.SID()); ok {
		return body, nil
	}

	body, err := s.chapterRepo.GetBody(ctx, ch.ID())
	if err != nil {
		return "", fmt.Errorf("failed to load chapter body: %w", err)
	}
	s.bodies.SetBody(ctx, ch.SID(), body)
	return body, nil
}
