// Package chapter implements chapter authoring: creation, body rendering,
// and the mode/pricing transitions that feed the access rules.
package chapter

import (
	"context"
	"fmt"
	"time"

	appunlock "github.com/inkwell-press/inkwell/internal/application/unlock"
	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// Renderer turns author markdown into sanitized HTML. Rendering happens at
// write time; the store only ever holds sanitized output.
type Renderer interface {
	Render(markdown string) (string, error)
}

// BodyEvictor drops a chapter's cached rendered body after an edit.
type BodyEvictor interface {
	EvictBody(ctx context.Context, chapterSID string)
}

// UnlockTrigger re-runs the auto-unlock check for a novel. Pricing edits can
// make previously unaffordable chapters affordable against the balance the
// novel already holds.
type UnlockTrigger interface {
	CheckAndUnlock(ctx context.Context, novelSID string) ([]appunlock.Unlocked, error)
}

type ChapterDTO struct {
	SID       string       `json:"sid"`
	VolumeSID string       `json:"volume_sid,omitempty"`
	Title     string       `json:"title"`
	Order     int          `json:"order"`
	Mode      content.Mode `json:"mode"`
	Price     int64        `json:"price,omitempty"`
	Body      string       `json:"body,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type CreateChapterInput struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	Order    int    `json:"order" binding:"min=0"`
	Markdown string `json:"markdown"`
}

type UpdateChapterInput struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=255"`
	Order    *int    `json:"order" binding:"omitempty,min=0"`
	Markdown *string `json:"markdown"`
}

type ChangeModeInput struct {
	Mode  string `json:"mode" binding:"required,oneof=published draft protected paid"`
	Price int64  `json:"price" binding:"min=0"`
}

type Service struct {
	chapterRepo chapter.Repository
	volumeRepo  volume.Repository
	novelRepo   novel.Repository
	renderer    Renderer
	evictor     BodyEvictor
	unlocker    UnlockTrigger
	logger      logger.Interface
}

func NewService(
	chapterRepo chapter.Repository,
	volumeRepo volume.Repository,
	novelRepo novel.Repository,
	renderer Renderer,
	evictor BodyEvictor,
	unlocker UnlockTrigger,
	logger logger.Interface,
) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		volumeRepo:  volumeRepo,
		novelRepo:   novelRepo,
		renderer:    renderer,
		evictor:     evictor,
		unlocker:    unlocker,
		logger:      logger,
	}
}

// CreateChapter adds a draft chapter to the volume. The body arrives as
// markdown and is stored rendered and sanitized.
func (s *Service) CreateChapter(ctx context.Context, volumeSID string, input CreateChapterInput) (*ChapterDTO, error) {
	vol, err := s.volumeRepo.GetBySID(ctx, volumeSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	if vol == nil {
		return nil, errors.NewNotFoundError("volume not found", volumeSID)
	}

	ch, err := chapter.NewChapter(vol.NovelID(), vol.ID(), input.Title, input.Order)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if input.Markdown != "" {
		body, err := s.renderer.Render(input.Markdown)
		if err != nil {
			return nil, errors.NewValidationError("failed to render markdown", err.Error())
		}
		ch.SetBody(body)
	}

	if err := s.chapterRepo.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	s.logger.Infow("chapter created", "chapter_sid", ch.SID(), "volume_sid", volumeSID)
	return s.toDTO(ch, volumeSID, true), nil
}

// GetChapter returns the chapter with its body for authoring tools. Reader
// access goes through the access service instead; this path does no gating.
func (s *Service) GetChapter(ctx context.Context, sid string) (*ChapterDTO, error) {
	ch, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	body, err := s.chapterRepo.GetBody(ctx, ch.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load chapter body: %w", err)
	}
	ch.SetBody(body)
	return s.toDTO(ch, "", true), nil
}

// ListByVolume returns the volume's chapters in reading order, bodies
// omitted.
func (s *Service) ListByVolume(ctx context.Context, volumeSID string) ([]*ChapterDTO, error) {
	vol, err := s.volumeRepo.GetBySID(ctx, volumeSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	if vol == nil {
		return nil, errors.NewNotFoundError("volume not found", volumeSID)
	}

	chapters, err := s.chapterRepo.ListByVolumeID(ctx, vol.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	out := make([]*ChapterDTO, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, s.toDTO(ch, volumeSID, false))
	}
	return out, nil
}

// UpdateChapter applies a partial edit and evicts the cached body when it
// changed.
func (s *Service) UpdateChapter(ctx context.Context, sid string, input UpdateChapterInput) (*ChapterDTO, error) {
	ch, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := ch.SetTitle(*input.Title); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if input.Order != nil {
		if err := ch.SetOrder(*input.Order); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	bodyChanged := false
	if input.Markdown != nil {
		body, err := s.renderer.Render(*input.Markdown)
		if err != nil {
			return nil, errors.NewValidationError("failed to render markdown", err.Error())
		}
		ch.SetBody(body)
		bodyChanged = true
	}

	if err := s.chapterRepo.Update(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	if bodyChanged {
		s.evictor.EvictBody(ctx, ch.SID())
	}
	return s.toDTO(ch, "", bodyChanged), nil
}

// ChangeMode transitions the chapter's visibility. Making a chapter paid
// requires a price and is rejected inside a paid volume; leaving paid mode
// drops the price. Any transition into or out of paid re-runs the unlock
// check, since the novel's balance may already cover the new pricing.
func (s *Service) ChangeMode(ctx context.Context, sid string, input ChangeModeInput) (*ChapterDTO, error) {
	ch, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	vol, err := s.volumeRepo.GetByID(ctx, ch.VolumeID())
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	if vol == nil {
		return nil, errors.NewNotFoundError("volume not found")
	}

	mode, err := content.ParseMode(input.Mode)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	wasPaid := ch.Mode() == content.ModePaid
	if err := ch.ChangeMode(mode, input.Price, vol.Mode()); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.chapterRepo.Update(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	s.evictor.EvictBody(ctx, ch.SID())

	if wasPaid || ch.Mode() == content.ModePaid {
		s.triggerUnlock(ctx, ch.NovelID())
	}
	return s.toDTO(ch, "", false), nil
}

// SetPrice re-prices an already-paid chapter and re-runs the unlock check:
// lowering the price can make the chapter affordable on the spot.
func (s *Service) SetPrice(ctx context.Context, sid string, price int64) (*ChapterDTO, error) {
	ch, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if err := ch.SetPrice(price); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.chapterRepo.Update(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	s.triggerUnlock(ctx, ch.NovelID())
	return s.toDTO(ch, "", false), nil
}

// DeleteChapter removes the chapter and its cached body.
func (s *Service) DeleteChapter(ctx context.Context, sid string) error {
	ch, err := s.loadBySID(ctx, sid)
	if err != nil {
		return err
	}

	if err := s.chapterRepo.Delete(ctx, ch.ID()); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	s.evictor.EvictBody(ctx, ch.SID())
	s.logger.Infow("chapter deleted", "chapter_sid", sid)
	return nil
}

func (s *Service) triggerUnlock(ctx context.Context, novelID uint) {
	nov, err := s.novelRepo.GetByID(ctx, novelID)
	if err != nil || nov == nil {
		s.logger.Errorw("failed to resolve novel for unlock check",
			"novel_id", novelID, "error", err)
		return
	}
	if _, err := s.unlocker.CheckAndUnlock(ctx, nov.SID()); err != nil {
		// The pricing change is committed; the next contribution retries.
		s.logger.Errorw("unlock check failed after pricing change",
			"novel_sid", nov.SID(), "error", err)
	}
}

func (s *Service) loadBySID(ctx context.Context, sid string) (*chapter.Chapter, error) {
	ch, err := s.chapterRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapter: %w", err)
	}
	if ch == nil {
		return nil, errors.NewNotFoundError("chapter not found", sid)
	}
	return ch, nil
}

func (s *Service) toDTO(ch *chapter.Chapter, volumeSID string, withBody bool) *ChapterDTO {
	dto := &ChapterDTO{
		SID:       ch.SID(),
		VolumeSID: volumeSID,
		Title:     ch.Title(),
		Order:     ch.Order(),
		Mode:      ch.Mode(),
		Price:     ch.Price(),
		CreatedAt: ch.CreatedAt(),
		UpdatedAt: ch.UpdatedAt(),
	}
	if withBody {
		dto.Body = ch.Body()
	}
	return dto
}
