// Package volume implements volume management: grouping chapters, volume
// visibility, and the ownership/rent pricing that makes a volume rentable.
package volume

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

type VolumeDTO struct {
	SID       string       `json:"sid"`
	NovelSID  string       `json:"novel_sid,omitempty"`
	Title     string       `json:"title"`
	Order     int          `json:"order"`
	Mode      content.Mode `json:"mode"`
	Price     int64        `json:"price,omitempty"`
	RentPrice int64        `json:"rent_price,omitempty"`
	Rentable  bool         `json:"rentable"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type CreateVolumeInput struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
	Order int    `json:"order" binding:"min=0"`
}

type UpdateVolumeInput struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=255"`
	Order *int    `json:"order" binding:"omitempty,min=0"`
}

type ChangeModeInput struct {
	Mode      string `json:"mode" binding:"required,oneof=published draft protected paid"`
	Price     int64  `json:"price" binding:"min=0"`
	RentPrice int64  `json:"rent_price" binding:"min=0"`
}

type Service struct {
	volumeRepo volume.Repository
	novelRepo  novel.Repository
	logger     logger.Interface
}

func NewService(volumeRepo volume.Repository, novelRepo novel.Repository, logger logger.Interface) *Service {
	return &Service{volumeRepo: volumeRepo, novelRepo: novelRepo, logger: logger}
}

// CreateVolume adds a draft volume to the novel.
func (s *Service) CreateVolume(ctx context.Context, novelSID string, input CreateVolumeInput) (*VolumeDTO, error) {
	nov, err := s.novelRepo.GetBySID(ctx, novelSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load novel: %w", err)
	}
	if nov == nil {
		return nil, errors.NewNotFoundError("novel not found", novelSID)
	}

	vol, err := volume.NewVolume(nov.ID(), input.Title, input.Order)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.volumeRepo.Create(ctx, vol); err != nil {
		return nil, fmt.Errorf("failed to create volume: %w", err)
	}

	s.logger.Infow("volume created", "volume_sid", vol.SID(), "novel_sid", novelSID)
	return toDTO(vol, novelSID), nil
}

// GetVolume returns a volume by SID.
func (s *Service) GetVolume(ctx context.Context, sid string) (*VolumeDTO, error) {
	vol, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	return toDTO(vol, ""), nil
}

// ListByNovel returns the novel's volumes in reading order.
func (s *Service) ListByNovel(ctx context.Context, novelSID string) ([]*VolumeDTO, error) {
	nov, err := s.novelRepo.GetBySID(ctx, novelSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load novel: %w", err)
	}
	if nov == nil {
		return nil, errors.NewNotFoundError("novel not found", novelSID)
	}

	volumes, err := s.volumeRepo.ListByNovelID(ctx, nov.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	out := make([]*VolumeDTO, 0, len(volumes))
	for _, vol := range volumes {
		out = append(out, toDTO(vol, novelSID))
	}
	return out, nil
}

// UpdateVolume applies a partial edit.
func (s *Service) UpdateVolume(ctx context.Context, sid string, input UpdateVolumeInput) (*VolumeDTO, error) {
	vol, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := vol.SetTitle(*input.Title); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if input.Order != nil {
		if err := vol.SetOrder(*input.Order); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := s.volumeRepo.Update(ctx, vol); err != nil {
		return nil, fmt.Errorf("failed to update volume: %w", err)
	}
	return toDTO(vol, ""), nil
}

// ChangeMode transitions the volume's visibility. A paid volume needs an
// ownership price; setting a rent price too is what opens it for rental.
// Leaving paid mode drops both prices.
func (s *Service) ChangeMode(ctx context.Context, sid string, input ChangeModeInput) (*VolumeDTO, error) {
	vol, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	mode, err := content.ParseMode(input.Mode)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := vol.ChangeMode(mode, input.Price, input.RentPrice); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.volumeRepo.Update(ctx, vol); err != nil {
		return nil, fmt.Errorf("failed to update volume: %w", err)
	}

	s.logger.Infow("volume mode changed",
		"volume_sid", sid, "mode", mode, "rentable", vol.IsRentable())
	return toDTO(vol, ""), nil
}

// SetPricing re-prices an already-paid volume.
func (s *Service) SetPricing(ctx context.Context, sid string, price, rentPrice int64) (*VolumeDTO, error) {
	vol, err := s.loadBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if err := vol.SetPricing(price, rentPrice); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.volumeRepo.Update(ctx, vol); err != nil {
		return nil, fmt.Errorf("failed to update volume: %w", err)
	}
	return toDTO(vol, ""), nil
}

// DeleteVolume removes the volume.
func (s *Service) DeleteVolume(ctx context.Context, sid string) error {
	vol, err := s.loadBySID(ctx, sid)
	if err != nil {
		return err
	}
	if err := s.volumeRepo.Delete(ctx, vol.ID()); err != nil {
		return fmt.Errorf("failed to delete volume: %w", err)
	}
	s.logger.Infow("volume deleted", "volume_sid", sid)
	return nil
}

func (s *Service) loadBySID(ctx context.Context, sid string) (*volume.Volume, error) {
	vol, err := s.volumeRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load volume: %w", err)
	}
	if vol == nil {
		return nil, errors.NewNotFoundError("volume not found", sid)
	}
	return vol, nil
}

func toDTO(vol *volume.Volume, novelSID string) *VolumeDTO {
	return &VolumeDTO{
		SID:       vol.SID(),
		NovelSID:  novelSID,
		Title:     vol.Title(),
		Order:     vol.Order(),
		Mode:      vol.Mode(),
		Price:     vol.Price(),
		RentPrice: vol.RentPrice(),
		Rentable:  vol.IsRentable(),
		CreatedAt: vol.CreatedAt(),
		UpdatedAt: vol.UpdatedAt(),
	}
}
