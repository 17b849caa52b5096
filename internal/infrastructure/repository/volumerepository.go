package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/mappers"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
	"github.com/inkwell-press/inkwell/internal/shared/db"
)

type VolumeRepository struct {
	db *gorm.DB
}

func NewVolumeRepository(db *gorm.DB) *VolumeRepository {
	return &VolumeRepository{db: db}
}

func (r *VolumeRepository) Create(ctx context.Context, v *volume.Volume) error {
	model := mappers.VolumeToModel(v)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create volume: %w", err)
	}
	return v.SetID(model.ID)
}

func (r *VolumeRepository) GetByID(ctx context.Context, volID uint) (*volume.Volume, error) {
	var model models.VolumeModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, volID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get volume: %w", err)
	}
	return mappers.VolumeToDomain(&model)
}

func (r *VolumeRepository) GetBySID(ctx context.Context, sid string) (*volume.Volume, error) {
	var model models.VolumeModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get volume: %w", err)
	}
	return mappers.VolumeToDomain(&model)
}

func (r *VolumeRepository) ListByNovelID(ctx context.Context, novelID uint) ([]*volume.Volume, error) {
	var modelList []*models.VolumeModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("novel_id = ?", novelID).
		Order("position ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	out := make([]*volume.Volume, 0, len(modelList))
	for _, model := range modelList {
		entity, err := mappers.VolumeToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (r *VolumeRepository) Update(ctx context.Context, v *volume.Volume) error {
	model := mappers.VolumeToModel(v)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.VolumeModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":      model.Title,
			"position":   model.Order,
			"mode":       model.Mode,
			"price":      model.Price,
			"rent_price": model.RentPrice,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update volume: %w", result.Error)
	}
	return nil
}

func (r *VolumeRepository) Delete(ctx context.Context, volID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.VolumeModel{}, volID).Error; err != nil {
		return fmt.Errorf("failed to delete volume: %w", err)
	}
	return nil
}
