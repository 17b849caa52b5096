package mappers

import (
	"fmt"

	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
)

func VolumeToModel(entity *volume.Volume) *models.VolumeModel {
	return &models.VolumeModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		NovelID:   entity.NovelID(),
		Title:     entity.Title(),
		Order:     entity.Order(),
		Mode:      entity.Mode().String(),
		Price:     entity.Price(),
		RentPrice: entity.RentPrice(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func VolumeToDomain(model *models.VolumeModel) (*volume.Volume, error) {
	if model == nil {
		return nil, nil
	}

	mode, err := content.ParseMode(model.Mode)
	if err != nil {
		return nil, fmt.Errorf("stored volume mode is invalid: %w", err)
	}

	entity, err := volume.Reconstruct(volume.ReconstructParams{
		ID:        model.ID,
		SID:       model.SID,
		NovelID:   model.NovelID,
		Title:     model.Title,
		Order:     model.Order,
		Mode:      mode,
		Price:     model.Price,
		RentPrice: model.RentPrice,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct volume: %w", err)
	}
	return entity, nil
}
