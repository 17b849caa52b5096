package mappers

import (
	"fmt"

	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
)

func ChapterToModel(entity *chapter.Chapter) *models.ChapterModel {
	return &models.ChapterModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		NovelID:   entity.NovelID(),
		VolumeID:  entity.VolumeID(),
		Title:     entity.Title(),
		Order:     entity.Order(),
		Mode:      entity.Mode().String(),
		Price:     entity.Price(),
		Body:      entity.Body(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func ChapterToDomain(model *models.ChapterModel) (*chapter.Chapter, error) {
	if model == nil {
		return nil, nil
	}

	mode, err := content.ParseMode(model.Mode)
	if err != nil {
		return nil, fmt.Errorf("stored chapter mode is invalid: %w", err)
	}

	entity, err := chapter.Reconstruct(chapter.ReconstructParams{
		ID:        model.ID,
		SID:       model.SID,
		NovelID:   model.NovelID,
		VolumeID:  model.VolumeID,
		Title:     model.Title,
		Order:     model.Order,
		Mode:      mode,
		Price:     model.Price,
		Body:      model.Body,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct chapter: %w", err)
	}
	return entity, nil
}
