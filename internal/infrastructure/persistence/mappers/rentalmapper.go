package mappers

import (
	"fmt"

	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
)

func RentalToModel(entity *rental.Rental) *models.RentalModel {
	return &models.RentalModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		UserID:    entity.UserID(),
		VolumeID:  entity.VolumeID(),
		StartTime: entity.StartTime(),
		EndTime:   entity.EndTime(),
		CreatedAt: entity.CreatedAt(),
	}
}

func RentalToDomain(model *models.RentalModel) (*rental.Rental, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := rental.Reconstruct(model.ID, model.SID, model.UserID, model.VolumeID,
		model.StartTime, model.EndTime, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct rental: %w", err)
	}
	return entity, nil
}
