package mappers

import (
	"fmt"

	"github.com/inkwell-press/inkwell/internal/domain/topup"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
)

func TopUpToModel(entity *topup.TopUp) *models.TopUpModel {
	return &models.TopUpModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		UserID:      entity.UserID(),
		Amount:      entity.Amount(),
		Status:      string(entity.Status()),
		ProviderRef: entity.ProviderRef(),
		CreatedAt:   entity.CreatedAt(),
		SettledAt:   entity.SettledAt(),
	}
}

func TopUpToDomain(model *models.TopUpModel) (*topup.TopUp, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := topup.Reconstruct(model.ID, model.SID, model.UserID, model.Amount,
		topup.Status(model.Status), model.ProviderRef, model.CreatedAt, model.SettledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct top-up: %w", err)
	}
	return entity, nil
}
