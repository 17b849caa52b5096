// Package mappers converts between domain aggregates and persistence models.
// Reconstruction goes through the domain constructors so stored invariants
// are re-validated on every load.
package mappers

import (
	"fmt"

	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
)

func UserToModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		Username:     entity.Username(),
		Email:        entity.Email(),
		PasswordHash: entity.PasswordHash(),
		Role:         entity.Role().String(),
		Coins:        entity.Coins(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := user.Reconstruct(user.ReconstructParams{
		ID:           model.ID,
		SID:          model.SID,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         user.ParseRole(model.Role),
		Coins:        model.Coins,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user: %w", err)
	}
	return entity, nil
}
