package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/topup"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/mappers"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
	"github.com/inkwell-press/inkwell/internal/shared/db"
)

type TopUpRepository struct {
	db *gorm.DB
}

func NewTopUpRepository(db *gorm.DB) *TopUpRepository {
	return &TopUpRepository{db: db}
}

func (r *TopUpRepository) Create(ctx context.Context, top *topup.TopUp) error {
	model := mappers.TopUpToModel(top)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create top-up: %w", err)
	}
	return top.SetID(model.ID)
}

func (r *TopUpRepository) GetByID(ctx context.Context, topID uint) (*topup.TopUp, error) {
	var model models.TopUpModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, topID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get top-up: %w", err)
	}
	return mappers.TopUpToDomain(&model)
}

func (r *TopUpRepository) GetBySID(ctx context.Context, sid string) (*topup.TopUp, error) {
	return r.getBy(ctx, "sid = ?", sid)
}

// GetByProviderRef is the settlement webhook's idempotency lookup.
func (r *TopUpRepository) GetByProviderRef(ctx context.Context, providerRef string) (*topup.TopUp, error) {
	return r.getBy(ctx, "provider_ref = ?", providerRef)
}

func (r *TopUpRepository) getBy(ctx context.Context, query string, arg any) (*topup.TopUp, error) {
	var model models.TopUpModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get top-up: %w", err)
	}
	return mappers.TopUpToDomain(&model)
}

func (r *TopUpRepository) ListByUserID(ctx context.Context, userID uint) ([]*topup.TopUp, error) {
	var modelList []*models.TopUpModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list top-ups: %w", err)
	}

	out := make([]*topup.TopUp, 0, len(modelList))
	for _, model := range modelList {
		entity, err := mappers.TopUpToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (r *TopUpRepository) Update(ctx context.Context, top *topup.TopUp) error {
	model := mappers.TopUpToModel(top)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TopUpModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"settled_at": model.SettledAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update top-up: %w", result.Error)
	}
	return nil
}
