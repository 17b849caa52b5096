package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/mappers"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
	"github.com/inkwell-press/inkwell/internal/shared/db"
)

type RentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

func (r *RentalRepository) Create(ctx context.Context, rent *rental.Rental) error {
	model := mappers.RentalToModel(rent)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create rental: %w", err)
	}
	return rent.SetID(model.ID)
}

func (r *RentalRepository) GetByID(ctx context.Context, rentID uint) (*rental.Rental, error) {
	var model models.RentalModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, rentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	return mappers.RentalToDomain(&model)
}

func (r *RentalRepository) ListByUserID(ctx context.Context, userID uint) ([]*rental.Rental, error) {
	var modelList []*models.RentalModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}

	out := make([]*rental.Rental, 0, len(modelList))
	for _, model := range modelList {
		entity, err := mappers.RentalToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// FindActive returns the unexpired rental with the greatest end time for the
// (user, volume) pair. Renewals leave several overlapping rows; ordering by
// end_time picks the longest-running one.
func (r *RentalRepository) FindActive(ctx context.Context, userID, volumeID uint, now time.Time) (*rental.Rental, error) {
	var model models.RentalModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND volume_id = ? AND end_time >= ?", userID, volumeID, now).
		Order("end_time DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active rental: %w", err)
	}
	return mappers.RentalToDomain(&model)
}
