package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/mappers"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
	"github.com/inkwell-press/inkwell/internal/shared/db"
)

type NovelRepository struct {
	db *gorm.DB
}

func NewNovelRepository(db *gorm.DB) *NovelRepository {
	return &NovelRepository{db: db}
}

func (r *NovelRepository) Create(ctx context.Context, n *novel.Novel) error {
	model, err := mappers.NovelToModel(n)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create novel: %w", err)
	}
	return n.SetID(model.ID)
}

func (r *NovelRepository) GetByID(ctx context.Context, novID uint) (*novel.Novel, error) {
	var model models.NovelModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, novID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get novel: %w", err)
	}
	return mappers.NovelToDomain(&model)
}

func (r *NovelRepository) GetBySID(ctx context.Context, sid string) (*novel.Novel, error) {
	return r.getBy(ctx, "sid = ?", sid)
}

func (r *NovelRepository) GetBySlug(ctx context.Context, slug string) (*novel.Novel, error) {
	return r.getBy(ctx, "slug = ?", slug)
}

func (r *NovelRepository) getBy(ctx context.Context, query string, arg any) (*novel.Novel, error) {
	var model models.NovelModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get novel: %w", err)
	}
	return mappers.NovelToDomain(&model)
}

func (r *NovelRepository) List(ctx context.Context, page, pageSize int) ([]*novel.Novel, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.NovelModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count novels: %w", err)
	}

	var modelList []*models.NovelModel
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list novels: %w", err)
	}

	out := make([]*novel.Novel, 0, len(modelList))
	for _, model := range modelList {
		entity, err := mappers.NovelToDomain(model)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entity)
	}
	return out, total, nil
}

func (r *NovelRepository) Update(ctx context.Context, n *novel.Novel) error {
	model, err := mappers.NovelToModel(n)
	if err != nil {
		return err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.NovelModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":       model.Title,
			"description": model.Description,
			"roster":      model.Roster,
			"balance":     model.Balance,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update novel: %w", result.Error)
	}
	return nil
}

func (r *NovelRepository) Delete(ctx context.Context, novID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.NovelModel{}, novID).Error; err != nil {
		return fmt.Errorf("failed to delete novel: %w", err)
	}
	return nil
}
