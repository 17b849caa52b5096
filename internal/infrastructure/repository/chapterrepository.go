package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/mappers"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
	"github.com/inkwell-press/inkwell/internal/shared/db"
)

// bodyless selects every chapter column except the body. Bodies are longtext
// and only the granted read path wants them, through GetBody.
var bodyless = []string{
	"id", "sid", "novel_id", "volume_id", "title", "position",
	"mode", "price", "created_at", "updated_at",
}

type ChapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

func (r *ChapterRepository) Create(ctx context.Context, ch *chapter.Chapter) error {
	model := mappers.ChapterToModel(ch)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return ch.SetID(model.ID)
}

func (r *ChapterRepository) GetByID(ctx context.Context, chID uint) (*chapter.Chapter, error) {
	var model models.ChapterModel
	if err := db.GetTxFromContext(ctx, r.db).Select(bodyless).First(&model, chID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return mappers.ChapterToDomain(&model)
}

func (r *ChapterRepository) GetBySID(ctx context.Context, sid string) (*chapter.Chapter, error) {
	var model models.ChapterModel
	if err := db.GetTxFromContext(ctx, r.db).
		Select(bodyless).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return mappers.ChapterToDomain(&model)
}

func (r *ChapterRepository) GetBody(ctx context.Context, chID uint) (string, error) {
	var body string
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChapterModel{}).
		Where("id = ?", chID).
		Pluck("body", &body).Error; err != nil {
		return "", fmt.Errorf("failed to get chapter body: %w", err)
	}
	return body, nil
}

func (r *ChapterRepository) ListByVolumeID(ctx context.Context, volumeID uint) ([]*chapter.Chapter, error) {
	return r.list(ctx, "volume_id = ?", volumeID)
}

func (r *ChapterRepository) ListByNovelID(ctx context.Context, novelID uint) ([]*chapter.Chapter, error) {
	return r.list(ctx, "novel_id = ?", novelID)
}

func (r *ChapterRepository) ListPaidByNovelOrdered(ctx context.Context, novelID uint) ([]*chapter.Chapter, error) {
	var modelList []*models.ChapterModel
	if err := db.GetTxFromContext(ctx, r.db).
		Select(bodyless).
		Where("novel_id = ? AND mode = ?", novelID, content.ModePaid.String()).
		Order("position ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list paid chapters: %w", err)
	}
	return r.toDomain(modelList)
}

func (r *ChapterRepository) list(ctx context.Context, query string, arg any) ([]*chapter.Chapter, error) {
	var modelList []*models.ChapterModel
	if err := db.GetTxFromContext(ctx, r.db).
		Select(bodyless).
		Where(query, arg).
		Order("position ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return r.toDomain(modelList)
}

func (r *ChapterRepository) toDomain(modelList []*models.ChapterModel) ([]*chapter.Chapter, error) {
	out := make([]*chapter.Chapter, 0, len(modelList))
	for _, model := range modelList {
		entity, err := mappers.ChapterToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (r *ChapterRepository) Update(ctx context.Context, ch *chapter.Chapter) error {
	model := mappers.ChapterToModel(ch)

	updates := map[string]interface{}{
		"title":      model.Title,
		"position":   model.Order,
		"mode":       model.Mode,
		"price":      model.Price,
		"updated_at": model.UpdatedAt,
	}
	// An aggregate loaded without its body carries an empty one; writing it
	// back would wipe the stored text.
	if model.Body != "" {
		updates["body"] = model.Body
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChapterModel{}).
		Where("id = ?", model.ID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update chapter: %w", result.Error)
	}
	return nil
}

func (r *ChapterRepository) UpdateMode(ctx context.Context, chID uint, mode content.Mode, price int64, updatedAt time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChapterModel{}).
		Where("id = ?", chID).
		Updates(map[string]interface{}{
			"mode":       mode.String(),
			"price":      price,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update chapter mode: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("chapter %d not found", chID)
	}
	return nil
}

func (r *ChapterRepository) Delete(ctx context.Context, chID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.ChapterModel{}, chID).Error; err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}
