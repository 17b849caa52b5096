package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
)

func NovelToModel(entity *novel.Novel) (*models.NovelModel, error) {
	rosterJSON, err := json.Marshal(entity.Roster())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roster: %w", err)
	}

	return &models.NovelModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		Title:       entity.Title(),
		Slug:        entity.Slug(),
		Description: entity.Description(),
		CreatorID:   entity.CreatorID(),
		Roster:      datatypes.JSON(rosterJSON),
		Balance:     entity.Balance(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func NovelToDomain(model *models.NovelModel) (*novel.Novel, error) {
	if model == nil {
		return nil, nil
	}

	// Stored rosters mix numeric IDs and legacy username strings in one
	// array; Roster's unmarshaler accepts both.
	var roster novel.Roster
	if len(model.Roster) > 0 {
		if err := json.Unmarshal(model.Roster, &roster); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
		}
	}

	entity, err := novel.Reconstruct(novel.ReconstructParams{
		ID:          model.ID,
		SID:         model.SID,
		Title:       model.Title,
		Slug:        model.Slug,
		Description: model.Description,
		CreatorID:   model.CreatorID,
		Roster:      roster,
		Balance:     model.Balance,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct novel: %w", err)
	}
	return entity, nil
}
