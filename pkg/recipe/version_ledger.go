package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/metrics"
	"RecipeAPI/internal/utils"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	// VersionLedger is the append-only history of a recipe's content.
	VersionLedger interface {
		// Append snapshots the recipe as it is now in the current transaction.
		// The caller must hold the recipe row lock.
		Append(ctx context.Context, recipe *entities.Recipe, changedBy *uuid.UUID, summary string) (*entities.RecipeVersion, error)
		List(ctx context.Context, recipeID uuid.UUID, page, limit int) ([]entities.RecipeVersion, int64, error)
		Get(ctx context.Context, recipeID uuid.UUID, number int) (*entities.RecipeVersion, error)
	}

	versionLedger struct {
		db *gorm.DB
	}
)

func NewVersionLedger(db *gorm.DB) VersionLedger {
	return &versionLedger{db: db}
}

func (l *versionLedger) Append(ctx context.Context, recipe *entities.Recipe, changedBy *uuid.UUID, summary string) (*entities.RecipeVersion, error) {
	if recipe == nil || recipe.ID == uuid.Nil {
		return nil, domain.ErrRecipeNotFound
	}
	db := l.db.WithContext(ctx)

	var exists int64
	if err := db.Model(&entities.Recipe{}).Where("id = ?", recipe.ID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, domain.ErrRecipeNotFound
	}

	var latest int
	if err := db.Model(&entities.RecipeVersion{}).
		Where("recipe_id = ?", recipe.ID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&latest).Error; err != nil {
		return nil, err
	}

	var ingredients []entities.Ingredient
	if err := db.Where("recipe_id = ?", recipe.ID).Order("position ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}

	version := &entities.RecipeVersion{
		RecipeID:            recipe.ID,
		VersionNumber:       latest + 1,
		Title:               recipe.Title,
		Description:         recipe.Description,
		Instructions:        append(datatypes.JSONSlice[string]{}, recipe.Instructions...),
		IngredientsSnapshot: snapshotIngredients(ingredients),
		ChangedByID:         changedBy,
		ChangeSummary:       summary,
	}
	if err := db.Create(version).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, domain.ErrVersionConflict
		}
		return nil, err
	}

	metrics.RecipeVersionsAppended.Inc()
	return version, nil
}

func snapshotIngredients(ingredients []entities.Ingredient) datatypes.JSONSlice[entities.IngredientSnapshot] {
	snapshot := make(datatypes.JSONSlice[entities.IngredientSnapshot], 0, len(ingredients))
	for _, ing := range ingredients {
		snapshot = append(snapshot, entities.IngredientSnapshot{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Type:     ing.Type,
			Notes:    ing.Notes,
		})
	}
	return snapshot
}

func (l *versionLedger) List(ctx context.Context, recipeID uuid.UUID, page, limit int) ([]entities.RecipeVersion, int64, error) {
	var versions []entities.RecipeVersion
	var count int64
	offset := (page - 1) * limit

	if err := l.db.WithContext(ctx).
		Model(&entities.RecipeVersion{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := l.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("version_number DESC").
		Offset(offset).
		Limit(limit).
		Find(&versions).Error; err != nil {
		return nil, 0, err
	}

	return versions, count, nil
}

func (l *versionLedger) Get(ctx context.Context, recipeID uuid.UUID, number int) (*entities.RecipeVersion, error) {
	var version entities.RecipeVersion
	err := l.db.WithContext(ctx).
		Where("recipe_id = ? AND version_number = ?", recipeID, number).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}
