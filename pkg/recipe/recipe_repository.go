package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/utils"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"strings"
)

// editableColumns are the recipe columns a content update may write. Counters
// (ratings, views) are owned by their own code paths.
var editableColumns = []string{
	"title", "description", "serving_size", "cook_time", "prep_time", "equipment",
	"instructions", "tips", "difficulty", "visibility", "video_url", "nutrition_info", "updated_at",
}

type (
	RecipeRepository interface {
		// Transaction runs fn against a repository bound to one database transaction.
		Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error
		Versions() VersionLedger

		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		LockRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		SetVisibility(ctx context.Context, id uuid.UUID, visibility string) error
		SetFeaturedImage(ctx context.Context, id uuid.UUID, url string) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		SlugExists(ctx context.Context, slug string) (bool, error)
		IncrementViewCount(ctx context.Context, id uuid.UUID) error

		GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]entities.Ingredient, error)
		ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []entities.Ingredient) error
		ReplaceTags(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag) error
		AddImage(ctx context.Context, image *entities.RecipeImage) error

		ListRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]entities.Recipe, int64, error)
		TrendingRecipes(ctx context.Context, limit int) ([]entities.Recipe, error)
		RecipeIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error)
		CountRelated(ctx context.Context, recipeID uuid.UUID) (RelatedCounts, error)

		ListIngredients(ctx context.Context, search string, page, limit int) ([]IngredientRow, int64, error)
		GetPublicIngredient(ctx context.Context, id uuid.UUID) (*IngredientRow, error)
	}

	RelatedCounts struct {
		Comments  int64
		Favorites int64
		Versions  int64
	}

	IngredientRow struct {
		entities.Ingredient `gorm:"embedded"`
		RecipeTitle         string
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) Versions() VersionLedger {
	return NewVersionLedger(r.db)
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
	if utils.IsDuplicateKey(err) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, uploaded_at ASC") }).
		Where("id = ?", id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// LockRecipe loads the bare recipe row with SELECT ... FOR UPDATE. It only
// serializes anything when called inside Transaction.
func (r *recipeRepository) LockRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select(editableColumns).
		Updates(recipe).Error
}

func (r *recipeRepository) SetVisibility(ctx context.Context, id uuid.UUID, visibility string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("visibility", visibility).Error
}

func (r *recipeRepository) SetFeaturedImage(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("featured_image", url).Error
}

// DeleteRecipe removes the recipe and everything hanging off it. Children are
// deleted explicitly so the result does not depend on FK cascade support.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{
			&entities.Ingredient{},
			&entities.RecipeImage{},
			&entities.Comment{},
			&entities.Rating{},
			&entities.RecipeVersion{},
			&entities.Favorite{},
		}
		for _, model := range children {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *recipeRepository) GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("position ASC").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []entities.Ingredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&entities.Ingredient{}).Error; err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return nil
	}
	for i := range ingredients {
		ingredients[i].RecipeID = recipeID
	}
	return db.Create(&ingredients).Error
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags)
}

func (r *recipeRepository) AddImage(ctx context.Context, image *entities.RecipeImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func recipeFilterScope(filter domain.RecipeFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("recipes.visibility = ?", domain.VisibilityPublic)

		if filter.AuthorID != "" {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if filter.Difficulty != "" {
			db = db.Where("recipes.difficulty = ?", filter.Difficulty)
		}
		if filter.MaxCookTime > 0 {
			db = db.Where("recipes.cook_time <= ?", filter.MaxCookTime)
		}
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			db = db.Where("(LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ?)", like, like)
		}
		if filter.Tag != "" {
			db = db.Where("recipes.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug = ?", filter.Tag))
		}
		if filter.Ingredient != "" {
			db = db.Where("recipes.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Model(&entities.Ingredient{}).
				Select("ingredients.recipe_id").
				Where("LOWER(ingredients.name) LIKE ?", "%"+strings.ToLower(filter.Ingredient)+"%"))
		}
		return db
	}
}

func (r *recipeRepository) ListRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64
	offset := (page - 1) * limit
	scope := recipeFilterScope(filter)

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(scope).
		Preload("Author").
		Order("recipes.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) TrendingRecipes(ctx context.Context, limit int) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("visibility = ?", domain.VisibilityPublic).
		Order("view_count DESC, average_rating DESC, created_at DESC").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) RecipeIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeRepository) CountRelated(ctx context.Context, recipeID uuid.UUID) (RelatedCounts, error) {
	var counts RelatedCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&entities.Comment{}).
		Where("recipe_id = ? AND is_spam = ? AND is_approved = ?", recipeID, false, true).
		Count(&counts.Comments).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&entities.Favorite{}).
		Where("recipe_id = ?", recipeID).
		Count(&counts.Favorites).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&entities.RecipeVersion{}).
		Where("recipe_id = ?", recipeID).
		Count(&counts.Versions).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func publicIngredientScope(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN recipes ON recipes.id = ingredients.recipe_id").
		Where("recipes.visibility = ?", domain.VisibilityPublic)
}

func (r *recipeRepository) ListIngredients(ctx context.Context, search string, page, limit int) ([]IngredientRow, int64, error) {
	var rows []IngredientRow
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		db = publicIngredientScope(db)
		if search != "" {
			db = db.Where("LOWER(ingredients.name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return db
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Scopes(scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Scopes(scope).
		Select("ingredients.*, recipes.title AS recipe_title").
		Order("ingredients.name ASC, ingredients.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, count, nil
}

func (r *recipeRepository) GetPublicIngredient(ctx context.Context, id uuid.UUID) (*IngredientRow, error) {
	var rows []IngredientRow
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Scopes(publicIngredientScope).
		Select("ingredients.*, recipes.title AS recipe_title").
		Where("ingredients.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrIngredientNotFound
	}
	return &rows[0], nil
}
