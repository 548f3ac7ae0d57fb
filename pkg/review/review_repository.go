package review

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/metrics"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ReviewRepository interface {
		Transaction(ctx context.Context, fn func(repo ReviewRepository) error) error

		GetRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		LockRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		// RecomputeRating rewrites average_rating and total_ratings from every
		// non-spam rating of the recipe. The caller must hold the recipe lock.
		RecomputeRating(ctx context.Context, recipeID uuid.UUID) (domain.RatingAggregate, error)

		UpsertRating(ctx context.Context, rating *entities.Rating) error
		GetRating(ctx context.Context, id uuid.UUID) (*entities.Rating, error)
		GetUserRating(ctx context.Context, userID, recipeID uuid.UUID) (*entities.Rating, error)
		DeleteUserRating(ctx context.Context, userID, recipeID uuid.UUID) error
		SetRatingSpam(ctx context.Context, id uuid.UUID, isSpam bool) error
		ListRatings(ctx context.Context, recipeID uuid.UUID, page, limit int) ([]entities.Rating, int64, error)

		CreateComment(ctx context.Context, comment *entities.Comment) error
		GetComment(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
		ListComments(ctx context.Context, recipeID uuid.UUID, page, limit int) ([]entities.Comment, int64, error)
		DeleteComment(ctx context.Context, id uuid.UUID) error
		ModerateComment(ctx context.Context, comment *entities.Comment) error
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Transaction(ctx context.Context, fn func(repo ReviewRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&reviewRepository{db: tx})
	})
}

func (r *reviewRepository) GetRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *reviewRepository) LockRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
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

func (r *reviewRepository) RecomputeRating(ctx context.Context, recipeID uuid.UUID) (domain.RatingAggregate, error) {
	var agg struct {
		Average float64
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Select("COALESCE(AVG(CAST(rating AS FLOAT)), 0) AS average, COUNT(*) AS total").
		Where("recipe_id = ? AND is_spam = ?", recipeID, false).
		Scan(&agg).Error; err != nil {
		return domain.RatingAggregate{}, err
	}

	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumns(map[string]any{
			"average_rating": agg.Average,
			"total_ratings":  agg.Total,
		})
	if res.Error != nil {
		return domain.RatingAggregate{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.RatingAggregate{}, domain.ErrRecipeNotFound
	}

	metrics.RatingRecomputes.Inc()
	return domain.RatingAggregate{AverageRating: agg.Average, TotalRatings: int(agg.Total)}, nil
}

// UpsertRating inserts the caller's rating or overwrites the score and review
// of the existing (user_id, recipe_id) row. The spam flag is left alone.
func (r *reviewRepository) UpsertRating(ctx context.Context, rating *entities.Rating) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
		}).
		Create(rating).Error
}

func (r *reviewRepository) GetRating(ctx context.Context, id uuid.UUID) (*entities.Rating, error) {
	var rating entities.Rating
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *reviewRepository) GetUserRating(ctx context.Context, userID, recipeID uuid.UUID) (*entities.Rating, error) {
	var rating entities.Rating
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *reviewRepository) DeleteUserRating(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Rating{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

func (r *reviewRepository) SetRatingSpam(ctx context.Context, id uuid.UUID, isSpam bool) error {
	return r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_spam": isSpam}).Error
}

func (r *reviewRepository) ListRatings(ctx context.Context, recipeID uuid.UUID, page, limit int) ([]entities.Rating, int64, error) {
	var ratings []entities.Rating
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("recipe_id = ? AND is_spam = ?", recipeID, false)
	}

	if err := r.db.WithContext(ctx).Model(&entities.Rating{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&ratings).Error; err != nil {
		return nil, 0, err
	}
	return ratings, count, nil
}

func (r *reviewRepository) CreateComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *reviewRepository) GetComment(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	var comment entities.Comment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the approved, non-spam comments of a recipe, newest first.
func (r *reviewRepository) ListComments(ctx context.Context, recipeID uuid.UUID, page, limit int) ([]entities.Comment, int64, error) {
	var comments []entities.Comment
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("recipe_id = ? AND is_approved = ? AND is_spam = ?", recipeID, true, false)
	}

	if err := r.db.WithContext(ctx).Model(&entities.Comment{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, count, nil
}

func (r *reviewRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *reviewRepository) ModerateComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).
		Model(comment).
		Select("is_approved", "is_spam", "updated_at").
		Updates(comment).Error
}
