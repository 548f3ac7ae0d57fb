package gdpr

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/pkg/recipe"
	"RecipeAPI/pkg/review"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	GDPRRepository interface {
		Transaction(ctx context.Context, fn func(repo GDPRRepository) error) error
		Recipes() recipe.RecipeRepository
		Reviews() review.ReviewRepository

		GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
		ListRatings(ctx context.Context, userID uuid.UUID) ([]entities.Rating, error)
		ListComments(ctx context.Context, userID uuid.UUID) ([]entities.Comment, error)
		ListFavorites(ctx context.Context, userID uuid.UUID) ([]entities.Favorite, error)
		ListFollows(ctx context.Context, column string, userID uuid.UUID) ([]entities.Follow, error)
		ListMessages(ctx context.Context, column string, userID uuid.UUID) ([]entities.Message, error)
		ListNotifications(ctx context.Context, userID uuid.UUID) ([]entities.Notification, error)

		// RatedRecipeIDs lists recipes of other authors the user has rated.
		RatedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
		// DeleteActivity removes every row the user created outside their own
		// recipes: messages, notifications, follows, favorites, comments, ratings.
		DeleteActivity(ctx context.Context, userID uuid.UUID) error
		DetachVersions(ctx context.Context, userID uuid.UUID) error
		DeleteUser(ctx context.Context, userID uuid.UUID) error
	}

	gdprRepository struct {
		db *gorm.DB
	}
)

func NewGDPRRepository(db *gorm.DB) GDPRRepository {
	return &gdprRepository{db: db}
}

func (r *gdprRepository) Transaction(ctx context.Context, fn func(repo GDPRRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gdprRepository{db: tx})
	})
}

func (r *gdprRepository) Recipes() recipe.RecipeRepository {
	return recipe.NewRecipeRepository(r.db)
}

func (r *gdprRepository) Reviews() review.ReviewRepository {
	return review.NewReviewRepository(r.db)
}

func (r *gdprRepository) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *gdprRepository) ListRatings(ctx context.Context, userID uuid.UUID) ([]entities.Rating, error) {
	var ratings []entities.Rating
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&ratings).Error
	return ratings, err
}

func (r *gdprRepository) ListComments(ctx context.Context, userID uuid.UUID) ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *gdprRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]entities.Favorite, error) {
	var favorites []entities.Favorite
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&favorites).Error
	return favorites, err
}

// ListFollows returns follow rows where column (follower_id or following_id) is the user.
func (r *gdprRepository) ListFollows(ctx context.Context, column string, userID uuid.UUID) ([]entities.Follow, error) {
	var follows []entities.Follow
	err := r.db.WithContext(ctx).Where(column+" = ?", userID).Order("created_at ASC").Find(&follows).Error
	return follows, err
}

// ListMessages returns messages where column (sender_id or receiver_id) is the user.
func (r *gdprRepository) ListMessages(ctx context.Context, column string, userID uuid.UUID) ([]entities.Message, error) {
	var messages []entities.Message
	err := r.db.WithContext(ctx).Where(column+" = ?", userID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *gdprRepository) ListNotifications(ctx context.Context, userID uuid.UUID) ([]entities.Notification, error) {
	var notifications []entities.Notification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&notifications).Error
	return notifications, err
}

func (r *gdprRepository) RatedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Joins("JOIN recipes ON recipes.id = ratings.recipe_id").
		Where("ratings.user_id = ? AND recipes.author_id <> ?", userID, userID).
		Distinct().
		Pluck("ratings.recipe_id", &ids).Error
	return ids, err
}

func (r *gdprRepository) DeleteActivity(ctx context.Context, userID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	steps := []struct {
		model any
		where string
	}{
		{&entities.Message{}, "sender_id = @id OR receiver_id = @id"},
		{&entities.Notification{}, "user_id = @id OR actor_id = @id"},
		{&entities.Follow{}, "follower_id = @id OR following_id = @id"},
		{&entities.Favorite{}, "user_id = @id"},
		{&entities.Comment{}, "user_id = @id"},
		{&entities.Rating{}, "user_id = @id"},
	}
	for _, step := range steps {
		if err := db.Where(step.where, map[string]any{"id": userID}).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *gdprRepository) DetachVersions(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.RecipeVersion{}).
		Where("changed_by_id = ?", userID).
		UpdateColumn("changed_by_id", nil).Error
}

func (r *gdprRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&entities.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
