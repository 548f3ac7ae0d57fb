package social

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type (
	SocialRepository interface {
		GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)

		// Follow inserts the pair unless it already exists and reports whether
		// a row was written.
		Follow(ctx context.Context, followerID, followingID uuid.UUID) (*entities.Follow, bool, error)
		Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
		ListFollowers(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.User, int64, error)
		ListFollowing(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.User, int64, error)

		AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*entities.Favorite, bool, error)
		RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
		ListFavorites(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.Favorite, int64, error)

		CreateMessage(ctx context.Context, message *entities.Message) error
		GetMessage(ctx context.Context, id uuid.UUID) (*entities.Message, error)
		ListMessages(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.Message, int64, error)
		MarkMessageRead(ctx context.Context, message *entities.Message, at time.Time) error
	}

	socialRepository struct {
		db *gorm.DB
	}
)

func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func (r *socialRepository) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *socialRepository) GetRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *socialRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*entities.Follow, bool, error) {
	follow := &entities.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return follow, true, nil
	}

	var existing entities.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *socialRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&entities.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

// listFollowUsers pages through the users on one side of the follows table,
// where match is the column holding userID and pick is the column to return.
func (r *socialRepository) listFollowUsers(ctx context.Context, match, pick string, userID uuid.UUID, page, limit int) ([]entities.User, int64, error) {
	var users []entities.User
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN follows ON follows."+pick+" = users.id").
			Where("follows."+match+" = ?", userID)
	}

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Scopes(scope).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *socialRepository) ListFollowers(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.User, int64, error) {
	return r.listFollowUsers(ctx, "following_id", "follower_id", userID, page, limit)
}

func (r *socialRepository) ListFollowing(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.User, int64, error) {
	return r.listFollowUsers(ctx, "follower_id", "following_id", userID, page, limit)
}

func (r *socialRepository) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*entities.Favorite, bool, error) {
	favorite := &entities.Favorite{UserID: userID, RecipeID: recipeID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favorite)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return favorite, true, nil
	}

	var existing entities.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *socialRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// ListFavorites returns the user's favorites whose recipe they can still
// see: public ones and their own.
func (r *socialRepository) ListFavorites(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.Favorite, int64, error) {
	var favorites []entities.Favorite
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN recipes ON recipes.id = favorites.recipe_id").
			Where("favorites.user_id = ? AND (recipes.visibility = ? OR recipes.author_id = ?)",
				userID, domain.VisibilityPublic, userID)
	}

	if err := r.db.WithContext(ctx).Model(&entities.Favorite{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Recipe.Author").
		Order("favorites.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&favorites).Error; err != nil {
		return nil, 0, err
	}
	return favorites, count, nil
}

func (r *socialRepository) CreateMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (r *socialRepository) GetMessage(ctx context.Context, id uuid.UUID) (*entities.Message, error) {
	var message entities.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("id = ?", id).
		First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// ListMessages pages through the inbox and outbox of a user together, newest first.
func (r *socialRepository) ListMessages(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.Message, int64, error) {
	var messages []entities.Message
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}

	if err := r.db.WithContext(ctx).Model(&entities.Message{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, count, nil
}

func (r *socialRepository) MarkMessageRead(ctx context.Context, message *entities.Message, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(message).
		Omit(clause.Associations).
		UpdateColumns(map[string]any{"is_read": true, "read_at": at}).Error
}
