package user

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"strings"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByLogin(ctx context.Context, login string) (*entities.User, error)
		UsernameExists(ctx context.Context, username string) (bool, error)
		EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
		UpdateUser(ctx context.Context, user *entities.User, columns ...string) error
		GetProfileCounts(ctx context.Context, userID uuid.UUID, publicOnly bool) (ProfileCounts, error)
		IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	}

	ProfileCounts struct {
		Recipes   int64
		Followers int64
		Following int64
		Favorites int64
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin finds a user by exact username or case-insensitive e-mail.
func (r *userRepository) GetUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User, columns ...string) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select(append(columns, "updated_at")).
		Updates(user).Error
}

func (r *userRepository) GetProfileCounts(ctx context.Context, userID uuid.UUID, publicOnly bool) (ProfileCounts, error) {
	var counts ProfileCounts

	recipes := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("author_id = ?", userID)
	if publicOnly {
		recipes = recipes.Where("visibility = ?", domain.VisibilityPublic)
	}
	if err := recipes.Count(&counts.Recipes).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("following_id = ?", userID).Count(&counts.Followers).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("follower_id = ?", userID).Count(&counts.Following).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).Model(&entities.Favorite{}).
		Where("user_id = ?", userID).Count(&counts.Favorites).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}
