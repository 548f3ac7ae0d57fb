package notification

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	NotificationRepository interface {
		CreateNotification(ctx context.Context, notification *entities.Notification) error
		GetNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]entities.Notification, int64, error)
		GetNotification(ctx context.Context, userID, id uuid.UUID) (*entities.Notification, error)
		MarkAsRead(ctx context.Context, notification *entities.Notification, at time.Time) error
		MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
		CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
		GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error)
	}

	notificationRepository struct {
		db *gorm.DB
	}
)

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]entities.Notification, int64, error) {
	var notifications []entities.Notification
	var count int64
	offset := (page - 1) * limit

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if unreadOnly {
			db = db.Where("is_read = ?", false)
		}
		return db
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Scopes(scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, count, nil
}

func (r *notificationRepository) GetNotification(ctx context.Context, userID, id uuid.UUID) (*entities.Notification, error) {
	var notification entities.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, notification *entities.Notification, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(notification).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	var email string
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Pluck("email", &email).Error
	return email, err
}
