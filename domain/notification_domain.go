package domain

import (
	"github.com/google/uuid"
	"time"
)

const (
	NotificationMessage      = "message"
	NotificationFollow       = "follow"
	NotificationRecipeUpdate = "recipe_update"
	NotificationComment      = "comment"
	NotificationLike         = "like"
	NotificationMention      = "mention"
	NotificationRating       = "rating"
)

var (
	MessageSuccessGetNotifications = "success get notifications"
	MessageSuccessMarkRead         = "notification marked as read"
	MessageSuccessMarkAllRead      = "all notifications marked as read"
	MessageSuccessUnreadCount      = "success get unread notification count"

	MessageFailedGetNotifications = "failed to get notifications"
	MessageFailedMarkRead         = "failed to mark notification as read"
	MessageFailedMarkAllRead      = "failed to mark notifications as read"

	ErrNotificationNotFound = NotFound("notification not found")
)

type (
	// NewNotification is what other services hand to the notifier.
	NewNotification struct {
		UserID      uuid.UUID
		ActorID     *uuid.UUID
		Type        string
		Description string
		ContentType string
		ObjectID    string
	}

	NotificationResponse struct {
		ID               string     `json:"id"`
		ActorID          *string    `json:"actor_id,omitempty"`
		NotificationType string     `json:"notification_type"`
		Description      string     `json:"description"`
		IsRead           bool       `json:"is_read"`
		ReadAt           *time.Time `json:"read_at,omitempty"`
		ContentType      string     `json:"content_type,omitempty"`
		ObjectID         string     `json:"object_id,omitempty"`
		CreatedAt        time.Time  `json:"created_at"`
	}

	MarkAllReadResponse struct {
		Updated int64 `json:"updated"`
	}

	UnreadCountResponse struct {
		UnreadCount int64 `json:"unread_count"`
	}
)
