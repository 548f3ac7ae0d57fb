package notification

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/metrics"
	"RecipeAPI/internal/utils/mailing"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"html"
	"time"
)

type (
	// Notifier is the narrow side other services depend on.
	Notifier interface {
		Notify(ctx context.Context, n domain.NewNotification) error
	}

	NotificationService interface {
		Notifier
		GetNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.NotificationResponse, int64, error)
		MarkAsRead(ctx context.Context, userID string, notificationID string) (domain.NotificationResponse, error)
		MarkAllAsRead(ctx context.Context, userID string) (int64, error)
		UnreadCount(ctx context.Context, userID string) (int64, error)
	}

	notificationService struct {
		notificationRepository NotificationRepository
		mailer                 mailing.Mailer
	}
)

// NewNotificationService builds the service. mailer may be nil, in which case
// notifications are only stored.
func NewNotificationService(notificationRepository NotificationRepository, mailer mailing.Mailer) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		mailer:                 mailer,
	}
}

// Notify stores a notification and, when SMTP is configured, mails it in the
// background. Users are never notified about their own actions.
func (s *notificationService) Notify(ctx context.Context, n domain.NewNotification) error {
	if n.ActorID != nil && *n.ActorID == n.UserID {
		return nil
	}

	notification := &entities.Notification{
		UserID:           n.UserID,
		ActorID:          n.ActorID,
		NotificationType: n.Type,
		Description:      n.Description,
		ContentType:      n.ContentType,
		ObjectID:         n.ObjectID,
	}
	if err := s.notificationRepository.CreateNotification(ctx, notification); err != nil {
		metrics.NotificationsFailed.WithLabelValues("store").Inc()
		return fmt.Errorf("store notification: %w", err)
	}

	if s.mailer == nil || !s.mailer.Enabled() {
		return nil
	}
	email, err := s.notificationRepository.GetUserEmail(ctx, n.UserID)
	if err != nil || email == "" {
		return nil
	}
	go func(to, description string) {
		body := fmt.Sprintf("<p>%s</p>", html.EscapeString(description))
		if err := s.mailer.SendMail(to, "New notification", body); err != nil {
			metrics.NotificationsFailed.WithLabelValues("mail").Inc()
			log.Warnf("failed to mail notification to %s: %v", to, err)
		}
	}(email, n.Description)
	return nil
}

func ToNotificationResponse(n *entities.Notification) domain.NotificationResponse {
	res := domain.NotificationResponse{
		ID:               n.ID.String(),
		NotificationType: n.NotificationType,
		Description:      n.Description,
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		ContentType:      n.ContentType,
		ObjectID:         n.ObjectID,
		CreatedAt:        n.CreatedAt,
	}
	if n.ActorID != nil {
		actor := n.ActorID.String()
		res.ActorID = &actor
	}
	return res
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.NotificationResponse, int64, error) {
	uid, err := domain.ParseID("user_id", userID)
	if err != nil {
		return nil, 0, err
	}

	notifications, count, err := s.notificationRepository.GetNotifications(ctx, uid, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		response = append(response, ToNotificationResponse(&notifications[i]))
	}
	return response, count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID string) (domain.NotificationResponse, error) {
	uid, err := domain.ParseID("user_id", userID)
	if err != nil {
		return domain.NotificationResponse{}, err
	}
	id, err := domain.ParseID("id", notificationID)
	if err != nil {
		return domain.NotificationResponse{}, err
	}

	notification, err := s.notificationRepository.GetNotification(ctx, uid, id)
	if err != nil {
		return domain.NotificationResponse{}, err
	}
	if !notification.IsRead {
		now := time.Now()
		if err := s.notificationRepository.MarkAsRead(ctx, notification, now); err != nil {
			return domain.NotificationResponse{}, err
		}
		notification.IsRead = true
		notification.ReadAt = &now
	}
	return ToNotificationResponse(notification), nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	uid, err := domain.ParseID("user_id", userID)
	if err != nil {
		return 0, err
	}
	return s.notificationRepository.MarkAllAsRead(ctx, uid, time.Now())
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	uid, err := domain.ParseID("user_id", userID)
	if err != nil {
		return 0, err
	}
	return s.notificationRepository.CountUnread(ctx, uid)
}
