package handlers

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/api/presenters"
	"RecipeAPI/internal/middleware"
	"RecipeAPI/pkg/notification"
	"github.com/gofiber/fiber/v2"
)

type (
	NotificationHandler interface {
		GetNotifications(c *fiber.Ctx) error
		MarkAsRead(c *fiber.Ctx) error
		MarkAllAsRead(c *fiber.Ctx) error
		UnreadCount(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
	}
)

func NewNotificationHandler(notificationService notification.NotificationService) NotificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
	}
}

func (h *notificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID := middleware.GetPrincipal(c).UserID.String()
	page, limit := pageQuery(c)

	res, count, err := h.notificationService.GetNotifications(c.Context(), userID, c.QueryBool("unread_only", false), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNotifications, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetNotifications)
}

func (h *notificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID := middleware.GetPrincipal(c).UserID.String()

	res, err := h.notificationService.MarkAsRead(c.Context(), userID, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkRead, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMarkRead)
}

func (h *notificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID := middleware.GetPrincipal(c).UserID.String()

	updated, err := h.notificationService.MarkAllAsRead(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkAllRead, err)
	}

	return presenters.SuccessResponse(c, domain.MarkAllReadResponse{Updated: updated}, fiber.StatusOK, domain.MessageSuccessMarkAllRead)
}

func (h *notificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetPrincipal(c).UserID.String()

	count, err := h.notificationService.UnreadCount(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNotifications, err)
	}

	return presenters.SuccessResponse(c, domain.UnreadCountResponse{UnreadCount: count}, fiber.StatusOK, domain.MessageSuccessUnreadCount)
}
