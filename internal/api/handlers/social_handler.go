package handlers

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/api/presenters"
	"RecipeAPI/internal/middleware"
	"RecipeAPI/pkg/social"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SocialHandler interface {
		Follow(c *fiber.Ctx) error
		Unfollow(c *fiber.Ctx) error
		GetFollowers(c *fiber.Ctx) error
		GetFollowing(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		GetFavorites(c *fiber.Ctx) error
		SendMessage(c *fiber.Ctx) error
		GetMessages(c *fiber.Ctx) error
		GetMessage(c *fiber.Ctx) error
	}

	socialHandler struct {
		socialService social.SocialService
		validator     *validator.Validate
	}
)

func NewSocialHandler(socialService social.SocialService, validator *validator.Validate) SocialHandler {
	return &socialHandler{
		socialService: socialService,
		validator:     validator,
	}
}

func (h *socialHandler) Follow(c *fiber.Ctx) error {
	res, err := h.socialService.Follow(c.Context(), c.Params("id"), middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFollow, err)
	}

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessFollow)
}

func (h *socialHandler) Unfollow(c *fiber.Ctx) error {
	if err := h.socialService.Unfollow(c.Context(), c.Params("id"), middleware.GetPrincipal(c)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnfollow, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessUnfollow)
}

func (h *socialHandler) GetFollowers(c *fiber.Ctx) error {
	page, limit := pageQuery(c)

	res, count, err := h.socialService.GetFollowers(c.Context(), c.Params("id"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFollowers, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetFollowers)
}

func (h *socialHandler) GetFollowing(c *fiber.Ctx) error {
	page, limit := pageQuery(c)

	res, count, err := h.socialService.GetFollowing(c.Context(), c.Params("id"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFollowing, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetFollowing)
}

func (h *socialHandler) AddFavorite(c *fiber.Ctx) error {
	res, err := h.socialService.AddFavorite(c.Context(), c.Params("id"), middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFavorite, err)
	}

	if !res.Created {
		return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAlreadyFavorite)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessFavorite)
}

func (h *socialHandler) RemoveFavorite(c *fiber.Ctx) error {
	if err := h.socialService.RemoveFavorite(c.Context(), c.Params("id"), middleware.GetPrincipal(c)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnfavorite, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessUnfavorite)
}

func (h *socialHandler) GetFavorites(c *fiber.Ctx) error {
	page, limit := pageQuery(c)

	res, count, err := h.socialService.GetFavorites(c.Context(), middleware.GetPrincipal(c), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFavorites, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetFavorites)
}

func (h *socialHandler) SendMessage(c *fiber.Ctx) error {
	req := new(domain.SendMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
	}

	res, err := h.socialService.SendMessage(c.Context(), c.Params("id"), *req, middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSendMessage)
}

func (h *socialHandler) GetMessages(c *fiber.Ctx) error {
	page, limit := pageQuery(c)

	res, count, err := h.socialService.GetMessages(c.Context(), c.Params("id"), middleware.GetPrincipal(c), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMessages, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetMessages)
}

func (h *socialHandler) GetMessage(c *fiber.Ctx) error {
	res, err := h.socialService.GetMessage(c.Context(), c.Params("id"), c.Params("messageId"), middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMessage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMessage)
}
