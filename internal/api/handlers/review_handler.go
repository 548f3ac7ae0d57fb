package handlers

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/api/presenters"
	"RecipeAPI/internal/middleware"
	"RecipeAPI/pkg/review"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReviewHandler interface {
		RateRecipe(c *fiber.Ctx) error
		DeleteRating(c *fiber.Ctx) error
		GetRatings(c *fiber.Ctx) error
		ModerateRating(c *fiber.Ctx) error
		CreateComment(c *fiber.Ctx) error
		GetComments(c *fiber.Ctx) error
		DeleteComment(c *fiber.Ctx) error
		ModerateComment(c *fiber.Ctx) error
	}

	reviewHandler struct {
		reviewService review.ReviewService
		validator     *validator.Validate
	}
)

func NewReviewHandler(reviewService review.ReviewService, validator *validator.Validate) ReviewHandler {
	return &reviewHandler{
		reviewService: reviewService,
		validator:     validator,
	}
}

func (h *reviewHandler) RateRecipe(c *fiber.Ctx) error {
	req := new(domain.RateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateRecipe, err)
	}

	res, err := h.reviewService.RateRecipe(c.Context(), c.Params("id"), *req, middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRateRecipe)
}

func (h *reviewHandler) DeleteRating(c *fiber.Ctx) error {
	res, err := h.reviewService.DeleteRating(c.Context(), c.Params("id"), middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteRating, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessDeleteRating)
}

func (h *reviewHandler) GetRatings(c *fiber.Ctx) error {
	page, limit := pageQuery(c)

	res, count, err := h.reviewService.GetRatings(c.Context(), c.Params("id"), middleware.GetPrincipal(c), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRatings, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetRatings)
}

func (h *reviewHandler) ModerateRating(c *fiber.Ctx) error {
	req := new(domain.ModerateRatingRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedModerateRating, err)
	}

	res, err := h.reviewService.ModerateRating(c.Context(), c.Params("id"), *req, middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedModerateRating, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessModerateRating)
}

func (h *reviewHandler) CreateComment(c *fiber.Ctx) error {
	req := new(domain.CreateCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateComment, err)
	}

	res, err := h.reviewService.CreateComment(c.Context(), c.Params("id"), *req, middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateComment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateComment)
}

func (h *reviewHandler) GetComments(c *fiber.Ctx) error {
	page, limit := pageQuery(c)

	res, count, err := h.reviewService.GetComments(c.Context(), c.Params("id"), middleware.GetPrincipal(c), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetComments, err)
	}

	return paginated(c, res, page, limit, count, domain.MessageSuccessGetComments)
}

func (h *reviewHandler) DeleteComment(c *fiber.Ctx) error {
	err := h.reviewService.DeleteComment(c.Context(), c.Params("id"), c.Params("commentId"), middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteComment, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessDeleteComment)
}

func (h *reviewHandler) ModerateComment(c *fiber.Ctx) error {
	req := new(domain.ModerateCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.reviewService.ModerateComment(c.Context(), c.Params("id"), *req, middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedModerateComment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessModerateComment)
}
