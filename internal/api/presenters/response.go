package presenters

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/utils"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	if statusCode == fiber.StatusNoContent {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the error envelope. Errors carrying a domain kind pick
// their own status; statusCode is used for everything else.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	status := StatusFor(err, statusCode)

	var detail any
	if err != nil {
		detail = err.Error()
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		detail = verr.Fields
	} else if fields := utils.ValidationFields(err); fields != nil {
		status = fiber.StatusBadRequest
		detail = fields
	}

	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s: %v", c.Method(), c.Path(), message, err)
		detail = "internal server error"
	}

	return c.Status(status).JSON(Response{
		Status:  false,
		Message: message,
		Error:   detail,
	})
}

func StatusFor(err error, fallback int) int {
	switch {
	case err == nil:
		return fallback
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fallback
}
