package handlers

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/api/presenters"
	"RecipeAPI/internal/middleware"
	"RecipeAPI/pkg/gdpr"
	"github.com/gofiber/fiber/v2"
)

type (
	GDPRHandler interface {
		ExportUserData(c *fiber.Ctx) error
		EraseUserData(c *fiber.Ctx) error
	}

	gdprHandler struct {
		gdprService gdpr.GDPRService
	}
)

func NewGDPRHandler(gdprService gdpr.GDPRService) GDPRHandler {
	return &gdprHandler{
		gdprService: gdprService,
	}
}

func (h *gdprHandler) ExportUserData(c *fiber.Ctx) error {
	res, err := h.gdprService.ExportUserData(c.Context(), middleware.GetPrincipal(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedExportData, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="user-data.json"`)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessExportData)
}

func (h *gdprHandler) EraseUserData(c *fiber.Ctx) error {
	if err := h.gdprService.EraseUserData(c.Context(), middleware.GetPrincipal(c)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedEraseData, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessEraseData)
}
