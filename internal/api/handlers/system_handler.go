package handlers

import (
	"RecipeAPI/internal/api/presenters"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"time"
)

type (
	SystemHandler interface {
		Health(c *fiber.Ctx) error
		Status(c *fiber.Ctx) error
	}

	systemHandler struct {
		db          *gorm.DB
		environment string
		startedAt   time.Time
	}

	StatusResponse struct {
		Database    string  `json:"database"`
		Environment string  `json:"environment,omitempty"`
		Uptime      float64 `json:"uptime_seconds"`
	}
)

func NewSystemHandler(db *gorm.DB, environment string) SystemHandler {
	return &systemHandler{
		db:          db,
		environment: environment,
		startedAt:   time.Now(),
	}
}

func (h *systemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Status reports whether the database answers a ping.
func (h *systemHandler) Status(c *fiber.Ctx) error {
	res := StatusResponse{
		Database:    "ok",
		Environment: h.environment,
		Uptime:      time.Since(h.startedAt).Seconds(),
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		res.Database = "unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(presenters.Response{
			Status:  false,
			Message: "database unavailable",
			Data:    res,
		})
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, "service is running")
}
