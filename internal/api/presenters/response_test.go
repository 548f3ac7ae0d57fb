package presenters

import (
	"RecipeAPI/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil keeps fallback", nil, fiber.StatusTeapot},
		{"validation", domain.Validation("title", "required"), fiber.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrRecipeNotFound), fiber.StatusNotFound},
		{"conflict", domain.Conflict("taken"), fiber.StatusConflict},
		{"forbidden", domain.ErrAdminRequired, fiber.StatusForbidden},
		{"unauthorized", domain.ErrTokenNotFound, fiber.StatusUnauthorized},
		{"fiber error", fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge},
		{"unknown", errors.New("boom"), fiber.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err, fiber.StatusTeapot))
		})
	}
}

func TestErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/validation", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed", domain.Validation("title", "this field is required"))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed", errors.New("pq: connection refused"))
	})
	app.Get("/empty", func(c *fiber.Ctx) error {
		return SuccessResponse(c, nil, fiber.StatusNoContent, "deleted")
	})

	decode := func(path string) (int, map[string]any) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body map[string]any
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &body))
		}
		return resp.StatusCode, body
	}

	status, body := decode("/validation")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, map[string]any{"title": "this field is required"}, body["error"])

	status, body = decode("/internal")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"])

	status, body = decode("/empty")
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Nil(t, body)
}
