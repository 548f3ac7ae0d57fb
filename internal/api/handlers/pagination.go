package handlers

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/api/presenters"
	"github.com/gofiber/fiber/v2"
)

// pageQuery reads ?page= and ?limit= and clamps them.
func pageQuery(c *fiber.Ctx) (int, int) {
	return domain.NormalizePage(c.QueryInt("page", domain.DefaultPage), c.QueryInt("limit", domain.DefaultLimit))
}

func paginated[T any](c *fiber.Ctx, results []T, page, limit int, total int64, message string) error {
	return presenters.SuccessResponse(c, domain.NewPaginatedResponse(results, page, limit, total), fiber.StatusOK, message)
}
