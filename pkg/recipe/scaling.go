package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"github.com/shopspring/decimal"
)

// ScaleQuantity returns q * target / original, rounded half-up to the stored
// precision. Multiplying first keeps exact results exact.
func ScaleQuantity(q decimal.Decimal, original, target int) decimal.Decimal {
	if original < 1 {
		original = 1
	}
	return q.Mul(decimal.NewFromInt(int64(target))).
		DivRound(decimal.NewFromInt(int64(original)), domain.QuantityPlaces)
}

// ScaleIngredients never modifies its input.
func ScaleIngredients(ingredients []entities.Ingredient, original, target int) []domain.ScaledIngredient {
	scaled := make([]domain.ScaledIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		scaled = append(scaled, domain.ScaledIngredient{
			Name:     ing.Name,
			Quantity: ScaleQuantity(ing.Quantity, original, target),
			Unit:     ing.Unit,
			Type:     ing.Type,
			Notes:    ing.Notes,
		})
	}
	return scaled
}
