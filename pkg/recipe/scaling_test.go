package recipe

import (
	"RecipeAPI/entities"
	"RecipeAPI/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestScaleQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		original int
		target   int
		want     string
	}{
		{"double", "200", 4, 8, "400"},
		{"fractional result", "1.5", 4, 6, "2.25"},
		{"repeating decimal rounds down", "1", 3, 1, "0.33"},
		{"repeating decimal rounds up", "2", 3, 1, "0.67"},
		{"half rounds up", "0.01", 2, 1, "0.01"},
		{"zero stays zero", "0", 4, 10, "0"},
		{"same serving size", "123.45", 6, 6, "123.45"},
		{"multiplies before dividing", "0.10", 3, 9, "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleQuantity(testutil.Qty(tt.quantity), tt.original, tt.target)
			assert.True(t, got.Equal(testutil.Qty(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestScaleQuantityLinearity(t *testing.T) {
	for cents := int64(0); cents <= 2000; cents += 7 {
		q := decimal.New(cents, -2)
		for s := 1; s <= 12; s++ {
			assert.True(t, ScaleQuantity(q, s, s).Equal(q), "identity q=%s s=%d", q, s)
			assert.True(t, ScaleQuantity(q, s, 2*s).Equal(q.Mul(decimal.NewFromInt(2))), "double q=%s s=%d", q, s)
		}
	}
}

func TestScaleIngredientsDoesNotMutate(t *testing.T) {
	ingredients := []entities.Ingredient{
		{Name: "Flour", Quantity: testutil.Qty("250"), Unit: "g", Type: "main"},
		{Name: "Salt", Quantity: testutil.Qty("1.5"), Unit: "tsp", Type: "spice", Notes: "fine"},
	}

	scaled := ScaleIngredients(ingredients, 4, 2)

	assert.True(t, scaled[0].Quantity.Equal(testutil.Qty("125")))
	assert.True(t, scaled[1].Quantity.Equal(testutil.Qty("0.75")))
	assert.Equal(t, "tsp", scaled[1].Unit)
	assert.Equal(t, "spice", scaled[1].Type)
	assert.Equal(t, "fine", scaled[1].Notes)

	assert.True(t, ingredients[0].Quantity.Equal(testutil.Qty("250")))
	assert.True(t, ingredients[1].Quantity.Equal(testutil.Qty("1.5")))
}
