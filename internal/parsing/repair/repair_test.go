package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pill/recipes-etl/internal/domain"
)

func TestSwapLeadingQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		item string
		amt  string
	}{
		{"1/2 cups beef stock", "beef stock", "1/2"},
		{"4oz pancetta", "pancetta", "4"}, // no space between qty and unit: split apart before re-parsing.
	}
	for _, c := range cases {
		got := SwapLeadingQuantity(domain.RecipeIngredient{Item: c.raw})
		assert.Equal(t, c.item, got.Item)
		assert.Equal(t, c.amt, got.Amount)
	}
}

func TestFilterIngredients(t *testing.T) {
	in := []domain.RecipeIngredient{
		{Item: "flour"},
		{Item: "Preheat the oven"},
		{Item: "to taste"},
		{Item: "sugar"},
	}
	out := FilterIngredients(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "flour", out[0].Item)
	assert.Equal(t, "sugar", out[1].Item)
}

func TestApply_StripsMarkdownAndFilters(t *testing.T) {
	r := &domain.Recipe{
		Title:       "**Chocolate Cake**",
		Description: "so &amp; good",
		Ingredients: []domain.RecipeIngredient{
			{Item: "1/2 cups beef stock"},
			{Item: "Preheat oven"},
		},
		Instructions: domain.StringSlice{"**Step 1** mix well"},
	}
	Apply(r)
	assert.Equal(t, "Chocolate Cake", r.Title)
	assert.Equal(t, "so  good", r.Description)
	assert.Len(t, r.Ingredients, 1)
	assert.Equal(t, "beef stock", r.Ingredients[0].Item)
	assert.Equal(t, "Step 1 mix well", r.Instructions[0])
}
