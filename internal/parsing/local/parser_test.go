package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientSmart(t *testing.T) {
	cases := []struct {
		name string
		in   string
		item string
		amt  string
		unit string
	}{
		{"cup unit", "2 cups flour", "flour", "2", "cup"},
		{"tsp unit", "1/2 tsp salt", "salt", "1/2", "tsp"},
		{"capitalized non-unit", "1 Eggplant cut into cubes", "Eggplant", "1", ""},
		{"fl oz", "8 fl oz heavy cream", "heavy cream", "8", "fl oz"},
		{"no quantity", "salt to taste", "salt to taste", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseIngredientSmart(c.in)
			assert.Equal(t, c.item, got.Item)
			assert.Equal(t, c.amt, got.Amount)
			assert.Equal(t, c.unit, got.Unit)
		})
	}
}

func TestParseIngredientSmart_EggplantNotes(t *testing.T) {
	got := ParseIngredientSmart("1 Eggplant cut into cubes")
	assert.Equal(t, "Eggplant", got.Item)
	assert.Equal(t, "1", got.Amount)
	assert.Equal(t, "cut into cubes", got.Notes)
}

func TestIsBadIngredientLine(t *testing.T) {
	bad := []string{
		"Preheat the oven to 350F",
		"For the filling",
		"to taste",
		"optional",
		"(Serves 2)",
		"After that you should stir everything together really well until combined nicely.",
		"something with **bold** markup",
	}
	for _, line := range bad {
		assert.True(t, IsBadIngredientLine(line), "expected bad: %q", line)
	}

	good := []string{
		"2 cups flour",
		"1/2 tsp salt",
		"1 Eggplant cut into cubes",
	}
	for _, line := range good {
		assert.False(t, IsBadIngredientLine(line), "expected good: %q", line)
	}
}

func TestParse_SectionedRecipe(t *testing.T) {
	text := `Chocolate Chip Cookies

Ingredients:
- 2 cups flour
- 1 cup sugar
- 2 Eggs beaten well

Instructions:
1. Preheat oven to 350F
2. Mix dry ingredients
3. Bake for 12 minutes
`
	r := Parse(text)
	require.Equal(t, "Chocolate Chip Cookies", r.Title)
	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, "flour", r.Ingredients[0].Item)
	assert.Equal(t, "sugar", r.Ingredients[1].Item)
	assert.Equal(t, "Eggs", r.Ingredients[2].Item)
	require.Len(t, r.Instructions, 3)
}

func TestParse_BulletDotCharacter(t *testing.T) {
	text := `Matcha Mousse (Serves 2)

Ingredients:
・200ml heavy cream
・2 tbsp matcha powder
・1/4 cup sugar
・1 tsp vanilla extract

Instructions:
1. Whip the cream until soft peaks form.
2. Fold in the matcha and sugar.
`
	r := Parse(text)
	require.Len(t, r.Ingredients, 4)
	for _, ing := range r.Ingredients {
		assert.NotContains(t, ing.Item, "Serves")
	}
}

func TestParse_NoIngredientsFallsBackToPlaceholder(t *testing.T) {
	r := Parse("Just some prose with no structure at all.")
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, PlaceholderIngredientItem, r.Ingredients[0].Item)
}

func TestScoreMealType_MainCourseOutweighsDessert(t *testing.T) {
	text := "Hunters Gravy with Brats, served with pasta and a sprinkle of chocolate shavings on the side"
	assert.Equal(t, "dinner", string(ScoreMealType(text)))
}
