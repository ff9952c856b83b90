package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/parsing/local"
)

func TestValidate_RejectsEmptyTitle(t *testing.T) {
	r := &domain.Recipe{Ingredients: []domain.RecipeIngredient{{Item: "a"}, {Item: "b"}}}
	assert.ErrorIs(t, Validate(r), ErrValidation)
}

func TestValidate_RejectsTooFewIngredients(t *testing.T) {
	r := &domain.Recipe{Title: "x", Ingredients: []domain.RecipeIngredient{{Item: "a"}}}
	assert.ErrorIs(t, Validate(r), ErrValidation)
}

func TestValidate_RejectsAllPlaceholders(t *testing.T) {
	r := &domain.Recipe{
		Title: "x",
		Ingredients: []domain.RecipeIngredient{
			{Item: local.PlaceholderIngredientItem},
			{Item: local.PlaceholderIngredientItem},
		},
	}
	assert.ErrorIs(t, Validate(r), ErrValidation)
}

func TestValidate_AcceptsWellFormedRecipe(t *testing.T) {
	r := &domain.Recipe{
		Title: "x",
		Ingredients: []domain.RecipeIngredient{
			{Item: "flour"},
			{Item: "sugar"},
		},
	}
	assert.NoError(t, Validate(r))
}
