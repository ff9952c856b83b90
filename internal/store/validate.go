package store

import (
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/parsing/local"
)

// Validate enforces the pre-insert gate from spec §4.5: reject when title
// is empty, when fewer than 2 ingredients survive filtering, or when every
// surviving ingredient is a placeholder.
func Validate(r *domain.Recipe) error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrValidation
	}
	valid := filterValidIngredients(r.Ingredients)
	if len(valid) < 2 {
		return ErrValidation
	}
	allPlaceholder := true
	for _, ing := range valid {
		if ing.Item != local.PlaceholderIngredientItem {
			allPlaceholder = false
			break
		}
	}
	if allPlaceholder {
		return ErrValidation
	}
	return nil
}

func filterValidIngredients(ingredients []domain.RecipeIngredient) []domain.RecipeIngredient {
	out := make([]domain.RecipeIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.Item) == "" {
			continue
		}
		out = append(out, ing)
	}
	return out
}
