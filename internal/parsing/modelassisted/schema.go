package modelassisted

import (
	"encoding/json"
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/parsing/local"
	"github.com/pill/recipes-etl/internal/parsing/repair"
)

// rawRecipe is the lenient schema spec §4.3 requires: numeric fields accept
// either a JSON number or a string, unknown enum values are permitted (and
// normalized downstream), and missing fields default to empty/absent.
type rawRecipe struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Ingredients  []rawIngredient `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	PrepMinutes  json.RawMessage `json:"prep_minutes"`
	CookMinutes  json.RawMessage `json:"cook_minutes"`
	TotalMinutes json.RawMessage `json:"total_minutes"`
	Servings     json.RawMessage `json:"servings"`
	Difficulty   string          `json:"difficulty"`
	CuisineType  string          `json:"cuisine_type"`
	MealType     string          `json:"meal_type"`
	DietaryTags  []string        `json:"dietary_tags"`
}

type rawIngredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Notes  string `json:"notes"`
}

// parseRawRecipe decodes the model's JSON response against the lenient
// schema. A schema failure here is what triggers the single re-prompt in
// Extract.
func parseRawRecipe(text string) (rawRecipe, error) {
	var raw rawRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return rawRecipe{}, err
	}
	return raw, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// toRecipe converts the lenient raw shape into a domain.Recipe, applying the
// same enum/numeric coercion the local parser applies at extraction time
// (spec §4.3): first-integer-wins for numeric fields, substring match for
// enums, absent on no match.
func toRecipe(raw rawRecipe) *domain.Recipe {
	r := &domain.Recipe{
		Title:       raw.Title,
		Description: raw.Description,
	}
	for i, ing := range raw.Ingredients {
		r.Ingredients = append(r.Ingredients, domain.RecipeIngredient{
			Item:       ing.Item,
			Amount:     ing.Amount,
			Unit:       ing.Unit,
			Notes:      ing.Notes,
			OrderIndex: i,
		})
	}
	r.Instructions = domain.StringSlice(raw.Instructions)

	r.PrepMinutes = coerceLenientInt(raw.PrepMinutes)
	r.CookMinutes = coerceLenientInt(raw.CookMinutes)
	r.TotalMinutes = coerceLenientInt(raw.TotalMinutes)
	if servings := coerceLenientInt(raw.Servings); servings != nil {
		v := float64(*servings)
		r.Servings = &v
	}

	if d, ok := local.NormalizeDifficulty(raw.Difficulty); ok {
		r.Difficulty = d
	}
	r.CuisineType = local.ExtractCuisine(raw.CuisineType + " " + raw.Title)
	if mt, ok := local.NormalizeMealType(raw.MealType); ok {
		r.MealType = mt
	}
	r.DietaryTags = domain.StringSlice(raw.DietaryTags)
	return r
}

// coerceLenientInt accepts a raw JSON number or string and extracts its
// first integer, matching repair.CoerceInt's "30-45 minutes" -> 30 rule.
func coerceLenientInt(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := repair.CoerceInt(s); ok {
			return &v
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		v := int(f)
		return &v
	}
	return nil
}
