// Package repair implements the deterministic post-processing pass shared
// by the local and model-assisted parsers (spec §4.3): field-swap repair,
// bad-ingredient filtering, enum normalization, numeric coercion, and
// markdown stripping. Both parsers route their raw output through here
// before a recipe is staged. The enum/numeric normalization primitives
// live in internal/parsing/local since the local parser needs them too
// (spec §4.2 step 7); this package reuses them rather than duplicating.
package repair

import (
	"regexp"
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/parsing/local"
)

var leadingQuantity = regexp.MustCompile(`^([\d]+(?:\.\d+)?(?:/\d+)?(?:\s*-\s*[\d]+(?:\.\d+)?(?:/\d+)?)?\s*[a-zA-Z]*)\s+(.+)$`)

// gluedUnit finds a quantity written flush against its unit ("4oz ...") so a
// space can be inserted before re-parsing.
var gluedUnit = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:/\d+)?)([a-zA-Z]+\s)`)

// SwapLeadingQuantity re-splits an ingredient whose item field begins with
// a quantity (e.g. model output that put "1/2 cups beef stock" verbatim
// into item), producing the canonical item/amount split.
func SwapLeadingQuantity(ing domain.RecipeIngredient) domain.RecipeIngredient {
	if ing.Amount != "" {
		return ing
	}
	if leadingQuantity.FindStringSubmatch(strings.TrimSpace(ing.Item)) == nil {
		return ing
	}
	reparsed := local.ParseIngredientSmart(gluedUnit.ReplaceAllString(strings.TrimSpace(ing.Item), "${1} ${2}"))
	if reparsed.Item == "" {
		return ing
	}
	reparsed.Notes = ing.Notes
	return reparsed
}

// FilterIngredients drops every row the §4.2 bad-ingredient filter rejects,
// reusing the same word lists local parsing uses.
func FilterIngredients(ingredients []domain.RecipeIngredient) []domain.RecipeIngredient {
	out := make([]domain.RecipeIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if local.IsBadIngredientLine(ing.Item) {
			continue
		}
		out = append(out, ing)
	}
	return out
}

// StripMarkdown removes leaked markdown/Reddit artifacts from a string field.
func StripMarkdown(s string) string { return local.StripMarkdown(s) }

// NormalizeDifficulty substring-matches free text against the closed
// difficulty set (spec §4.3).
func NormalizeDifficulty(s string) (domain.Difficulty, bool) { return local.NormalizeDifficulty(s) }

// NormalizeMealType substring-matches free text against the closed
// meal-type set (spec §4.3).
func NormalizeMealType(s string) (domain.MealType, bool) { return local.NormalizeMealType(s) }

// CoerceInt extracts the first integer substring (spec §4.3).
func CoerceInt(s string) (int, bool) { return local.CoerceInt(s) }

// Apply runs the full repair pass over a recipe produced by either parser:
// field-swap, bad-ingredient filtering, and markdown stripping on title and
// description. Enum/numeric fields are normalized by the caller at the
// point they're extracted from raw text (local parser) or raw model output
// (model-assisted parser), since each has a different raw shape to coerce
// from; this function only handles the shape both sides already share.
func Apply(r *domain.Recipe) {
	r.Title = StripMarkdown(r.Title)
	r.Description = StripMarkdown(r.Description)

	repaired := make([]domain.RecipeIngredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ing = SwapLeadingQuantity(ing)
		ing.Item = StripMarkdown(strings.TrimSpace(ing.Item))
		ing.Notes = StripMarkdown(strings.TrimSpace(ing.Notes))
		repaired = append(repaired, ing)
	}
	r.Ingredients = FilterIngredients(repaired)

	for i, instr := range r.Instructions {
		r.Instructions[i] = StripMarkdown(instr)
	}
}
