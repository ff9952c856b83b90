package local

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pill/recipes-etl/internal/domain"
)

// KnownUnits is the closed set of recognized measurement tokens (spec
// §4.2 step 4): volumetric, mass, and count units, singular and plural.
var KnownUnits = map[string]bool{
	"cup": true, "cups": true,
	"tbsp": true, "tbsps": true, "tablespoon": true, "tablespoons": true,
	"tsp": true, "tsps": true, "teaspoon": true, "teaspoons": true,
	"ml": true, "l": true, "liter": true, "liters": true, "litre": true, "litres": true,
	"oz": true, "ounce": true, "ounces": true,
	"g": true, "gram": true, "grams": true,
	"kg": true, "kilogram": true, "kilograms": true,
	"lb": true, "lbs": true, "pound": true, "pounds": true,
	"piece": true, "pieces": true,
	"can": true, "cans": true,
	"clove": true, "cloves": true,
	"pinch": true, "pinches": true,
	"dash": true, "dashes": true,
}

var leadingAmount = regexp.MustCompile(`^([\d]+(?:\.\d+)?(?:/\d+)?(?:\s*-\s*[\d]+(?:\.\d+)?(?:/\d+)?)?)\s+(.*)$`)

var flOz = regexp.MustCompile(`(?i)^fl\.?\s*oz\.?\s+(.*)$`)

// ParseIngredientSmart parses a single candidate ingredient line into its
// item/amount/unit/notes components (spec §4.2 step 4). It never returns an
// error; malformed input degrades to the whole line as the item.
func ParseIngredientSmart(raw string) domain.RecipeIngredient {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.RecipeIngredient{}
	}

	var amount, rest string
	if m := leadingAmount.FindStringSubmatch(raw); m != nil {
		amount = strings.TrimSpace(m[1])
		rest = strings.TrimSpace(m[2])
	} else {
		return domain.RecipeIngredient{Item: raw}
	}

	if rest == "" {
		return domain.RecipeIngredient{Amount: amount}
	}

	if m := flOz.FindStringSubmatch(rest); m != nil {
		return domain.RecipeIngredient{
			Item:   strings.TrimSpace(m[1]),
			Amount: amount,
			Unit:   "fl oz",
		}
	}

	fields := strings.Fields(rest)
	first := fields[0]
	remainder := strings.TrimSpace(strings.TrimPrefix(rest, first))
	lowerFirst := strings.ToLower(first)

	switch {
	case KnownUnits[lowerFirst]:
		unit := lowerFirst
		for _, suffix := range []string{"es", "s"} {
			if singular := strings.TrimSuffix(unit, suffix); singular != unit && KnownUnits[singular] {
				unit = singular
				break
			}
		}
		return domain.RecipeIngredient{
			Item:   remainder,
			Amount: amount,
			Unit:   unit,
		}
	case isCapitalized(first):
		// Token after the quantity isn't a known unit and looks like a
		// proper noun: it's the ingredient name, not a unit (fixes
		// "1 Eggplant cut into cubes" -> item=Eggplant, notes=cut into cubes).
		return domain.RecipeIngredient{
			Item:   first,
			Amount: amount,
			Notes:  remainder,
		}
	default:
		return domain.RecipeIngredient{
			Item:   rest,
			Amount: amount,
		}
	}
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsUpper(r)
}
