package local

import (
	"regexp"
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
)

var firstInteger = regexp.MustCompile(`\d+`)

// NormalizeDifficulty substring-matches free text against the closed
// difficulty set (spec §4.3). ok=false means "absent", not an error.
func NormalizeDifficulty(s string) (domain.Difficulty, bool) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "simple"), strings.Contains(lower, "easy"):
		return domain.DifficultyEasy, true
	case strings.Contains(lower, "moderate"), strings.Contains(lower, "medium"):
		return domain.DifficultyMedium, true
	case strings.Contains(lower, "hard"), strings.Contains(lower, "difficult"):
		return domain.DifficultyHard, true
	default:
		return "", false
	}
}

var mealTypeOrder = []domain.MealType{
	domain.MealTypeBreakfast,
	domain.MealTypeLunch,
	domain.MealTypeDinner,
	domain.MealTypeSnack,
	domain.MealTypeDessert,
}

// NormalizeMealType substring-matches free text against the closed
// meal-type set. When more than one candidate matches (e.g. "Dinner or
// lunch"), the earliest-occurring match in the string wins (spec §8
// property 6: "Dinner or lunch" → meal_type=dinner).
func NormalizeMealType(s string) (domain.MealType, bool) {
	lower := strings.ToLower(s)
	best := -1
	var result domain.MealType
	for _, mt := range mealTypeOrder {
		if idx := strings.Index(lower, string(mt)); idx >= 0 && (best == -1 || idx < best) {
			best = idx
			result = mt
		}
	}
	return result, best >= 0
}

// CoerceInt extracts the first integer substring, per spec §4.3 ("first
// integer in the string wins; otherwise absent").
func CoerceInt(s string) (int, bool) {
	m := firstInteger.FindString(s)
	if m == "" {
		return 0, false
	}
	n := 0
	for _, c := range m {
		n = n*10 + int(c-'0')
	}
	return n, true
}

var markdownArtifacts = regexp.MustCompile(`\*\*|__|\[video\]|\[x200b\]|&amp;`)

// StripMarkdown removes leaked markdown/Reddit artifacts from a string
// field (spec §4.3).
func StripMarkdown(s string) string {
	return strings.TrimSpace(markdownArtifacts.ReplaceAllString(s, ""))
}
