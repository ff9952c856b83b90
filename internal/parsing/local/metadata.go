package local

import (
	"regexp"
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
)

var prepTimeRe = regexp.MustCompile(`(?i)prep(?:aration)?\s*time:?\s*([\d\-./\s]+)\s*(minutes?|mins?|hours?|hrs?)?`)
var cookTimeRe = regexp.MustCompile(`(?i)cook(?:ing)?\s*time:?\s*([\d\-./\s]+)\s*(minutes?|mins?|hours?|hrs?)?`)
var totalTimeRe = regexp.MustCompile(`(?i)total\s*time:?\s*([\d\-./\s]+)\s*(minutes?|mins?|hours?|hrs?)?`)
var servingsRe = regexp.MustCompile(`(?i)serv(?:ings|es)?:?\s*([\d\-./\s]+)`)
var difficultyRe = regexp.MustCompile(`(?i)difficulty:?\s*([a-zA-Z]+)`)

func extractMinutes(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, ok := CoerceInt(m[1])
	if !ok {
		return nil
	}
	if strings.Contains(strings.ToLower(m[2]), "hour") || strings.Contains(strings.ToLower(m[2]), "hr") {
		n *= 60
	}
	return &n
}

// ExtractTiming scans free text for prep/cook/total time mentions (spec
// §4.2 step 7).
func ExtractTiming(text string) (prep, cook, total *int) {
	return extractMinutes(prepTimeRe, text), extractMinutes(cookTimeRe, text), extractMinutes(totalTimeRe, text)
}

// ExtractServings scans free text for a servings mention.
func ExtractServings(text string) *float64 {
	m := servingsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, ok := CoerceInt(m[1])
	if !ok {
		return nil
	}
	f := float64(n)
	return &f
}

// ExtractDifficulty scans free text for an explicit difficulty mention and
// normalizes it.
func ExtractDifficulty(text string) domain.Difficulty {
	m := difficultyRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	d, ok := NormalizeDifficulty(m[1])
	if !ok {
		return ""
	}
	return d
}

var cuisineKeywords = map[string]string{
	"italian": "Italian", "mexican": "Mexican", "chinese": "Chinese",
	"indian": "Indian", "thai": "Thai", "japanese": "Japanese",
	"french": "French", "greek": "Greek", "american": "American",
	"korean": "Korean", "vietnamese": "Vietnamese", "mediterranean": "Mediterranean",
	"spanish": "Spanish", "sicilian": "Italian",
}

// ExtractCuisine scans title+text for a cuisine keyword.
func ExtractCuisine(text string) string {
	lower := strings.ToLower(text)
	for keyword, label := range cuisineKeywords {
		if strings.Contains(lower, keyword) {
			return label
		}
	}
	return ""
}

var dietaryKeywords = map[string]string{
	"vegetarian": "vegetarian", "vegan": "vegan", "gluten-free": "gluten-free",
	"gluten free": "gluten-free", "dairy-free": "dairy-free", "dairy free": "dairy-free",
	"nut-free": "nut-free", "nut free": "nut-free", "kosher": "kosher", "halal": "halal",
}

// ExtractDietaryTags scans title+text for explicit dietary-tag keywords.
func ExtractDietaryTags(text string) domain.StringSlice {
	lower := strings.ToLower(text)
	seen := map[string]bool{}
	var tags domain.StringSlice
	for keyword, tag := range dietaryKeywords {
		if strings.Contains(lower, keyword) && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// mealTypeIndicators assigns a weight to keywords per meal type; main-course
// indicators (meat, pasta, rice, noodle, curry, brat, sausage) outweigh
// dessert indicators when both appear in the same text (spec §4.2 step 8).
var mealTypeIndicators = map[domain.MealType]map[string]int{
	domain.MealTypeBreakfast: {"breakfast": 3, "pancake": 2, "waffle": 2, "omelet": 2, "cereal": 1, "oatmeal": 2},
	domain.MealTypeLunch:     {"lunch": 3, "sandwich": 2, "salad": 1, "wrap": 1},
	domain.MealTypeDinner:    {"dinner": 3, "meat": 2, "pasta": 2, "rice": 2, "noodle": 2, "curry": 2, "brat": 2, "sausage": 2, "roast": 2, "entree": 2},
	domain.MealTypeSnack:     {"snack": 3, "appetizer": 2, "dip": 1, "chips": 1},
	domain.MealTypeDessert:   {"dessert": 3, "cake": 2, "cookie": 2, "pie": 2, "mousse": 2, "chocolate": 1, "ice cream": 2, "sweet": 1},
}

// ScoreMealType tallies keyword hits per category and returns the highest
// scoring meal type (spec §4.2 step 8). Dessert hits are discarded when any
// dinner indicator appears; ties go to the earlier type in mealTypeOrder.
// Returns "" when nothing scores.
func ScoreMealType(text string) domain.MealType {
	lower := strings.ToLower(text)
	scores := make(map[domain.MealType]int, len(mealTypeIndicators))
	for mt, keywords := range mealTypeIndicators {
		for kw, weight := range keywords {
			scores[mt] += strings.Count(lower, kw) * weight
		}
	}
	if scores[domain.MealTypeDinner] > 0 {
		scores[domain.MealTypeDessert] = 0
	}
	best := domain.MealType("")
	bestScore := 0
	for _, mt := range mealTypeOrder {
		if scores[mt] > bestScore {
			bestScore = scores[mt]
			best = mt
		}
	}
	return best
}
