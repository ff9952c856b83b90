// Package local implements the pattern-based recipe parser (spec §4.2): no
// network calls, best-effort output, never raises on malformed input.
package local

import (
	"regexp"
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
)

var titlePrefix = regexp.MustCompile(`(?i)^(?:title|recipe)\s*:\s*(.+)$`)
var headingMarkers = regexp.MustCompile(`^#{1,6}\s*`)
var boldMarkers = regexp.MustCompile(`\*\*([^*]+)\*\*`)

var instructionKeywords = []string{"mix", "stir", "cook", "bake", "fry", "boil", "heat", "add", "remove", "serve", "whisk", "combine"}
var ingredientKeywords = []string{"cup", "tablespoon", "teaspoon", "pound", "ounce", "gram", "kg", "ml", "liter", "tbsp", "tsp"}

// Parse extracts a best-effort Recipe from free-form text (spec §4.2).
// It never returns an error; callers validate the result before staging.
func Parse(text string) *domain.Recipe {
	text = strings.TrimSpace(text)
	lines := nonEmptyLines(text)

	r := &domain.Recipe{}
	r.Title = extractTitle(lines)
	r.Instructions = extractInstructions(lines)
	r.Ingredients = extractIngredients(lines)

	if len(r.Ingredients) == 0 {
		r.Ingredients = []domain.RecipeIngredient{{Item: PlaceholderIngredientItem}}
	}
	if len(r.Instructions) == 0 {
		r.Instructions = domain.StringSlice{"See full recipe text for instructions"}
	}

	prep, cook, total := ExtractTiming(text)
	r.PrepMinutes, r.CookMinutes, r.TotalMinutes = prep, cook, total
	r.Servings = ExtractServings(text)
	r.Difficulty = ExtractDifficulty(text)
	r.CuisineType = ExtractCuisine(r.Title + " " + text)
	r.DietaryTags = ExtractDietaryTags(r.Title + " " + text)

	scored := ScoreMealType(r.Title + " " + text)
	if scored != "" {
		r.MealType = scored
	} else if mt, ok := NormalizeMealType(text); ok {
		r.MealType = mt
	}

	return r
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func extractTitle(lines []string) string {
	for _, l := range lines[:min(5, len(lines))] {
		if m := titlePrefix.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, l := range lines[:min(5, len(lines))] {
		if m := boldMarkers.FindStringSubmatch(l); m != nil {
			candidate := strings.TrimSpace(m[1])
			if len(candidate) > 2 {
				return candidate
			}
		}
	}
	for _, l := range lines {
		candidate := headingMarkers.ReplaceAllString(l, "")
		candidate = strings.TrimSpace(candidate)
		if len(candidate) < 3 || len(candidate) > 150 {
			continue
		}
		return candidate
	}
	return "Untitled Recipe"
}

func isIngredientLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range ingredientKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isInstructionLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range instructionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func extractIngredients(lines []string) []domain.RecipeIngredient {
	secs := splitSections(lines)
	candidateLines := secs.ingredients
	if len(candidateLines) == 0 {
		// No explicit section: fall back to scanning every line for
		// ingredient-shaped candidates (spec §4.2 step 2 fallback).
		for _, l := range lines {
			if isIngredientLine(l) && !isInstructionLine(l) {
				candidateLines = append(candidateLines, l)
			}
		}
	}

	split := splitBulletLines(candidateLines)
	out := make([]domain.RecipeIngredient, 0, len(split))
	idx := 0
	for _, raw := range split {
		if IsBadIngredientLine(raw) {
			continue
		}
		ing := ParseIngredientSmart(raw)
		if ing.Item == "" {
			continue
		}
		ing.OrderIndex = idx
		idx++
		out = append(out, ing)
	}
	return out
}

func extractInstructions(lines []string) domain.StringSlice {
	secs := splitSections(lines)
	candidateLines := secs.instructions
	if len(candidateLines) == 0 {
		for _, l := range lines {
			if isInstructionLine(l) {
				candidateLines = append(candidateLines, l)
			}
		}
	}

	split := splitBulletLines(candidateLines)
	out := make(domain.StringSlice, 0, len(split))
	for _, raw := range split {
		if raw == "" {
			continue
		}
		out = append(out, raw)
	}
	return out
}
