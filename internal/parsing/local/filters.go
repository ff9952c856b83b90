package local

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CookingVerbs are leading words that mark a line as an instruction rather
// than an ingredient (spec §4.2 step 5). Kept as data, not inlined regexes,
// so the list can be tuned independently of the filter logic (spec §11).
var CookingVerbs = []string{
	"preheat", "bake", "stir", "cook", "fill", "toss", "drain", "sift",
	"coat", "serve", "remove", "combine", "bring to", "deglaze", "warm",
	"heat", "mix", "whisk", "fold", "simmer", "boil", "fry", "saute",
	"sauté", "chop", "dice", "mince", "season", "garnish", "transfer",
	"place", "add", "pour", "cover", "let", "allow", "set aside", "repeat",
}

// SectionHeaderPrefixes mark a candidate line as a section header rather
// than an ingredient (spec §4.2 step 5).
var SectionHeaderPrefixes = []string{
	"for the", "for filling", "for topping", "for garnish", "for serving",
	"preparation", "instructions", "directions", "method",
}

// StandaloneAnnotations mark a candidate line as a bare annotation with no
// ingredient content (spec §4.2 step 5).
var StandaloneAnnotations = []string{
	"to taste", "optional", "as needed",
}

var servesAnnotation = regexp.MustCompile(`(?i)^\(serves\s+\d+\)$`)

// LeakedMarkup substrings indicate markdown/Reddit artifacts that leaked
// into a candidate line (spec §4.2 step 5).
var LeakedMarkup = []string{"**", "&amp;", "[video]", "[x200b]"}

var sentenceActionVerb = regexp.MustCompile(`(?i)\b(mix|stir|cook|bake|fry|boil|heat|add|remove|serve|combine|pour|fold|whisk|simmer)\b`)

// IsBadIngredientLine reports whether a candidate ingredient line should be
// dropped per the spec §4.2 step 5 filter rules.
func IsBadIngredientLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)

	for _, verb := range CookingVerbs {
		if strings.HasPrefix(lower, verb) {
			next, _ := utf8.DecodeRuneInString(lower[len(verb):])
			if len(lower) == len(verb) || !unicode.IsLetter(next) {
				return true
			}
		}
	}
	for _, prefix := range SectionHeaderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, annotation := range StandaloneAnnotations {
		if lower == annotation {
			return true
		}
	}
	if servesAnnotation.MatchString(trimmed) {
		return true
	}
	for _, markup := range LeakedMarkup {
		if strings.Contains(lower, strings.ToLower(markup)) {
			return true
		}
	}
	if len(trimmed) > 200 {
		return true
	}
	if strings.HasSuffix(trimmed, ".") {
		wordCount := len(strings.Fields(trimmed))
		if wordCount >= 6 && sentenceActionVerb.MatchString(lower) {
			return true
		}
	}
	return false
}

// PlaceholderIngredientItem is emitted when no valid ingredient survives
// filtering, to signal low-quality source text (spec §4.2 post-condition).
const PlaceholderIngredientItem = "Ingredients listed in recipe text"
