package local

import (
	"regexp"
	"strings"
)

var ingredientHeading = regexp.MustCompile(`(?i)^\s*#{0,3}\s*\*{0,2}(ingredients?)\*{0,2}\s*:?\s*$`)
var instructionHeading = regexp.MustCompile(`(?i)^\s*#{0,3}\s*\*{0,2}(instructions?|method|directions?|preparation)\*{0,2}\s*:?\s*$`)

var bulletSplit = regexp.MustCompile(`^[-*•・]\s*`)
var numberedSplit = regexp.MustCompile(`^\d+[.)]\s*`)

// sections holds the raw lines belonging to each heading-delimited block of
// free-form recipe text (spec §4.2 step 2).
type sections struct {
	ingredients  []string
	instructions []string
}

// splitSections locates an Ingredients heading and an Instructions/Method
// heading and returns the lines between them. When no headings are found,
// both blocks are empty and the caller falls back to line heuristics.
func splitSections(lines []string) sections {
	var s sections
	state := 0 // 0=before any heading, 1=in ingredients, 2=in instructions
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ingredientHeading.MatchString(trimmed) {
			state = 1
			continue
		}
		if instructionHeading.MatchString(trimmed) {
			state = 2
			continue
		}
		switch state {
		case 1:
			s.ingredients = append(s.ingredients, trimmed)
		case 2:
			s.instructions = append(s.instructions, trimmed)
		}
	}
	return s
}

// splitBulletLines breaks a block of text into candidate lines, splitting
// further on bullet characters when a single source line carries several
// bullets (spec §4.2 step 3).
func splitBulletLines(block []string) []string {
	var out []string
	for _, line := range block {
		parts := strings.Split(line, "\n")
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			part = bulletSplit.ReplaceAllString(part, "")
			part = numberedSplit.ReplaceAllString(part, "")
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
