package feed

import "strings"

// recipeKeywords mirrors reddit_service.py's OP-comment scan: a comment is
// treated as carrying the recipe when its body mentions any of these.
var recipeKeywords = []string{
	"instructions",
	"ingredients",
	"preparation",
	"prep time",
	"cook time",
	"total time",
	"servings",
}

// ExtractRecipeText finds the recipe-bearing text for an item: the item's
// own self-post body if present, otherwise the first comment from the
// original author whose body mentions a recipe keyword (spec §4.9 "the
// originating author's self-post or top-authored comment").
func ExtractRecipeText(item Item) (string, bool) {
	if strings.TrimSpace(item.SelfText) != "" {
		return item.SelfText, true
	}
	for _, c := range item.Comments {
		if c.Author != item.Author {
			continue
		}
		if containsRecipeKeyword(c.Body) {
			return c.Body, true
		}
	}
	return "", false
}

func containsRecipeKeyword(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range recipeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
