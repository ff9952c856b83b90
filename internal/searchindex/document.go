package searchindex

import (
	"github.com/pill/recipes-etl/internal/domain"
)

// ingredientDoc is the nested ingredients sub-document (spec §4.6).
type ingredientDoc struct {
	Name string `json:"name"`
}

// document is the indexed shape of a recipe. Field names mirror the
// mapping spec §4.6 describes: analyzed title/description/instructions,
// nested ingredients, keyword facets, numeric timings, and a dense vector.
type document struct {
	ID           string          `json:"-"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Ingredients  []ingredientDoc `json:"ingredients,omitempty"`
	Difficulty   string          `json:"difficulty,omitempty"`
	CuisineType  string          `json:"cuisine_type,omitempty"`
	MealType     string          `json:"meal_type,omitempty"`
	DietaryTags  []string        `json:"dietary_tags,omitempty"`
	PrepMinutes  *int            `json:"prep_minutes,omitempty"`
	CookMinutes  *int            `json:"cook_minutes,omitempty"`
	TotalMinutes *int            `json:"total_minutes,omitempty"`
	SourceScore  *int            `json:"source_score,omitempty"`
	Embedding    []float32       `json:"embedding,omitempty"`
}

func toDocument(r *domain.Recipe) document {
	ingredients := make([]ingredientDoc, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Item == "" {
			continue
		}
		ingredients = append(ingredients, ingredientDoc{Name: ing.Item})
	}
	var embedding []float32
	if r.HasVector {
		embedding = r.Embedding.Slice()
	}
	return document{
		ID:           r.Identifier.String(),
		Title:        r.Title,
		Description:  r.Description,
		Instructions: joinInstructions(r.Instructions),
		Ingredients:  ingredients,
		Difficulty:   string(r.Difficulty),
		CuisineType:  r.CuisineType,
		MealType:     string(r.MealType),
		DietaryTags:  []string(r.DietaryTags),
		PrepMinutes:  r.PrepMinutes,
		CookMinutes:  r.CookMinutes,
		TotalMinutes: r.TotalMinutes,
		SourceScore:  r.SourceScore,
		Embedding:    embedding,
	}
}

func joinInstructions(steps domain.StringSlice) string {
	out := ""
	for i, s := range steps {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
