package searchindex

import (
	"context"
	"net/http"
)

const defaultSemanticCandidates = 100

// Query executes a text, semantic, or hybrid search (spec §4.6).
func (c *client) Query(ctx context.Context, q Query) ([]Hit, error) {
	const op = "query"
	if q.Size <= 0 {
		q.Size = 10
	}
	body := c.buildQueryBody(q)

	var raw struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := c.doJSON(ctx, op, http.MethodPost, c.indexPath("/_search"), body, &raw); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(raw.Hits.Hits))
	for _, h := range raw.Hits.Hits {
		hits = append(hits, Hit{Identifier: h.ID, Score: h.Score})
	}
	if c.rerank != nil {
		hits = c.rerank(hits)
	}
	return hits, nil
}

func (c *client) buildQueryBody(q Query) map[string]any {
	body := map[string]any{"from": q.From, "size": q.Size}

	switch q.Mode {
	case QueryModeSemantic:
		body["knn"] = c.knnClause(q)
	case QueryModeHybrid:
		boost := q.HybridVectorBoost
		if boost <= 0 {
			boost = 1.0
		}
		body["query"] = map[string]any{
			"bool": map[string]any{
				"should": []any{c.textClause(q)},
				"filter": c.termFilters(q.Filters),
			},
		}
		knn := c.knnClause(q)
		knn["boost"] = boost
		body["knn"] = knn
	default: // QueryModeText
		body["query"] = map[string]any{
			"bool": map[string]any{
				"must":   []any{c.textClause(q)},
				"filter": c.termFilters(q.Filters),
			},
		}
	}
	return body
}

func (c *client) textClause(q Query) map[string]any {
	return map[string]any{
		"multi_match": map[string]any{
			"query":  q.Text,
			"fields": []string{"title^2", "description", "ingredients.name"},
		},
	}
}

func (c *client) knnClause(q Query) map[string]any {
	k := q.Size
	candidates := k * 10
	if candidates < defaultSemanticCandidates {
		candidates = defaultSemanticCandidates
	}
	return map[string]any{
		"field":          "embedding",
		"query_vector":   q.SemanticVector,
		"k":              k,
		"num_candidates": candidates,
	}
}

func (c *client) termFilters(f QueryFilters) []any {
	var filters []any
	if f.Difficulty != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"difficulty": f.Difficulty}})
	}
	if f.CuisineType != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"cuisine_type": f.CuisineType}})
	}
	if f.MealType != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"meal_type": f.MealType}})
	}
	for _, tag := range f.DietaryTags {
		filters = append(filters, map[string]any{"term": map[string]any{"dietary_tags": tag}})
	}
	if f.MinPrep != nil || f.MaxPrep != nil {
		rng := map[string]any{}
		if f.MinPrep != nil {
			rng["gte"] = *f.MinPrep
		}
		if f.MaxPrep != nil {
			rng["lte"] = *f.MaxPrep
		}
		filters = append(filters, map[string]any{"range": map[string]any{"prep_minutes": rng}})
	}
	return filters
}
