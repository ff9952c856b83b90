package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/identity"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// CSVSummary mirrors the per-item outcome counters the CLI reports (spec §7).
type CSVSummary struct {
	Attempted      int
	Inserted       int
	AlreadyExisted int
	Failed         int
	Skipped        int
}

// LoadCSV accepts a flat CSV dump as an alternative to the staged-JSON
// ingestion edge (spec §11, grounded on the original `load_to_db.py`'s
// dual JSON-directory/CSV-dump input support). Expected columns: title,
// description, ingredients (semicolon-separated "item|amount|unit|notes"),
// instructions (semicolon-separated), source_url, source_post_id,
// source_author.
func LoadCSV(dbc dbctx.Context, st Store, r io.Reader, log *logger.Logger) (CSVSummary, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return CSVSummary{}, fmt.Errorf("store: read csv header: %w", err)
	}
	col := columnIndex(header)

	var summary CSVSummary
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("store: read csv row: %w", err)
		}
		summary.Attempted++

		recipe := csvRowToRecipe(record, col)
		recipe.Identifier = identity.For(recipe.Title, recipe.SourcePostID)

		result, err := st.Create(dbc, recipe)
		switch {
		case err == ErrValidation:
			summary.Skipped++
			if log != nil {
				log.Warn("csv row skipped: validation failure", "title", recipe.Title)
			}
		case err != nil:
			summary.Failed++
			if log != nil {
				log.Error("csv row failed", "title", recipe.Title, "error", err)
			}
		case result.AlreadyExisted:
			summary.AlreadyExisted++
		default:
			summary.Inserted++
		}
	}
	return summary, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func csvRowToRecipe(record []string, col map[string]int) *domain.Recipe {
	r := &domain.Recipe{
		Title:        field(record, col, "title"),
		Description:  field(record, col, "description"),
		SourceURL:    field(record, col, "source_url"),
		SourcePostID: field(record, col, "source_post_id"),
		SourceAuthor: field(record, col, "source_author"),
	}
	for i, part := range splitNonEmpty(field(record, col, "ingredients"), ";") {
		pieces := strings.Split(part, "|")
		ing := domain.RecipeIngredient{OrderIndex: i}
		if len(pieces) > 0 {
			ing.Item = strings.TrimSpace(pieces[0])
		}
		if len(pieces) > 1 {
			ing.Amount = strings.TrimSpace(pieces[1])
		}
		if len(pieces) > 2 {
			ing.Unit = strings.TrimSpace(pieces[2])
		}
		if len(pieces) > 3 {
			ing.Notes = strings.TrimSpace(pieces[3])
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	r.Instructions = domain.StringSlice(splitNonEmpty(field(record, col, "instructions"), ";"))

	if v := field(record, col, "source_score"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.SourceScore = &n
		}
	}
	return r
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
