package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVRowToRecipe(t *testing.T) {
	header := []string{"title", "description", "ingredients", "instructions", "source_url", "source_post_id", "source_author", "source_score"}
	col := columnIndex(header)
	record := []string{
		"Chocolate Chip Cookies",
		"Classic cookies.",
		"flour|2|cup|sifted;sugar|1|cup|",
		"Mix ingredients.;Bake at 350F.",
		"https://example.com/post",
		"abc123",
		"baker99",
		"42",
	}

	r := csvRowToRecipe(record, col)
	require.Equal(t, "Chocolate Chip Cookies", r.Title)
	require.Len(t, r.Ingredients, 2)
	require.Equal(t, "flour", r.Ingredients[0].Item)
	require.Equal(t, "2", r.Ingredients[0].Amount)
	require.Equal(t, "cup", r.Ingredients[0].Unit)
	require.Equal(t, "sifted", r.Ingredients[0].Notes)
	require.Len(t, r.Instructions, 2)
	require.NotNil(t, r.SourceScore)
	require.Equal(t, 42, *r.SourceScore)
}
