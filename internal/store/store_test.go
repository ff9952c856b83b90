package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/identity"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/store/storetest"
)

func newRecipe(title, sourceHint string) *domain.Recipe {
	r := &domain.Recipe{
		Title: title,
		Ingredients: []domain.RecipeIngredient{
			{Item: "flour", Amount: "2", Unit: "cup", OrderIndex: 0},
			{Item: "sugar", Amount: "1", Unit: "cup", OrderIndex: 1},
		},
		Instructions: domain.StringSlice{"Mix and bake."},
	}
	r.Identifier = identity.For(title, sourceHint)
	return r
}

func TestStore_CreateIsIdempotentByIdentifier(t *testing.T) {
	db := storetest.DB(t)
	tx := storetest.Tx(t, db)
	st := New(tx, storetest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	r := newRecipe("Chocolate Chip Cookies", "reddit:abc")
	first, err := st.Create(dbc, r)
	require.NoError(t, err)
	require.False(t, first.AlreadyExisted)

	second, err := st.Create(dbc, newRecipe("Chocolate Chip Cookies", "reddit:abc"))
	require.NoError(t, err)
	require.True(t, second.AlreadyExisted)
	require.Equal(t, first.PrimaryKey, second.PrimaryKey)
}

func TestStore_DedupByTitleWithEmptySourceHint(t *testing.T) {
	db := storetest.DB(t)
	tx := storetest.Tx(t, db)
	st := New(tx, storetest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	first, err := st.Create(dbc, newRecipe("Grandma's Apple Pie", ""))
	require.NoError(t, err)
	require.False(t, first.AlreadyExisted)

	r2 := newRecipe("  grandma's   apple pie ", "")
	r2.Ingredients = []domain.RecipeIngredient{
		{Item: "apples", Amount: "6"},
		{Item: "cinnamon", Amount: "1", Unit: "tsp"},
	}
	second, err := st.Create(dbc, r2)
	require.NoError(t, err)
	require.True(t, second.AlreadyExisted)
	require.Equal(t, first.PrimaryKey, second.PrimaryKey)
}

func TestStore_ValidationRejectsTooFewIngredients(t *testing.T) {
	db := storetest.DB(t)
	tx := storetest.Tx(t, db)
	st := New(tx, storetest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	r := newRecipe("Too Sparse", "reddit:sparse")
	r.Ingredients = []domain.RecipeIngredient{{Item: "salt"}}

	_, err := st.Create(dbc, r)
	require.ErrorIs(t, err, ErrValidation)
}

func TestStore_GetByIdentifierRoundTripsIngredients(t *testing.T) {
	db := storetest.DB(t)
	tx := storetest.Tx(t, db)
	st := New(tx, storetest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	r := newRecipe("Eggplant Parmesan", "reddit:egg")
	_, err := st.Create(dbc, r)
	require.NoError(t, err)

	fetched, err := st.GetByIdentifier(dbc, r.Identifier)
	require.NoError(t, err)
	require.Len(t, fetched.Ingredients, 2)
	require.Equal(t, "flour", fetched.Ingredients[0].Item)
	require.Equal(t, "cup", fetched.Ingredients[0].Unit)
}

func TestStore_Stats(t *testing.T) {
	db := storetest.DB(t)
	tx := storetest.Tx(t, db)
	st := New(tx, storetest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	r := newRecipe("Stats Fixture Recipe", "reddit:stats")
	r.CuisineType = "Italian"
	r.Difficulty = domain.DifficultyEasy
	_, err := st.Create(dbc, r)
	require.NoError(t, err)

	stats, err := st.Stats(dbc)
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.Total, int64(1))
	require.GreaterOrEqual(t, stats.ByCuisine["Italian"], int64(1))
}
