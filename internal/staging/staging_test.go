package staging

import (
	"path/filepath"
	"testing"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/identity"
)

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		Identifier:   identity.For("Chocolate Chip Cookies", ""),
		Title:        "Chocolate Chip Cookies",
		Ingredients:  []domain.RecipeIngredient{{Item: "flour", OrderIndex: 0}, {Item: "sugar", OrderIndex: 1}},
		Instructions: domain.StringSlice{"Mix", "Bake"},
	}
}

func TestWriteRead_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	r := testRecipe()

	path, err := Write(dir, r)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != r.Identifier.String()+".json" {
		t.Fatalf("unexpected path: %s", path)
	}
	if !Exists(dir, r.Identifier) {
		t.Fatalf("expected Exists to report true after Write")
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Identifier != r.Identifier || got.Title != r.Title {
		t.Fatalf("round-trip mismatch: got %+v", got)
	}
	if len(got.Ingredients) != 2 {
		t.Fatalf("ingredients: got %d", len(got.Ingredients))
	}
}

func TestWrite_IsIdempotentForSameIdentifier(t *testing.T) {
	dir := t.TempDir()
	r := testRecipe()

	first, err := Write(dir, r)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	second, err := Write(dir, r)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if first != second {
		t.Fatalf("expected same path across writes: %s vs %s", first, second)
	}
}

func TestListDir_ReturnsOnlyJSONFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, testRecipe()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	paths, err := ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 staged file, got %d", len(paths))
	}
}
