package feed

import "testing"

func TestExtractRecipeText_PrefersSelfText(t *testing.T) {
	item := Item{Author: "chef_jane", SelfText: "ingredients: eggs, flour"}
	text, ok := ExtractRecipeText(item)
	if !ok || text != item.SelfText {
		t.Fatalf("want self-text returned, got text=%q ok=%v", text, ok)
	}
}

func TestExtractRecipeText_FallsBackToOPComment(t *testing.T) {
	item := Item{
		Author: "chef_jane",
		Comments: []Comment{
			{Author: "random_user", Body: "looks great!"},
			{Author: "chef_jane", Body: "Ingredients: 2 eggs\nInstructions: whisk"},
		},
	}
	text, ok := ExtractRecipeText(item)
	if !ok {
		t.Fatalf("expected a match from OP comment")
	}
	if text != item.Comments[1].Body {
		t.Fatalf("text mismatch: got %q", text)
	}
}

func TestExtractRecipeText_IgnoresNonOPAndNonRecipeComments(t *testing.T) {
	item := Item{
		Author: "chef_jane",
		Comments: []Comment{
			{Author: "chef_jane", Body: "thanks everyone!"},
			{Author: "random_user", Body: "ingredients: who cares"},
		},
	}
	if _, ok := ExtractRecipeText(item); ok {
		t.Fatalf("expected no match")
	}
}
