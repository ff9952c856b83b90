package feed

import (
	"context"
	"testing"
	"time"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

type fakeSource struct {
	items []Item
	err   error
}

func (f *fakeSource) FetchRecent(context.Context, int) ([]Item, error) {
	return f.items, f.err
}

type fakePublisher struct {
	published []bus.Event
}

func (f *fakePublisher) Publish(_ context.Context, ev bus.Event) error {
	f.published = append(f.published, ev)
	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestPollOnce_PublishesOnlyItemsWithRecipeText(t *testing.T) {
	registry := NewRegistry()
	registry.Register("recipes", &fakeSource{items: []Item{
		{ID: "1", Author: "a", Title: "Soup", SelfText: "ingredients: broth", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Author: "b", Title: "Not a recipe"},
	}})
	pub := &fakePublisher{}
	poller := NewPoller(registry, pub, newTestLogger(t))

	published, err := poller.PollOnce(context.Background(), "recipes", 10)
	if err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if published != 1 {
		t.Fatalf("published: want=1 got=%d", published)
	}
	if len(pub.published) != 1 || pub.published[0].Title != "Soup" {
		t.Fatalf("published events: got %+v", pub.published)
	}
	if pub.published[0].Date != "2026-01-02" {
		t.Fatalf("date: got %q", pub.published[0].Date)
	}
}

func TestPollOnce_UnknownSource(t *testing.T) {
	registry := NewRegistry()
	poller := NewPoller(registry, &fakePublisher{}, newTestLogger(t))

	_, err := poller.PollOnce(context.Background(), "missing", 10)
	if _, ok := err.(*UnknownSourceError); !ok {
		t.Fatalf("want UnknownSourceError, got %v", err)
	}
}

func TestPollMany_AggregatesAcrossSources(t *testing.T) {
	registry := NewRegistry()
	registry.Register("a", &fakeSource{items: []Item{{Author: "x", SelfText: "ingredients: x"}}})
	registry.Register("b", &fakeSource{items: []Item{{Author: "y", SelfText: "ingredients: y"}, {Author: "z", SelfText: "ingredients: z"}}})
	pub := &fakePublisher{}
	poller := NewPoller(registry, pub, newTestLogger(t))

	results, err := poller.PollMany(context.Background(), []string{"a", "b"}, 10, 2)
	if err != nil {
		t.Fatalf("PollMany: %v", err)
	}
	if results["a"] != 1 || results["b"] != 2 {
		t.Fatalf("results: got %+v", results)
	}
}
