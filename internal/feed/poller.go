package feed

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// Publisher is the subset of bus.Producer the poller needs, kept as an
// interface so it can be exercised without a live Redis connection.
type Publisher interface {
	Publish(ctx context.Context, ev bus.Event) error
}

// Poller reads recent items from feed sources and publishes normalized
// events onto the bus (spec §4.9).
type Poller struct {
	registry  *Registry
	publisher Publisher
	log       *logger.Logger
}

func NewPoller(registry *Registry, publisher Publisher, log *logger.Logger) *Poller {
	return &Poller{registry: registry, publisher: publisher, log: log.With("component", "FeedPoller")}
}

// PollOnce fetches up to limit recent items from sourceID, extracts
// recipe-bearing text from each, and publishes one event per item that has
// one. Matches the `scrape_feed_once(source_id, limit) → {items_published}`
// activity contract (spec §4.7).
func (p *Poller) PollOnce(ctx context.Context, sourceID string, limit int) (int, error) {
	source, ok := p.registry.Get(sourceID)
	if !ok {
		return 0, &UnknownSourceError{SourceID: sourceID}
	}

	items, err := source.FetchRecent(ctx, limit)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, item := range items {
		text, ok := ExtractRecipeText(item)
		if !ok {
			continue
		}
		ev := bus.Event{
			Date:        item.CreatedAt.Format("2006-01-02"),
			Title:       item.Title,
			Author:      item.Author,
			NumComments: item.NumComments,
			Text:        text,
			CharCount:   len(text),
		}
		if err := p.publisher.Publish(ctx, ev); err != nil {
			if p.log != nil {
				p.log.Error("feed: publish failed", "source", sourceID, "item_id", item.ID, "error", err)
			}
			continue
		}
		published++
	}
	return published, nil
}

// PollMany runs PollOnce across several sources concurrently, bounded by
// maxConcurrent, the way the teacher bounds fan-out with
// errgroup.SetLimit rather than an unbounded goroutine-per-item loop.
func (p *Poller) PollMany(ctx context.Context, sourceIDs []string, limit, maxConcurrent int) (map[string]int, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	var mu sync.Mutex
	results := make(map[string]int, len(sourceIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, id := range sourceIDs {
		id := id
		g.Go(func() error {
			published, err := p.PollOnce(gctx, id, limit)
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = published
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// UnknownSourceError reports a scrape request for a source_id that was
// never registered.
type UnknownSourceError struct {
	SourceID string
}

func (e *UnknownSourceError) Error() string {
	return "feed: unknown source_id " + e.SourceID
}
