// Package feed implements the feed poller (spec §4.9): a generic
// "feed source" abstraction (no Reddit-specific coupling per spec.md),
// grounded in the cadence/extraction semantics of the original
// `reddit_service.py` but expressed against the abstraction spec.md
// defines instead of an asyncpraw-specific shape.
package feed

import (
	"context"
	"time"
)

// Comment is one reply on a feed item, in the shape the original scraper
// inspected when the item itself carried no self-text.
type Comment struct {
	Author string
	Body   string
}

// Item is a raw feed entry, prior to recipe-text extraction.
type Item struct {
	ID          string
	Title       string
	Author      string
	CreatedAt   time.Time
	NumComments int
	SelfText    string
	Comments    []Comment
}

// Source fetches recent items from one feed (spec §4.9's `source_id`).
type Source interface {
	FetchRecent(ctx context.Context, limit int) ([]Item, error)
}

// Registry resolves a configured source by ID, the way `scrape_feed_once`
// and the schedule controller address a named source (spec §4.7/§4.8).
type Registry struct {
	sources map[string]Source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

func (r *Registry) Register(sourceID string, s Source) {
	r.sources[sourceID] = s
}

func (r *Registry) Get(sourceID string) (Source, bool) {
	s, ok := r.sources[sourceID]
	return s, ok
}
