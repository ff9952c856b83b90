package activities

import (
	"context"
	"fmt"
)

// ScrapeFeedOnceOutput is `{items_published}`.
type ScrapeFeedOnceOutput struct {
	ItemsPublished int
}

// ScrapeFeedOnce wraps feed.Poller.PollOnce as an activity (spec §4.7).
func (a *Activities) ScrapeFeedOnce(ctx context.Context, sourceID string, limit int) (ScrapeFeedOnceOutput, error) {
	if a.Poller == nil {
		return ScrapeFeedOnceOutput{}, fmt.Errorf("activities: feed poller not configured")
	}
	published, err := a.Poller.PollOnce(ctx, sourceID, limit)
	if err != nil {
		return ScrapeFeedOnceOutput{}, err
	}
	return ScrapeFeedOnceOutput{ItemsPublished: published}, nil
}

// ConsumeBusBatchOutput is `{processed, duplicates, errors}`.
type ConsumeBusBatchOutput struct {
	Processed  int
	Duplicates int
	Errors     int
}

// ConsumeBusBatch wraps bus.Consumer.ConsumeBatch as an activity (spec
// §4.7, §4.9). The consumer's handler was bound at construction time
// (internal/app wires it to the load path), so this activity is a thin
// retriable adapter around one already-configured consumer loop.
func (a *Activities) ConsumeBusBatch(ctx context.Context, maxMessages int) (ConsumeBusBatchOutput, error) {
	if a.Consumer == nil {
		return ConsumeBusBatchOutput{}, fmt.Errorf("activities: bus consumer not configured")
	}
	report, err := a.Consumer.ConsumeBatch(ctx, maxMessages)
	if err != nil {
		return ConsumeBusBatchOutput{}, err
	}
	return ConsumeBusBatchOutput{
		Processed:  report.Processed,
		Duplicates: report.Duplicates,
		Errors:     report.Errors,
	}, nil
}
