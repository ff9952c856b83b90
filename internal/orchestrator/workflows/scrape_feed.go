package workflows

import (
	"go.temporal.io/sdk/workflow"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

// ScrapeFeedInput mirrors spec §4.7's `scrape_feed(source_id, limit)`.
type ScrapeFeedInput struct {
	SourceID string
	Limit    int
}

// ScrapeFeedResult is scrape_feed_once's `{items_published}` report.
type ScrapeFeedResult struct {
	ItemsPublished int
}

// ScrapeFeed is a thin wrapper over the scrape_feed_once activity so the
// schedule controller has a workflow type to bind a recurring schedule to
// (spec §4.7 "thin wrapper ... for scheduling", §4.8).
func ScrapeFeed(ctx workflow.Context, in ScrapeFeedInput) (ScrapeFeedResult, error) {
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	var out activities.ScrapeFeedOnceOutput
	if err := workflow.ExecuteActivity(ctx, ActivityScrapeFeedOnce, in.SourceID, in.Limit).Get(ctx, &out); err != nil {
		return ScrapeFeedResult{}, err
	}
	return ScrapeFeedResult{ItemsPublished: out.ItemsPublished}, nil
}
