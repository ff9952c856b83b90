package workflows

import (
	"go.temporal.io/sdk/workflow"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

// SyncSearchInput mirrors spec §4.7's `sync_search(batch_size)`.
type SyncSearchInput struct {
	BatchSize int
}

// SyncSearchResult is sync_all's `{success, skipped, failed}` report
// (spec §4.6), accumulated across every batch.
type SyncSearchResult struct {
	Success int
	Skipped int
	Failed  int
}

// SyncSearch iterates the store in batches, running sync_batch (which
// itself attaches embeddings and bulk-upserts) on each until the store is
// exhausted (spec §4.7). Sync never deletes; it is safe to re-run at any
// time.
func SyncSearch(ctx workflow.Context, in SyncSearchInput) (SyncSearchResult, error) {
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	var total SyncSearchResult
	offset := 0
	for {
		var out activities.SyncBatchOutput
		err := workflow.ExecuteActivity(ctx, ActivitySyncBatch, activities.SyncBatchInput{
			Offset:    offset,
			BatchSize: batchSize,
		}).Get(ctx, &out)
		if err != nil {
			return total, err
		}

		total.Success += out.Success
		total.Skipped += out.Skipped
		total.Failed += out.Failed

		if !out.HasMore {
			return total, nil
		}
		offset += batchSize
	}
}
