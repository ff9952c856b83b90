package activities

import (
	"context"
	"fmt"

	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/store"
)

// SyncBatchInput paginates the store the same way searchindex.SyncAll does
// internally, but as a per-batch activity so the sync_search workflow
// (spec §4.7) can retry one batch without redoing the whole store.
type SyncBatchInput struct {
	Offset    int
	BatchSize int
}

// SyncBatchOutput is one batch's `{success, skipped, failed}` plus whether
// another batch follows.
type SyncBatchOutput struct {
	Success int
	Skipped int
	Failed  int
	HasMore bool
}

// SyncBatch fetches one page of recipes, attaches embeddings (cached or
// freshly generated, best-effort per spec §4.4), and bulk-upserts the page
// into the search index (spec §4.6).
func (a *Activities) SyncBatch(ctx context.Context, in SyncBatchInput) (SyncBatchOutput, error) {
	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	rows, err := a.Store.SearchText(dbctx.Context{Ctx: ctx}, "", store.Filters{}, batchSize, in.Offset)
	if err != nil {
		return SyncBatchOutput{}, fmt.Errorf("activities: stream store batch at offset %d: %w", in.Offset, err)
	}
	if len(rows) == 0 {
		return SyncBatchOutput{}, nil
	}

	if a.Embedder != nil {
		for _, r := range rows {
			if r.HasVector {
				continue
			}
			if embedErr := embedding.EnsureEmbedding(ctx, a.Embedder, r, "", a.Log); embedErr == nil {
				_ = a.Store.Update(dbctx.Context{Ctx: ctx}, r.ID, r)
			}
		}
	}

	report, err := a.Indexer.BulkUpsert(ctx, rows)
	if err != nil {
		return SyncBatchOutput{Failed: len(rows), HasMore: len(rows) == batchSize}, nil
	}
	return SyncBatchOutput{
		Success: report.Success,
		Skipped: report.Skipped,
		Failed:  report.Failed,
		HasMore: len(rows) == batchSize,
	}, nil
}
