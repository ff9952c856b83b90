package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/searchindex"
)

// SyncOneOutput is `{success, skipped}`.
type SyncOneOutput struct {
	Success bool
	Skipped bool
}

// SyncOne upserts a single recipe into the search index. A
// searchindex.ErrRejected (backpressure from the index) is reported as
// skipped rather than failed, matching spec §5's "callers must back off on
// rejections". The activity returns without error in that case, so the
// workflow engine does not retry it; the recipe is left for a later sync.
func (a *Activities) SyncOne(ctx context.Context, primaryKey uint) (SyncOneOutput, error) {
	r, err := a.Store.GetByPrimaryKey(dbctx.Context{Ctx: ctx}, primaryKey)
	if err != nil {
		return SyncOneOutput{}, fmt.Errorf("activities: load recipe %d: %w", primaryKey, err)
	}

	if !r.HasVector && a.Embedder != nil {
		if embedErr := embedding.EnsureEmbedding(ctx, a.Embedder, r, "", a.Log); embedErr == nil {
			_ = a.Store.Update(dbctx.Context{Ctx: ctx}, primaryKey, r)
		}
	}

	report, err := a.Indexer.BulkUpsert(ctx, []*domain.Recipe{r})
	if errors.Is(err, searchindex.ErrRejected) {
		return SyncOneOutput{Skipped: true}, nil
	}
	if err != nil {
		return SyncOneOutput{}, err
	}
	return SyncOneOutput{Success: report.Success == 1}, nil
}

// EmbedOneOutput is `{success}`.
type EmbedOneOutput struct {
	Success bool
}

// EmbedOne generates and persists an embedding for a recipe, reusing the
// cached one when present (spec §4.4). Embedding failures are best-effort:
// a false Success is not itself an activity error, matching "a record
// without an embedding is valid" (spec §4.4 "Failure").
func (a *Activities) EmbedOne(ctx context.Context, primaryKey uint) (EmbedOneOutput, error) {
	r, err := a.Store.GetByPrimaryKey(dbctx.Context{Ctx: ctx}, primaryKey)
	if err != nil {
		return EmbedOneOutput{}, fmt.Errorf("activities: load recipe %d: %w", primaryKey, err)
	}
	if r.HasVector {
		return EmbedOneOutput{Success: true}, nil
	}
	if a.Embedder == nil {
		return EmbedOneOutput{Success: false}, nil
	}
	if err := embedding.EnsureEmbedding(ctx, a.Embedder, r, "", a.Log); err != nil {
		return EmbedOneOutput{Success: false}, nil
	}
	if err := a.Store.Update(dbctx.Context{Ctx: ctx}, primaryKey, r); err != nil {
		return EmbedOneOutput{}, fmt.Errorf("activities: persist embedding for %d: %w", primaryKey, err)
	}
	return EmbedOneOutput{Success: true}, nil
}
