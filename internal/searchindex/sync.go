package searchindex

import (
	"context"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/pkg/logger"
	"github.com/pill/recipes-etl/internal/store"
)

// SyncAll streams rows from the store in batches, attaches an embedding
// (reusing the stored one when present, generating one otherwise), and
// bulk-upserts each batch. Sync never deletes (spec §4.6); administrative
// tooling handles compaction. A nil gen skips embedding generation for
// rows that lack one.
func SyncAll(ctx context.Context, idx Indexer, st store.Store, gen embedding.Generator, batchSize int, log *logger.Logger) (SyncReport, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	dbc := dbctx.Context{Ctx: ctx}

	var total SyncReport
	offset := 0
	for {
		rows, err := st.SearchText(dbc, "", store.Filters{}, batchSize, offset)
		if err != nil {
			return total, err
		}
		if len(rows) == 0 {
			break
		}

		if gen != nil {
			attachEmbeddings(ctx, gen, rows, log)
		}

		report, err := idx.BulkUpsert(ctx, rows)
		if err != nil {
			total.Failed += len(rows)
			if log != nil {
				log.Error("bulk upsert batch failed", "offset", offset, "batch_size", len(rows), "error", err)
			}
		} else {
			total.Success += report.Success
			total.Failed += report.Failed
			total.Skipped += report.Skipped
		}

		if len(rows) < batchSize {
			break
		}
		offset += batchSize
	}
	return total, nil
}

func attachEmbeddings(ctx context.Context, gen embedding.Generator, rows []*domain.Recipe, log *logger.Logger) {
	for _, r := range rows {
		if r.HasVector {
			continue
		}
		if err := embedding.EnsureEmbedding(ctx, gen, r, "", log); err != nil && log != nil {
			log.Warn("sync_all: embedding unavailable for recipe, indexing without vector", "identifier", r.Identifier.String())
		}
	}
}
