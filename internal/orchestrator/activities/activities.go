// Package activities implements the six orchestrator activities spec §4.7
// names, each an independently retriable unit wrapping one package's
// functionality. Grounded on the teacher's internal/temporalx/jobrun
// package for shape (a dependency-holding Activities struct, one method per
// operation, typed results rather than map[string]any), though the
// tick-poller control flow itself belongs to workflows, not activities.
package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/feed"
	"github.com/pill/recipes-etl/internal/identity"
	"github.com/pill/recipes-etl/internal/parsing/local"
	"github.com/pill/recipes-etl/internal/parsing/modelassisted"
	"github.com/pill/recipes-etl/internal/parsing/repair"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/pkg/logger"
	"github.com/pill/recipes-etl/internal/searchindex"
	"github.com/pill/recipes-etl/internal/staging"
	"github.com/pill/recipes-etl/internal/store"
)

// Activities bundles every dependency the six activities need, constructed
// once per worker process and registered with the Temporal worker (spec
// §4.7), the same shape as jobrun.Activities.
type Activities struct {
	Log       *logger.Logger
	Store     store.Store
	Indexer   searchindex.Indexer
	Embedder  embedding.Generator
	Extractor *modelassisted.Extractor // nil when EXTRACTION_MODEL_* is unconfigured; UseModel then always falls back to local
	StageDir  string
	Poller    *feed.Poller
	Consumer  *bus.Consumer
}

// ExtractOneInput mirrors spec §4.7's `extract_one(source, entry_index,
// use_model, use_ai_flag)`. UseModel requests model-assisted extraction for
// this entry; UseAIFlag is the workflow-level feature toggle a caller
// passes down from its own input (mirroring the original implementation's
// `use_ai` workflow parameter) — both must be true, and Extractor must be
// configured, for the model path to run.
type ExtractOneInput struct {
	Source     string
	EntryIndex int
	UseModel   bool
	UseAIFlag  bool
}

// ExtractOneOutput is `{staged_path}`.
type ExtractOneOutput struct {
	StagedPath string
}

// ExtractOne reads one row from a raw-text CSV, extracts a Recipe from its
// text (model-assisted or local depending on the input flags), repairs and
// identifies it, and stages it to disk. Idempotent: if a file for the
// resulting identifier already exists, it returns that path as a no-op
// (spec §4.7 "Idempotency").
func (a *Activities) ExtractOne(ctx context.Context, in ExtractOneInput) (ExtractOneOutput, error) {
	entry, err := readRawEntry(in.Source, in.EntryIndex)
	if err != nil {
		return ExtractOneOutput{}, err
	}
	if entry.Text == "" {
		return ExtractOneOutput{}, &ValidationError{Reason: "no recipe text found in entry"}
	}

	var r *domain.Recipe
	if in.UseModel && in.UseAIFlag && a.Extractor != nil {
		r = a.Extractor.ExtractOrFallback(ctx, entry.Text)
	} else {
		r = local.Parse(entry.Text)
		repair.Apply(r)
	}
	if entry.Title != "" {
		r.Title = entry.Title
	}
	r.SourceURL = entry.SourceURL
	r.SourcePostID = entry.SourcePostID
	r.SourceAuthor = entry.Author
	r.SourceScore = entry.SourceScore
	if entry.NumComments > 0 {
		n := entry.NumComments
		r.SourceCommentCount = &n
	}
	r.Identifier = identity.For(r.Title, entry.SourcePostID)

	if staging.Exists(a.StageDir, r.Identifier) {
		return ExtractOneOutput{StagedPath: staging.Path(a.StageDir, r.Identifier)}, nil
	}
	path, err := staging.Write(a.StageDir, r)
	if err != nil {
		return ExtractOneOutput{}, fmt.Errorf("activities: stage recipe: %w", err)
	}
	return ExtractOneOutput{StagedPath: path}, nil
}

// LoadOneOutput is `{primary_key, already_existed, identifier}`.
type LoadOneOutput struct {
	PrimaryKey     uint
	AlreadyExisted bool
	Identifier     uuid.UUID
}

// LoadOne reads a staged file and runs it through the store's dedup/insert
// path. Safe to retry: dedup absorbs duplicates (spec §4.7 "Idempotency").
func (a *Activities) LoadOne(ctx context.Context, stagedPath string) (LoadOneOutput, error) {
	r, err := staging.Read(stagedPath)
	if err != nil {
		return LoadOneOutput{}, fmt.Errorf("activities: read staged file: %w", err)
	}
	result, err := a.Store.Create(dbctx.Context{Ctx: ctx}, r)
	if err == store.ErrValidation {
		return LoadOneOutput{}, &ValidationError{Reason: "recipe failed store validation"}
	}
	if err != nil {
		return LoadOneOutput{}, err
	}
	return LoadOneOutput{
		PrimaryKey:     result.PrimaryKey,
		AlreadyExisted: result.AlreadyExisted,
		Identifier:     result.Identifier,
	}, nil
}
