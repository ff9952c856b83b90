// Package workflows implements the composable, replayable orchestrations
// spec §4.7 names: sequential and fan-out/fan-in batch processing with
// pacing, retry, and resumability, plus the sync-search and scrape-feed
// wrappers the schedule controller drives. Control flow lives here;
// business logic stays in internal/orchestrator/activities (spec §5
// "Workflow code itself must be deterministic").
package workflows

import (
	"errors"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow and activity type names, registered verbatim by
// cmd/recipeworker and referenced by the schedule controller (spec §4.7,
// §4.8) — kept as the spec's own snake_case operation names rather than Go
// method names so a Temporal UI/CLI user sees the vocabulary spec.md uses.
const (
	TypeProcessBatchSequential = "process_batch_sequential"
	TypeProcessBatchParallel   = "process_batch_parallel"
	TypeLoadFolder             = "load_folder"
	TypeLoadFolderChunk        = "load_folder_chunk"
	TypeSyncSearch             = "sync_search"
	TypeScrapeFeed             = "scrape_feed"

	ActivityExtractOne      = "extract_one"
	ActivityLoadOne         = "load_one"
	ActivitySyncOne         = "sync_one"
	ActivityEmbedOne        = "embed_one"
	ActivityScrapeFeedOnce  = "scrape_feed_once"
	ActivityConsumeBusBatch = "consume_bus_batch"
	ActivitySyncBatch       = "sync_batch"
)

const (
	// DefaultPaceModelMS is the pacing default for model-assisted
	// extraction (spec §4.7): long enough to stay under typical provider
	// rate limits.
	DefaultPaceModelMS = 1200
	// DefaultPaceLocalMS is the pacing default for pattern-based
	// extraction, where parallel fan-out is preferred over long pacing.
	DefaultPaceLocalMS = 50

	defaultActivityTimeout = 10 * time.Minute
	// maxItemsPerRun bounds how many items a single sequential run
	// processes before continuing as new, keeping workflow history bounded
	// for long batches (spec §9 "Coroutine-style control flow").
	maxItemsPerRun = 500
)

// BatchResult is the per-item outcome tally spec §7 requires every batch
// operation to report: `{attempted, inserted, already_existed, failed,
// skipped, elapsed}`.
type BatchResult struct {
	Attempted      int
	Inserted       int
	AlreadyExisted int
	Failed         int
	Skipped        int
	ElapsedSeconds float64
}

func mergeBatchResult(a, b BatchResult) BatchResult {
	return BatchResult{
		Attempted:      a.Attempted + b.Attempted,
		Inserted:       a.Inserted + b.Inserted,
		AlreadyExisted: a.AlreadyExisted + b.AlreadyExisted,
		Failed:         a.Failed + b.Failed,
		Skipped:        a.Skipped + b.Skipped,
		ElapsedSeconds: a.ElapsedSeconds + b.ElapsedSeconds,
	}
}

// defaultRetryPolicy implements spec §4.7's "Retry policy (default)": three
// attempts with exponential backoff 1s/4s/16s, validation failures are
// non-retryable (spec §7 error kind 1).
func defaultRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:        time.Second,
		BackoffCoefficient:     4.0,
		MaximumInterval:        16 * time.Second,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: []string{"ValidationError", "EntryNotFoundError"},
	}
}

func defaultActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: defaultActivityTimeout,
		RetryPolicy:         defaultRetryPolicy(),
	}
}

// isValidationError reports whether err is the non-retryable validation
// kind (spec §7 kind 1), so a batch workflow can count it as "skipped"
// rather than "failed" without importing the activities package's
// concrete error type (which would break workflow-code-only imports).
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		t := appErr.Type()
		return t == "ValidationError" || t == "EntryNotFoundError"
	}
	return strings.Contains(err.Error(), "validation failed") || strings.Contains(err.Error(), "entry not found")
}

func paceFor(paceMS int, useModel, useAIFlag bool) time.Duration {
	if paceMS > 0 {
		return time.Duration(paceMS) * time.Millisecond
	}
	if useModel && useAIFlag {
		return DefaultPaceModelMS * time.Millisecond
	}
	return DefaultPaceLocalMS * time.Millisecond
}
