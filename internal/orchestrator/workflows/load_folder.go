package workflows

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

// LoadFolderInput mirrors spec §4.7's `load_folder(paths, fanout)` — same
// fan-out shape as process_batch_parallel, but the input is a list of
// already-staged file paths rather than a CSV range.
type LoadFolderInput struct {
	Paths  []string
	Fanout int
	PaceMS int
}

// LoadFolderChunkInput is one fan-out slice of LoadFolder's path list.
type LoadFolderChunkInput struct {
	Paths  []string
	PaceMS int
}

func partitionPaths(paths []string, fanout int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	if fanout <= 0 {
		fanout = 1
	}
	if fanout > len(paths) {
		fanout = len(paths)
	}
	buckets := make([][]string, fanout)
	for i, p := range paths {
		buckets[i%fanout] = append(buckets[i%fanout], p)
	}
	out := make([][]string, 0, fanout)
	for _, b := range buckets {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// LoadFolder partitions Paths into Fanout chunks and runs each chunk as a
// concurrent child workflow; a chunk's failure does not cancel the others
// (spec §4.7, §5).
func LoadFolder(ctx workflow.Context, in LoadFolderInput) (BatchResult, error) {
	started := workflow.Now(ctx)
	chunks := partitionPaths(in.Paths, in.Fanout)
	runID := workflow.GetInfo(ctx).WorkflowExecution.ID

	futures := make([]workflow.ChildWorkflowFuture, len(chunks))
	for i, chunk := range chunks {
		cctx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: fmt.Sprintf("%s-chunk-%d", runID, i),
		})
		futures[i] = workflow.ExecuteChildWorkflow(cctx, TypeLoadFolderChunk, LoadFolderChunkInput{
			Paths:  chunk,
			PaceMS: in.PaceMS,
		})
	}

	var total BatchResult
	logger := workflow.GetLogger(ctx)
	for i, f := range futures {
		var chunkResult BatchResult
		if err := f.Get(ctx, &chunkResult); err != nil {
			logger.Error("load_folder: chunk failed, continuing with remaining chunks", "chunk", i, "error", err)
			continue
		}
		total = mergeBatchResult(total, chunkResult)
	}
	total.ElapsedSeconds = workflow.Now(ctx).Sub(started).Seconds()
	return total, nil
}

// LoadFolderChunk sequentially loads one chunk's staged files, pacing
// between load_one calls the same way ProcessBatchSequential paces
// extract/load pairs.
func LoadFolderChunk(ctx workflow.Context, in LoadFolderChunkInput) (BatchResult, error) {
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	pace := paceFor(in.PaceMS, false, false)
	started := workflow.Now(ctx)

	var result BatchResult
	for i, path := range in.Paths {
		result.Attempted++
		var out activities.LoadOneOutput
		err := workflow.ExecuteActivity(ctx, ActivityLoadOne, path).Get(ctx, &out)
		switch {
		case err != nil:
			tallyFailure(&result, err)
		case out.AlreadyExisted:
			result.AlreadyExisted++
		default:
			result.Inserted++
		}
		if i < len(in.Paths)-1 {
			if err := workflow.Sleep(ctx, pace); err != nil {
				return finalize(result, started, ctx), err
			}
		}
	}
	return finalize(result, started, ctx), nil
}
