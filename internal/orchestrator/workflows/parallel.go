package workflows

import (
	"fmt"

	"go.temporal.io/sdk/workflow"
)

// ProcessBatchParallelInput mirrors spec §4.7's
// `process_batch_parallel(csv, range, fanout)`.
type ProcessBatchParallelInput struct {
	CSV       string
	Start     int
	End       int
	Fanout    int
	UseModel  bool
	UseAIFlag bool
	PaceMS    int
}

type intRange struct{ start, end int }

// partitionRange splits [start, end] into up to fanout contiguous, nearly
// equal chunks. Pure and deterministic — safe to call directly from
// workflow code.
func partitionRange(start, end, fanout int) []intRange {
	if fanout <= 0 {
		fanout = 1
	}
	total := end - start + 1
	if total <= 0 {
		return nil
	}
	if fanout > total {
		fanout = total
	}
	chunk := total / fanout
	rem := total % fanout

	ranges := make([]intRange, 0, fanout)
	cur := start
	for i := 0; i < fanout; i++ {
		size := chunk
		if i < rem {
			size++
		}
		if size <= 0 {
			continue
		}
		ranges = append(ranges, intRange{start: cur, end: cur + size - 1})
		cur += size
	}
	return ranges
}

// ProcessBatchParallel partitions [Start, End] into Fanout chunks, starts
// every chunk as a child workflow concurrently, and awaits all of them.
// One chunk failing does not cancel the others (spec §4.7, §5 "Ordering
// guarantees").
func ProcessBatchParallel(ctx workflow.Context, in ProcessBatchParallelInput) (BatchResult, error) {
	started := workflow.Now(ctx)
	ranges := partitionRange(in.Start, in.End, in.Fanout)
	runID := workflow.GetInfo(ctx).WorkflowExecution.ID

	futures := make([]workflow.ChildWorkflowFuture, len(ranges))
	for i, r := range ranges {
		cctx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: fmt.Sprintf("%s-chunk-%d", runID, i),
		})
		futures[i] = workflow.ExecuteChildWorkflow(cctx, TypeProcessBatchSequential, ProcessBatchSequentialInput{
			CSV:       in.CSV,
			Start:     r.start,
			End:       r.end,
			UseModel:  in.UseModel,
			UseAIFlag: in.UseAIFlag,
			PaceMS:    in.PaceMS,
		})
	}

	var total BatchResult
	logger := workflow.GetLogger(ctx)
	for i, f := range futures {
		var chunkResult BatchResult
		if err := f.Get(ctx, &chunkResult); err != nil {
			logger.Error("process_batch_parallel: chunk failed, continuing with remaining chunks", "chunk", i, "error", err)
			continue
		}
		total = mergeBatchResult(total, chunkResult)
	}
	total.ElapsedSeconds = workflow.Now(ctx).Sub(started).Seconds()
	return total, nil
}
