package workflows

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

// ProcessBatchSequentialInput mirrors spec §4.7's
// `process_batch_sequential(csv, range, pace_ms)`. Carry threads an
// in-progress tally across a ContinueAsNew boundary so a resumed run's
// final BatchResult still reflects everything processed before it (spec
// §4.7 "Resumability").
type ProcessBatchSequentialInput struct {
	CSV       string
	Start     int
	End       int
	UseModel  bool
	UseAIFlag bool
	PaceMS    int
	Carry     BatchResult
}

// ProcessBatchSequential loops entry_index over [Start, End], calling
// extract_one then load_one for each, interleaving a pacing sleep between
// entries (spec §4.7). A single item's failure never aborts the batch;
// outcomes are tallied and reported at the end (spec §7).
func ProcessBatchSequential(ctx workflow.Context, in ProcessBatchSequentialInput) (BatchResult, error) {
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	pace := paceFor(in.PaceMS, in.UseModel, in.UseAIFlag)
	started := workflow.Now(ctx)

	result := in.Carry
	processed := 0
	for idx := in.Start; idx <= in.End; idx++ {
		result.Attempted++

		var extractOut activities.ExtractOneOutput
		extractErr := workflow.ExecuteActivity(ctx, ActivityExtractOne, activities.ExtractOneInput{
			Source:     in.CSV,
			EntryIndex: idx,
			UseModel:   in.UseModel,
			UseAIFlag:  in.UseAIFlag,
		}).Get(ctx, &extractOut)

		if extractErr != nil {
			tallyFailure(&result, extractErr)
		} else {
			var loadOut activities.LoadOneOutput
			loadErr := workflow.ExecuteActivity(ctx, ActivityLoadOne, extractOut.StagedPath).Get(ctx, &loadOut)
			switch {
			case loadErr != nil:
				tallyFailure(&result, loadErr)
			case loadOut.AlreadyExisted:
				result.AlreadyExisted++
			default:
				result.Inserted++
			}
		}

		processed++
		if idx < in.End {
			if err := workflow.Sleep(ctx, pace); err != nil {
				return finalize(result, started, ctx), err
			}
		}

		if processed >= maxItemsPerRun && idx < in.End {
			next := in
			next.Start = idx + 1
			next.Carry = finalize(result, started, ctx)
			return next.Carry, workflow.NewContinueAsNewError(ctx, ProcessBatchSequential, next)
		}
	}

	return finalize(result, started, ctx), nil
}

func tallyFailure(result *BatchResult, err error) {
	if isValidationError(err) {
		result.Skipped++
		return
	}
	result.Failed++
}

func finalize(result BatchResult, started time.Time, ctx workflow.Context) BatchResult {
	result.ElapsedSeconds += workflow.Now(ctx).Sub(started).Seconds()
	return result
}
