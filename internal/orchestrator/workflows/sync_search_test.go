package workflows

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

func TestSyncSearch_LoopsUntilNoMoreBatches(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	calls := 0
	env.OnActivity(ActivitySyncBatch, mockAny, mockAny).Return(
		func(_ interface{}, in activities.SyncBatchInput) (activities.SyncBatchOutput, error) {
			calls++
			if in.Offset == 0 {
				return activities.SyncBatchOutput{Success: 2, HasMore: true}, nil
			}
			return activities.SyncBatchOutput{Success: 1, Skipped: 1, HasMore: false}, nil
		},
	)

	env.ExecuteWorkflow(SyncSearch, SyncSearchInput{BatchSize: 2})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result SyncSearchResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, 2, calls)
	require.Equal(t, 3, result.Success)
	require.Equal(t, 1, result.Skipped)
	require.Equal(t, 0, result.Failed)
}

func TestScrapeFeed_WrapsActivity(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.OnActivity(ActivityScrapeFeedOnce, mockAny, "recipes", 25).Return(
		activities.ScrapeFeedOnceOutput{ItemsPublished: 7}, nil,
	)

	env.ExecuteWorkflow(ScrapeFeed, ScrapeFeedInput{SourceID: "recipes", Limit: 25})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result ScrapeFeedResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, 7, result.ItemsPublished)
}
