package workflows

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

var mockAny = mock.Anything

func TestProcessBatchSequential_TalliesOutcomes(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.OnActivity(ActivityExtractOne, mockAny, mockAny).Return(
		func(_ interface{}, in activities.ExtractOneInput) (activities.ExtractOneOutput, error) {
			switch in.EntryIndex {
			case 1:
				return activities.ExtractOneOutput{StagedPath: "staged/1.json"}, nil
			case 2:
				return activities.ExtractOneOutput{}, &activities.ValidationError{Reason: "too few valid ingredients"}
			default:
				return activities.ExtractOneOutput{StagedPath: "staged/3.json"}, nil
			}
		},
	)
	env.OnActivity(ActivityLoadOne, mockAny, mockAny).Return(
		func(_ interface{}, path string) (activities.LoadOneOutput, error) {
			if path == "staged/1.json" {
				return activities.LoadOneOutput{PrimaryKey: 1, Identifier: uuid.New()}, nil
			}
			return activities.LoadOneOutput{PrimaryKey: 2, Identifier: uuid.New(), AlreadyExisted: true}, nil
		},
	)

	env.ExecuteWorkflow(ProcessBatchSequential, ProcessBatchSequentialInput{
		CSV: "raw.csv", Start: 1, End: 3, PaceMS: 1,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result BatchResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, 3, result.Attempted)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 1, result.AlreadyExisted)
	require.Equal(t, 1, result.Skipped)
	require.Equal(t, 0, result.Failed)
}
