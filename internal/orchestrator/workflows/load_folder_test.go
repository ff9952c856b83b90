package workflows

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/pill/recipes-etl/internal/orchestrator/activities"
)

func TestLoadFolderChunk_TalliesOutcomes(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterActivityWithOptions(new(activities.Activities).LoadOne, activity.RegisterOptions{Name: ActivityLoadOne})
	env.OnActivity(ActivityLoadOne, mockAny, mockAny).Return(
		func(_ interface{}, path string) (activities.LoadOneOutput, error) {
			if path == "staged/dup.json" {
				return activities.LoadOneOutput{PrimaryKey: 1, AlreadyExisted: true}, nil
			}
			return activities.LoadOneOutput{PrimaryKey: 2}, nil
		},
	)

	env.ExecuteWorkflow(LoadFolderChunk, LoadFolderChunkInput{
		Paths: []string{"staged/a.json", "staged/dup.json"}, PaceMS: 1,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result BatchResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, 2, result.Attempted)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 1, result.AlreadyExisted)
}
