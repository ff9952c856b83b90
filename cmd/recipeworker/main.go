// Command recipeworker runs a Temporal worker polling the recipes-etl task
// queue, registering every workflow and activity spec §4.7 names. Grounded
// on the teacher's internal/temporalx/temporalworker.Runner: a worker
// constructed once, registered with explicit names, started with a
// bounded retry loop rather than failing hard on first dial attempt.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/pill/recipes-etl/internal/app"
	"github.com/pill/recipes-etl/internal/orchestrator/workflows"
	"github.com/pill/recipes-etl/internal/temporalx"
	"github.com/pill/recipes-etl/internal/utils"
)

func main() {
	a, err := app.New()
	if err != nil {
		println("recipeworker: " + err.Error())
		os.Exit(1)
	}
	defer a.Close()

	if a.Temporal == nil {
		a.Log.Fatal("TEMPORAL_ADDRESS not set; recipeworker requires a Temporal connection")
	}

	cfg := temporalx.LoadConfig()
	concurrency := utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, a.Log)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(a.Temporal, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	registerWorkflows(w)
	registerActivities(w, a)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := w.Start(); err != nil {
		a.Log.Fatal("failed to start Temporal worker", "error", err)
	}
	a.Log.Info("recipeworker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "concurrency", concurrency)

	<-ctx.Done()
	w.Stop()
	a.Log.Info("recipeworker stopped")
}

func registerWorkflows(w worker.Worker) {
	w.RegisterWorkflowWithOptions(workflows.ProcessBatchSequential, workflow.RegisterOptions{Name: workflows.TypeProcessBatchSequential})
	w.RegisterWorkflowWithOptions(workflows.ProcessBatchParallel, workflow.RegisterOptions{Name: workflows.TypeProcessBatchParallel})
	w.RegisterWorkflowWithOptions(workflows.LoadFolder, workflow.RegisterOptions{Name: workflows.TypeLoadFolder})
	w.RegisterWorkflowWithOptions(workflows.LoadFolderChunk, workflow.RegisterOptions{Name: workflows.TypeLoadFolderChunk})
	w.RegisterWorkflowWithOptions(workflows.SyncSearch, workflow.RegisterOptions{Name: workflows.TypeSyncSearch})
	w.RegisterWorkflowWithOptions(workflows.ScrapeFeed, workflow.RegisterOptions{Name: workflows.TypeScrapeFeed})
}

func registerActivities(w worker.Worker, a *app.App) {
	acts := a.Activities
	w.RegisterActivityWithOptions(acts.ExtractOne, activity.RegisterOptions{Name: workflows.ActivityExtractOne})
	w.RegisterActivityWithOptions(acts.LoadOne, activity.RegisterOptions{Name: workflows.ActivityLoadOne})
	w.RegisterActivityWithOptions(acts.SyncOne, activity.RegisterOptions{Name: workflows.ActivitySyncOne})
	w.RegisterActivityWithOptions(acts.EmbedOne, activity.RegisterOptions{Name: workflows.ActivityEmbedOne})
	w.RegisterActivityWithOptions(acts.ScrapeFeedOnce, activity.RegisterOptions{Name: workflows.ActivityScrapeFeedOnce})
	w.RegisterActivityWithOptions(acts.ConsumeBusBatch, activity.RegisterOptions{Name: workflows.ActivityConsumeBusBatch})
	w.RegisterActivityWithOptions(acts.SyncBatch, activity.RegisterOptions{Name: workflows.ActivitySyncBatch})
}
