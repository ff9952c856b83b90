// Command recipectl is the operator CLI surface (spec §6): starting
// batch/load/sync workflows, point lookups, and schedule control, grounded
// on poiesic-memorit's cmd/memorit/main.go (urfave/cli/v2, one Command per
// verb, a shared --log-level flag via Before).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.temporal.io/sdk/client"

	"github.com/pill/recipes-etl/internal/app"
	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/orchestrator/schedule"
	"github.com/pill/recipes-etl/internal/orchestrator/workflows"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/searchindex"
	"github.com/pill/recipes-etl/internal/staging"
	"github.com/pill/recipes-etl/internal/store"
)

// Exit codes (spec §6).
const (
	exitSuccess             = 0
	exitUnrecoverable       = 1
	exitValidationFailure   = 2
	exitExternalUnavailable = 3
)

func main() {
	cliApp := &cli.App{
		Name:  "recipectl",
		Usage: "operate the recipe ingestion and enrichment pipeline",
		Commands: []*cli.Command{
			processBatchCommand(),
			loadFolderCommand(),
			syncSearchCommand(),
			reloadRecipeCommand(),
			getByIdentifierCommand(),
			searchCommand(),
			statsCommand(),
			scheduleCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "recipectl:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to spec §6's closed set of exit codes.
// Plain errors (wrapping failures, I/O) are unrecoverable; the two named
// sentinel types carry their own code.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *validationCLIError:
		return exitValidationFailure
	case *externalUnavailableError:
		return exitExternalUnavailable
	default:
		return exitUnrecoverable
	}
}

type validationCLIError struct{ msg string }

func (e *validationCLIError) Error() string { return e.msg }

type externalUnavailableError struct{ msg string }

func (e *externalUnavailableError) Error() string { return e.msg }

func processBatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "process-batch",
		Usage:     "extract and load a contiguous range of entries from a raw CSV",
		ArgsUsage: "<csv> <start> <end>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "model", Usage: "use the model-assisted extractor"},
			&cli.IntFlag{Name: "pace-ms", Usage: "override the default inter-item pace"},
			&cli.IntFlag{Name: "fanout", Usage: "parallel chunk count; 0 runs sequentially", Value: 0},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return &validationCLIError{msg: "process-batch requires <csv> <start> <end>"}
			}
			start, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return &validationCLIError{msg: "start must be an integer"}
			}
			end, err := strconv.Atoi(c.Args().Get(2))
			if err != nil {
				return &validationCLIError{msg: "end must be an integer"}
			}

			a, tc, err := bootstrapTemporal()
			if err != nil {
				return err
			}
			defer a.Close()

			fanout := c.Int("fanout")
			var result workflows.BatchResult
			if fanout > 1 {
				in := workflows.ProcessBatchParallelInput{
					CSV: c.Args().Get(0), Start: start, End: end, Fanout: fanout,
					UseModel: c.Bool("model"), UseAIFlag: c.Bool("model"), PaceMS: c.Int("pace-ms"),
				}
				result, err = runWorkflowSync[workflows.BatchResult](c.Context, tc, workflows.TypeProcessBatchParallel, in)
			} else {
				in := workflows.ProcessBatchSequentialInput{
					CSV: c.Args().Get(0), Start: start, End: end,
					UseModel: c.Bool("model"), UseAIFlag: c.Bool("model"), PaceMS: c.Int("pace-ms"),
				}
				result, err = runWorkflowSync[workflows.BatchResult](c.Context, tc, workflows.TypeProcessBatchSequential, in)
			}
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			printBatchResult(result)
			return nil
		},
	}
}

func loadFolderCommand() *cli.Command {
	return &cli.Command{
		Name:      "load-folder",
		Usage:     "load every staged file under a directory",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "fanout", Usage: "parallel chunk count", Value: 4},
			&cli.IntFlag{Name: "pace-ms", Usage: "override the default inter-item pace"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return &validationCLIError{msg: "load-folder requires <dir>"}
			}
			a, tc, err := bootstrapTemporal()
			if err != nil {
				return err
			}
			defer a.Close()

			paths, err := staging.ListDir(c.Args().Get(0))
			if err != nil {
				return &validationCLIError{msg: err.Error()}
			}

			var result workflows.BatchResult
			in := workflows.LoadFolderInput{Paths: paths, Fanout: c.Int("fanout"), PaceMS: c.Int("pace-ms")}
			result, err = runWorkflowSync[workflows.BatchResult](c.Context, tc, workflows.TypeLoadFolder, in)
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			printBatchResult(result)
			return nil
		},
	}
}

func syncSearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync-search",
		Usage: "sync every store record into the search index",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "recreate-index", Usage: "drop and recreate the index before syncing"},
			&cli.IntFlag{Name: "batch-size", Value: 1000},
		},
		Action: func(c *cli.Context) error {
			a, err := app.New()
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			defer a.Close()

			if c.Bool("recreate-index") {
				if err := a.Index.RecreateIndex(c.Context); err != nil {
					return &externalUnavailableError{msg: err.Error()}
				}
			} else if err := a.Index.EnsureIndex(c.Context); err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}

			if a.Temporal != nil {
				var result workflows.SyncSearchResult
				in := workflows.SyncSearchInput{BatchSize: c.Int("batch-size")}
				result, err = runWorkflowSync[workflows.SyncSearchResult](c.Context, a.Temporal, workflows.TypeSyncSearch, in)
				if err != nil {
					return &externalUnavailableError{msg: err.Error()}
				}
				fmt.Printf("success=%d skipped=%d failed=%d\n", result.Success, result.Skipped, result.Failed)
				return nil
			}

			report, err := searchindex.SyncAll(c.Context, a.Index, a.Store, a.Embedder, c.Int("batch-size"), a.Log)
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			fmt.Printf("success=%d skipped=%d failed=%d\n", report.Success, report.Skipped, report.Failed)
			return nil
		},
	}
}

func reloadRecipeCommand() *cli.Command {
	return &cli.Command{
		Name:      "reload-recipe",
		Usage:     "re-parse a staged file by identifier, load it, and sync it into the search index",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return &validationCLIError{msg: "reload-recipe requires <identifier>"}
			}
			id, err := uuid.Parse(c.Args().Get(0))
			if err != nil {
				return &validationCLIError{msg: "identifier must be a UUID"}
			}

			a, err := app.New()
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			defer a.Close()

			path := fmt.Sprintf("%s/%s.json", a.Cfg.StageDir, id)
			out, err := a.Activities.LoadOne(c.Context, path)
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}

			r, err := a.Store.GetByPrimaryKey(dbctx.Context{Ctx: c.Context}, out.PrimaryKey)
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			if err := embedding.EnsureEmbedding(c.Context, a.Embedder, r, "", a.Log); err == nil {
				_ = a.Store.Update(dbctx.Context{Ctx: c.Context}, r.ID, r)
			}
			if _, err := a.Index.BulkUpsert(c.Context, []*domain.Recipe{r}); err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			fmt.Printf("reloaded identifier=%s already_existed=%v\n", out.Identifier, out.AlreadyExisted)
			return nil
		},
	}
}

func getByIdentifierCommand() *cli.Command {
	return &cli.Command{
		Name:      "get-by-identifier",
		Usage:     "fetch one recipe by identifier",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return &validationCLIError{msg: "get-by-identifier requires <identifier>"}
			}
			id, err := uuid.Parse(c.Args().Get(0))
			if err != nil {
				return &validationCLIError{msg: "identifier must be a UUID"}
			}
			a, err := app.New()
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			defer a.Close()

			r, err := a.Store.GetByIdentifier(dbctx.Context{Ctx: c.Context}, id)
			if err == store.ErrNotFound {
				return &validationCLIError{msg: "no recipe found for identifier " + id.String()}
			}
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			fmt.Printf("%s — %s (%s, %s)\n", r.Identifier, r.Title, r.CuisineType, r.Difficulty)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "run a text search against the search index",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: 10},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return &validationCLIError{msg: "search requires <text>"}
			}
			a, err := app.New()
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			defer a.Close()

			hits, err := a.Index.Query(c.Context, searchindex.Query{
				Text: c.Args().Get(0), Mode: searchindex.QueryModeText, Size: c.Int("size"),
			})
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			for _, h := range hits {
				fmt.Printf("%s\t%.4f\n", h.Identifier, h.Score)
			}
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print store counts and averages by category",
		Action: func(c *cli.Context) error {
			a, err := app.New()
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			defer a.Close()

			st, err := a.Store.Stats(dbctx.Context{Ctx: c.Context})
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			fmt.Printf("total=%d avg_prep_minutes=%.1f avg_cook_minutes=%.1f\n", st.Total, st.AvgPrepMinutes, st.AvgCookMinutes)
			for cuisine, n := range st.ByCuisine {
				fmt.Printf("  cuisine %s: %d\n", cuisine, n)
			}
			for difficulty, n := range st.ByDifficulty {
				fmt.Printf("  difficulty %s: %d\n", difficulty, n)
			}
			for meal, n := range st.ByMealType {
				fmt.Printf("  meal_type %s: %d\n", meal, n)
			}
			return nil
		},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:      "schedule",
		Usage:     "create/pause/unpause/trigger/describe/delete a recurring schedule",
		ArgsUsage: "<create|pause|unpause|trigger|describe|delete> <schedule-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workflow-type", Usage: "workflow type to run (create only)"},
			&cli.DurationFlag{Name: "interval", Usage: "interval between runs (create only)", Value: time.Hour},
			&cli.StringFlag{Name: "task-queue"},
			&cli.IntFlag{Name: "max-backfill", Usage: "bounded number of missed slots to backfill on unpause", Value: 0},
			&cli.StringFlag{Name: "note"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return &validationCLIError{msg: "schedule requires <action> <schedule-id>"}
			}
			action, scheduleID := c.Args().Get(0), c.Args().Get(1)

			a, err := app.New()
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			defer a.Close()
			if a.Schedule == nil {
				return &externalUnavailableError{msg: "TEMPORAL_ADDRESS not set; schedule control requires Temporal"}
			}

			switch action {
			case "create":
				taskQueue := c.String("task-queue")
				if taskQueue == "" {
					taskQueue = a.Cfg.Temporal.TaskQueue
				}
				err = a.Schedule.Create(c.Context, schedule.CreateInput{
					ScheduleID: scheduleID, WorkflowID: scheduleID + "-run",
					WorkflowType: c.String("workflow-type"), TaskQueue: taskQueue,
					Interval: c.Duration("interval"), Overlap: schedule.OverlapSkip,
				})
			case "pause":
				err = a.Schedule.Pause(c.Context, scheduleID, c.String("note"))
			case "unpause":
				err = a.Schedule.Unpause(c.Context, scheduleID, c.String("note"), c.Int("max-backfill"))
			case "trigger":
				err = a.Schedule.TriggerNow(c.Context, scheduleID)
			case "describe":
				var desc schedule.Description
				desc, err = a.Schedule.Describe(c.Context, scheduleID)
				if err == nil {
					fmt.Printf("schedule=%s paused=%v note=%q recent_actions=%d next_runs=%v\n",
						desc.ScheduleID, desc.Paused, desc.Note, desc.RecentActions, desc.NextRuns)
				}
			case "delete":
				err = a.Schedule.Delete(c.Context, scheduleID)
			default:
				return &validationCLIError{msg: "unknown schedule action " + action}
			}
			if err != nil {
				return &externalUnavailableError{msg: err.Error()}
			}
			return nil
		},
	}
}

func printBatchResult(r workflows.BatchResult) {
	fmt.Printf("attempted=%d inserted=%d already_existed=%d failed=%d skipped=%d elapsed=%.2fs\n",
		r.Attempted, r.Inserted, r.AlreadyExisted, r.Failed, r.Skipped, r.ElapsedSeconds)
}

func bootstrapTemporal() (*app.App, client.Client, error) {
	a, err := app.New()
	if err != nil {
		return nil, nil, &externalUnavailableError{msg: err.Error()}
	}
	if a.Temporal == nil {
		a.Close()
		return nil, nil, &externalUnavailableError{msg: "TEMPORAL_ADDRESS not set; this command requires Temporal"}
	}
	return a, a.Temporal, nil
}

// runWorkflowSync starts wfType on the default task queue and blocks for
// its result, the synchronous CLI-facing shape spec §6's commands need.
func runWorkflowSync[T any](ctx context.Context, tc client.Client, wfType string, in any) (T, error) {
	var result T
	opts := client.StartWorkflowOptions{
		ID:        wfType + "-" + uuid.NewString(),
		TaskQueue: "recipes-etl",
	}
	run, err := tc.ExecuteWorkflow(ctx, opts, wfType, in)
	if err != nil {
		return result, fmt.Errorf("start workflow %s: %w", wfType, err)
	}
	if err := run.Get(ctx, &result); err != nil {
		return result, fmt.Errorf("await workflow %s: %w", wfType, err)
	}
	return result, nil
}
