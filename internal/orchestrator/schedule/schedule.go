// Package schedule implements the schedule controller (spec §4.8):
// create/pause/unpause/trigger_now/describe/delete for recurring workflow
// executions, wrapping Temporal's ScheduleClient the way the teacher's
// internal/temporalx wraps the plain workflow client (retry/backoff
// helpers, a thin typed surface over the SDK).
package schedule

import (
	"context"
	"fmt"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// OverlapPolicy is the closed set spec §4.8 names; Skip is the default.
type OverlapPolicy string

const (
	OverlapSkip        OverlapPolicy = "skip"
	OverlapBufferOne   OverlapPolicy = "buffer_one"
	OverlapCancelOther OverlapPolicy = "cancel_other"
	OverlapAllowAll    OverlapPolicy = "allow_all"
)

// CreateInput binds `(workflow_type, input, interval, overlap_policy)`
// (spec §4.8) to a named schedule.
type CreateInput struct {
	ScheduleID   string
	WorkflowID   string
	WorkflowType string
	TaskQueue    string
	Input        any
	Interval     time.Duration
	Overlap      OverlapPolicy
}

// Description reports a schedule's current state for the `describe`
// operation.
type Description struct {
	ScheduleID    string
	Paused        bool
	Note          string
	NextRuns      []time.Time
	RecentActions int
}

// Controller is the `create/pause/unpause/trigger_now/describe/delete`
// surface (spec §4.8), backed by a live Temporal client.
type Controller struct {
	sc  client.ScheduleClient
	log *logger.Logger
}

// New constructs a Controller over an already-dialed Temporal client.
func New(tc client.Client, log *logger.Logger) (*Controller, error) {
	if tc == nil {
		return nil, fmt.Errorf("schedule: temporal client is not configured")
	}
	return &Controller{sc: tc.ScheduleClient(), log: log.With("component", "ScheduleController")}, nil
}

// Create registers a new recurring schedule. Overlap defaults to
// OverlapSkip — "skip if previous still running" (spec §4.8).
func (c *Controller) Create(ctx context.Context, in CreateInput) error {
	if in.Interval <= 0 {
		return fmt.Errorf("schedule: create %s: interval must be positive", in.ScheduleID)
	}
	_, err := c.sc.Create(ctx, client.ScheduleOptions{
		ID: in.ScheduleID,
		Spec: client.ScheduleSpec{
			Intervals: []client.ScheduleIntervalSpec{{Every: in.Interval}},
		},
		Action: &client.ScheduleWorkflowAction{
			ID:        in.WorkflowID,
			Workflow:  in.WorkflowType,
			TaskQueue: in.TaskQueue,
			Args:      []interface{}{in.Input},
		},
		Overlap: toSDKOverlapPolicy(in.Overlap),
	})
	if err != nil {
		return fmt.Errorf("schedule: create %s: %w", in.ScheduleID, err)
	}
	if c.log != nil {
		c.log.Info("Schedule created", "schedule_id", in.ScheduleID, "workflow_type", in.WorkflowType, "interval", in.Interval)
	}
	return nil
}

// Pause stops scheduleID from firing new executions; already-running
// executions are unaffected.
func (c *Controller) Pause(ctx context.Context, scheduleID, note string) error {
	if err := c.sc.GetHandle(ctx, scheduleID).Pause(ctx, client.SchedulePauseOptions{Note: note}); err != nil {
		return fmt.Errorf("schedule: pause %s: %w", scheduleID, err)
	}
	return nil
}

// Unpause resumes scheduleID. maxBackfill bounds how many missed interval
// slots are allowed to execute on resume (spec §4.8 "Backfill is
// allowed... up to a bounded number"); 0 disables backfill entirely.
func (c *Controller) Unpause(ctx context.Context, scheduleID, note string, maxBackfill int) error {
	handle := c.sc.GetHandle(ctx, scheduleID)
	if err := handle.Unpause(ctx, client.ScheduleUnpauseOptions{Note: note}); err != nil {
		return fmt.Errorf("schedule: unpause %s: %w", scheduleID, err)
	}
	if maxBackfill <= 0 {
		return nil
	}

	desc, err := handle.Describe(ctx)
	if err != nil {
		return fmt.Errorf("schedule: describe %s for backfill: %w", scheduleID, err)
	}
	backfill, ok := missedSlotBackfill(desc, maxBackfill)
	if !ok {
		return nil
	}
	if err := handle.Backfill(ctx, client.ScheduleBackfillOptions{Backfill: []client.ScheduleBackfill{backfill}}); err != nil {
		return fmt.Errorf("schedule: backfill %s: %w", scheduleID, err)
	}
	return nil
}

// TriggerNow runs scheduleID's action immediately, outside its regular
// cadence. The triggered run always uses the skip-if-running overlap
// policy, whatever policy the schedule itself was created with.
func (c *Controller) TriggerNow(ctx context.Context, scheduleID string) error {
	if err := c.sc.GetHandle(ctx, scheduleID).Trigger(ctx, client.ScheduleTriggerOptions{Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP}); err != nil {
		return fmt.Errorf("schedule: trigger %s: %w", scheduleID, err)
	}
	return nil
}

// Describe reports scheduleID's pause state, note, upcoming run times, and
// a count of recent actions.
func (c *Controller) Describe(ctx context.Context, scheduleID string) (Description, error) {
	desc, err := c.sc.GetHandle(ctx, scheduleID).Describe(ctx)
	if err != nil {
		return Description{}, fmt.Errorf("schedule: describe %s: %w", scheduleID, err)
	}
	out := Description{ScheduleID: scheduleID}
	if desc.Schedule.State != nil {
		out.Paused = desc.Schedule.State.Paused
		out.Note = desc.Schedule.State.Note
	}
	out.RecentActions = len(desc.Info.RecentActions)
	out.NextRuns = append(out.NextRuns, desc.Info.NextActionTimes...)
	return out, nil
}

// Delete removes scheduleID permanently. Already-started workflow
// executions are unaffected.
func (c *Controller) Delete(ctx context.Context, scheduleID string) error {
	if err := c.sc.GetHandle(ctx, scheduleID).Delete(ctx); err != nil {
		return fmt.Errorf("schedule: delete %s: %w", scheduleID, err)
	}
	return nil
}

func toSDKOverlapPolicy(p OverlapPolicy) enumspb.ScheduleOverlapPolicy {
	switch p {
	case OverlapBufferOne:
		return enumspb.SCHEDULE_OVERLAP_POLICY_BUFFER_ONE
	case OverlapCancelOther:
		return enumspb.SCHEDULE_OVERLAP_POLICY_CANCEL_OTHER
	case OverlapAllowAll:
		return enumspb.SCHEDULE_OVERLAP_POLICY_ALLOW_ALL
	default:
		return enumspb.SCHEDULE_OVERLAP_POLICY_SKIP
	}
}

// missedSlotBackfill computes a bounded backfill window: from the later of
// (now - maxBackfill*interval) or the last recorded action, up to now. A
// zero-width or inverted window means there is nothing to backfill.
func missedSlotBackfill(desc *client.ScheduleDescription, maxBackfill int) (client.ScheduleBackfill, bool) {
	if desc == nil || len(desc.Schedule.Spec.Intervals) == 0 {
		return client.ScheduleBackfill{}, false
	}
	every := desc.Schedule.Spec.Intervals[0].Every
	if every <= 0 {
		return client.ScheduleBackfill{}, false
	}

	now := time.Now().UTC()
	start := now.Add(-time.Duration(maxBackfill) * every)
	if len(desc.Info.RecentActions) > 0 {
		last := desc.Info.RecentActions[len(desc.Info.RecentActions)-1].ScheduleTime
		if last.After(start) {
			start = last
		}
	}
	if !start.Before(now) {
		return client.ScheduleBackfill{}, false
	}
	return client.ScheduleBackfill{Start: start, End: now, Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP}, true
}
