package activities

import "fmt"

// ValidationError is spec §7 error kind 1: never retried by the workflow
// engine. Workflows register this type name in
// RetryPolicy.NonRetryableErrorTypes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("activities: validation failed: %s", e.Reason)
}

// EntryNotFoundError reports an entry_index past the end of the source — a
// recoverable, non-retryable per-item condition rather than a transient I/O
// failure. An entry whose text field is empty is a ValidationError instead.
type EntryNotFoundError struct {
	Source     string
	EntryIndex int
	Reason     string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("activities: entry %d of %s: %s", e.EntryIndex, e.Source, e.Reason)
}
