package store

import "errors"

// ErrValidation signals that a recipe failed the pre-insert validation gate
// (spec §4.5): empty title, fewer than 2 ingredients after filtering, or
// every ingredient row is a placeholder. Callers log and skip; this is
// never retried by the orchestrator (spec §7 error kind 1).
var ErrValidation = errors.New("store: recipe failed validation")

// ErrNotFound is returned by lookups that find no matching row.
var ErrNotFound = errors.New("store: record not found")
