/*
errors.go - Centralized error types for the schedule engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (API layer, stores) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - malformed dates/times/modes, missing viewer (fail fast)
  2. Drag session errors - state machine violations (single-flight)
  3. Commit errors - asynchronous persistence failures (recovered locally)

USAGE:
  if errors.Is(err, schedule.ErrDragInProgress) {
      // another card is already being dragged
  }

SEE ALSO:
  - reschedule.go: Uses the drag session errors
  - store.go: Store implementations return ErrEntryNotFound / ErrEmployeeNotFound
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string cannot be parsed. There
	// is deliberately no default: a wrong calendar is worse than no calendar.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidClockTime is returned when a wall-clock time cannot be parsed.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidViewMode is returned for an unknown visibility mode.
	ErrInvalidViewMode = errors.New("invalid view mode")

	// ErrInvalidEntry is returned when a schedule entry fails validation.
	ErrInvalidEntry = errors.New("invalid schedule entry")

	// ErrInvalidTimeRange is returned when an entry's start is not before its end.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrMissingViewer is returned when a visibility query has no
	// authenticated viewer. The resolver itself returns an empty set instead;
	// this error is for boundaries that require a viewer outright.
	ErrMissingViewer = errors.New("missing viewer")

	// ErrDragInProgress is returned when a second gesture tries to pick up a
	// card while a session is already dragging or committing.
	ErrDragInProgress = errors.New("drag session already in progress")

	// ErrNoActiveDrag is returned for drop/cancel without a prior pickup.
	ErrNoActiveDrag = errors.New("no active drag session")

	// ErrCommitInFlight is returned for a second drop while the first is
	// still committing. Drag sessions are single-flight.
	ErrCommitInFlight = errors.New("commit already in flight")

	// ErrNoDropTarget is returned when a card is dropped outside the grid.
	ErrNoDropTarget = errors.New("no drop target")

	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("schedule entry not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CommitError reports a failed reschedule commit. The drag session has
// already reset to idle and the in-memory collection is untouched; the
// caller surfaces this to the user.
type CommitError struct {
	EntryID    EntryID
	TargetDate Date
	Err        error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("reschedule commit failed: entry %s -> %s: %v", e.EntryID, e.TargetDate, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input or
// a gesture the state machine rejects.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidViewMode) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrMissingViewer) ||
		errors.Is(err, ErrDragInProgress) ||
		errors.Is(err, ErrNoActiveDrag) ||
		errors.Is(err, ErrCommitInFlight) ||
		errors.Is(err, ErrNoDropTarget)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
