/*
reschedule.go - Drag-and-drop rescheduling state machine

PURPOSE:
  Coordinates the pointer gesture that moves a schedule card to another day
  cell. The whole gesture reduces to a single intent, "move entry X to date
  Y", committed through the persistence collaborator and followed by a
  wholesale refresh of the entry collection.

STATE MACHINE:
  Idle -> Dragging    pickup of a schedule card
  Dragging -> Idle    cancel, or drop outside the grid (no request issued)
  Dragging -> Committing   drop on a valid day cell (request issued)
  Committing -> Idle  commit acknowledged (success or failure)

  Exactly one session may be active system-wide. A second pickup while
  dragging or committing is rejected, as is a second drop while committing.

CONSISTENCY:
  The engine NEVER mutates its in-memory collection optimistically. On
  success the refresh collaborator reloads the authoritative collection and
  hands it to the caller; on failure nothing moved, so the card stays where
  it was. Once a commit request is issued it cannot be cancelled; the
  session waits for the acknowledgement.

SEE ALSO:
  - store.go: Committer contract (UpdateScheduleDate + LoadAllSchedules)
  - grid.go: Cells are the drop targets
*/
package schedule

import (
	"context"
	"log"
	"sync"
	"time"
)

// =============================================================================
// DRAG SESSION - Derived, transient, never persisted
// =============================================================================

type DragState int

const (
	StateIdle DragState = iota
	StateDragging
	StateCommitting
)

func (s DragState) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// DragSession is a snapshot of the rescheduler's current gesture.
type DragSession struct {
	State      DragState
	EntryID    EntryID
	SourceDate Date
	TargetDate Date // zero until a drop lands on a cell
}

// Committer is the slice of the Store the rescheduler needs.
type Committer interface {
	UpdateScheduleDate(ctx context.Context, id EntryID, newDate Date) error
	LoadAllSchedules(ctx context.Context) ([]ScheduleEntry, error)
}

// maxSettleDelay bounds the post-drop animation pause so a misconfigured
// delay can never wedge the session in Committing.
const maxSettleDelay = 500 * time.Millisecond

// =============================================================================
// RESCHEDULER
// =============================================================================

// Rescheduler owns the single drag session. onReload receives the refreshed
// authoritative collection after a successful commit; report receives commit
// failures for user notification (defaults to log output).
type Rescheduler struct {
	store    Committer
	onReload func([]ScheduleEntry)
	report   func(error)
	settle   time.Duration

	mu      sync.Mutex
	session DragSession
}

func NewRescheduler(store Committer, onReload func([]ScheduleEntry)) *Rescheduler {
	return &Rescheduler{
		store:    store,
		onReload: onReload,
		report:   func(err error) { log.Printf("reschedule: %v", err) },
	}
}

// SetFailureReporter replaces the default log-based failure reporter.
func (r *Rescheduler) SetFailureReporter(report func(error)) {
	if report != nil {
		r.report = report
	}
}

// SetSettleDelay sets the pause between a committed drop and the idle
// reset, giving a drop animation time to finish. Bounded; purely cosmetic.
func (r *Rescheduler) SetSettleDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if d > maxSettleDelay {
		d = maxSettleDelay
	}
	r.settle = d
}

// Session returns a snapshot of the current gesture.
func (r *Rescheduler) Session() DragSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Pickup starts a drag for one schedule card. Rejected while any session is
// dragging or committing.
func (r *Rescheduler) Pickup(entry ScheduleEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.State != StateIdle {
		return ErrDragInProgress
	}

	r.session = DragSession{
		State:      StateDragging,
		EntryID:    entry.ID,
		SourceDate: entry.WorkDate,
	}
	return nil
}

// Hover reports whether a cell is a valid drop target for the active drag.
// Visual affordance only; it never transitions the session.
func (r *Rescheduler) Hover(date Date) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.State == StateDragging && !date.IsZero()
}

// Cancel abandons the gesture before any request is issued.
func (r *Rescheduler) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.session.State {
	case StateDragging:
		r.session = DragSession{}
		return nil
	case StateCommitting:
		// The request is already on the wire; the session must wait for
		// the acknowledgement.
		return ErrCommitInFlight
	default:
		return ErrNoActiveDrag
	}
}

// Drop lands the card on a target date and commits the move. A zero target
// (outside the grid) abandons the gesture without issuing a request. On
// success the collection is refreshed from the store of record; on failure
// the session resets with nothing mutated and the error is reported.
func (r *Rescheduler) Drop(ctx context.Context, target Date) error {
	r.mu.Lock()
	switch r.session.State {
	case StateIdle:
		r.mu.Unlock()
		return ErrNoActiveDrag
	case StateCommitting:
		r.mu.Unlock()
		return ErrCommitInFlight
	}

	if target.IsZero() {
		r.session = DragSession{}
		r.mu.Unlock()
		return ErrNoDropTarget
	}

	r.session.State = StateCommitting
	r.session.TargetDate = target
	entryID := r.session.EntryID
	r.mu.Unlock()

	err := r.store.UpdateScheduleDate(ctx, entryID, target)
	if err != nil {
		commitErr := &CommitError{EntryID: entryID, TargetDate: target, Err: err}
		r.report(commitErr)
		r.reset()
		return commitErr
	}

	// Refresh only after a successful commit; the visual position updates
	// when the authoritative data arrives, not before.
	entries, err := r.store.LoadAllSchedules(ctx)
	if err != nil {
		r.report(&CommitError{EntryID: entryID, TargetDate: target, Err: err})
		r.reset()
		return err
	}
	if r.onReload != nil {
		r.onReload(entries)
	}

	if r.settle > 0 {
		time.Sleep(r.settle)
	}
	r.reset()
	return nil
}

func (r *Rescheduler) reset() {
	r.mu.Lock()
	r.session = DragSession{}
	r.mu.Unlock()
}
