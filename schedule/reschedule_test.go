package schedule_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/warp/roster-engine/schedule"
)

// =============================================================================
// FAKE COMMITTER
// =============================================================================

// fakeCommitter implements schedule.Committer with injectable failures and
// an optional gate that holds UpdateScheduleDate open mid-commit.
type fakeCommitter struct {
	mu         sync.Mutex
	entries    map[schedule.EntryID]schedule.ScheduleEntry
	failUpdate error
	failLoad   error
	updates    int
	loads      int

	gate    chan struct{} // when non-nil, Update blocks until closed
	entered chan struct{} // signals that Update has started
}

func newFakeCommitter(entries ...schedule.ScheduleEntry) *fakeCommitter {
	f := &fakeCommitter{entries: make(map[schedule.EntryID]schedule.ScheduleEntry)}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return f
}

func (f *fakeCommitter) UpdateScheduleDate(_ context.Context, id schedule.EntryID, newDate schedule.Date) error {
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.failUpdate != nil {
		return f.failUpdate
	}
	e, ok := f.entries[id]
	if !ok {
		return schedule.ErrEntryNotFound
	}
	e.WorkDate = newDate
	f.entries[id] = e
	return nil
}

func (f *fakeCommitter) LoadAllSchedules(_ context.Context) ([]schedule.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.failLoad != nil {
		return nil, f.failLoad
	}
	result := make([]schedule.ScheduleEntry, 0, len(f.entries))
	for _, e := range f.entries {
		result = append(result, e)
	}
	return result, nil
}

var (
	march5  = schedule.NewDate(2024, time.March, 5)
	march10 = schedule.NewDate(2024, time.March, 10)
)

// =============================================================================
// STATE MACHINE TESTS
// =============================================================================

func TestRescheduler_SuccessfulMove(t *testing.T) {
	// GIVEN: Entry X on 2024-03-05, an idle session
	// WHEN: Pickup, then drop on 2024-03-10
	// THEN: The store moves X, the refreshed collection reaches the caller,
	//       and the session is idle again

	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	store := newFakeCommitter(x)

	var reloaded []schedule.ScheduleEntry
	r := schedule.NewRescheduler(store, func(entries []schedule.ScheduleEntry) { reloaded = entries })

	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if got := r.Session().State; got != schedule.StateDragging {
		t.Fatalf("expected dragging, got %v", got)
	}
	if !r.Hover(march10) {
		t.Error("expected a valid hover target while dragging")
	}

	if err := r.Drop(context.Background(), march10); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	if len(reloaded) != 1 || !reloaded[0].WorkDate.Equal(march10) {
		t.Errorf("expected refreshed collection with X on %s, got %v", march10, reloaded)
	}
	if got := r.Session().State; got != schedule.StateIdle {
		t.Errorf("expected idle after commit, got %v", got)
	}
	if store.updates != 1 || store.loads != 1 {
		t.Errorf("expected 1 update and 1 load, got %d/%d", store.updates, store.loads)
	}
}

func TestRescheduler_FailedCommitLeavesCollectionUntouched(t *testing.T) {
	// GIVEN: Entry X on 2024-03-05; the store rejects the move
	// WHEN: Dropping on 2024-03-10
	// THEN: Session returns to idle, nothing reloaded, X still on 03-05,
	//       and the failure is reported

	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	store := newFakeCommitter(x)
	store.failUpdate = errors.New("store rejected the move")

	var reloaded []schedule.ScheduleEntry
	var reported error
	r := schedule.NewRescheduler(store, func(entries []schedule.ScheduleEntry) { reloaded = entries })
	r.SetFailureReporter(func(err error) { reported = err })

	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	err := r.Drop(context.Background(), march10)

	var commitErr *schedule.CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("expected CommitError, got %v", err)
	}
	if reported == nil {
		t.Error("expected the failure to be reported")
	}
	if reloaded != nil {
		t.Error("no refresh may happen after a failed commit")
	}
	if !store.entries["x"].WorkDate.Equal(march5) {
		t.Errorf("X must remain on %s, got %s", march5, store.entries["x"].WorkDate)
	}
	if got := r.Session().State; got != schedule.StateIdle {
		t.Errorf("expected idle after failed commit, got %v", got)
	}
}

func TestRescheduler_SecondPickupRejected(t *testing.T) {
	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	y := entry("y", "emp-e", march5, 13, 0, 17, 0)
	r := schedule.NewRescheduler(newFakeCommitter(x, y), nil)

	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if err := r.Pickup(y); !errors.Is(err, schedule.ErrDragInProgress) {
		t.Errorf("expected ErrDragInProgress, got %v", err)
	}
}

func TestRescheduler_DropWithoutPickup(t *testing.T) {
	r := schedule.NewRescheduler(newFakeCommitter(), nil)

	if err := r.Drop(context.Background(), march10); !errors.Is(err, schedule.ErrNoActiveDrag) {
		t.Errorf("expected ErrNoActiveDrag, got %v", err)
	}
}

func TestRescheduler_DropOutsideGridAbandonsQuietly(t *testing.T) {
	// GIVEN: An active drag
	// WHEN: Dropping on a zero target (outside the grid)
	// THEN: No request is issued and the session resets

	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	store := newFakeCommitter(x)
	r := schedule.NewRescheduler(store, nil)

	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if err := r.Drop(context.Background(), schedule.Date{}); !errors.Is(err, schedule.ErrNoDropTarget) {
		t.Errorf("expected ErrNoDropTarget, got %v", err)
	}
	if store.updates != 0 {
		t.Errorf("no update may be issued for an invalid target, got %d", store.updates)
	}
	if got := r.Session().State; got != schedule.StateIdle {
		t.Errorf("expected idle, got %v", got)
	}
}

func TestRescheduler_CancelBeforeCommit(t *testing.T) {
	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	store := newFakeCommitter(x)
	r := schedule.NewRescheduler(store, nil)

	if err := r.Cancel(); !errors.Is(err, schedule.ErrNoActiveDrag) {
		t.Errorf("expected ErrNoActiveDrag, got %v", err)
	}

	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if err := r.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if store.updates != 0 {
		t.Error("cancel must not issue a request")
	}
	if r.Hover(march10) {
		t.Error("no hover affordance without an active drag")
	}
}

func TestRescheduler_SingleFlightWhileCommitting(t *testing.T) {
	// GIVEN: A drop whose commit is held open by the store
	// WHEN: A second drop, a pickup, and a cancel arrive mid-commit
	// THEN: All are rejected; the held commit still completes normally

	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	store := newFakeCommitter(x)
	store.gate = make(chan struct{})
	store.entered = make(chan struct{})
	entered := store.entered

	r := schedule.NewRescheduler(store, nil)
	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Drop(context.Background(), march10) }()
	<-entered

	if err := r.Drop(context.Background(), march10); !errors.Is(err, schedule.ErrCommitInFlight) {
		t.Errorf("expected ErrCommitInFlight for second drop, got %v", err)
	}
	if err := r.Pickup(x); !errors.Is(err, schedule.ErrDragInProgress) {
		t.Errorf("expected ErrDragInProgress for pickup mid-commit, got %v", err)
	}
	if err := r.Cancel(); !errors.Is(err, schedule.ErrCommitInFlight) {
		t.Errorf("expected ErrCommitInFlight for cancel mid-commit, got %v", err)
	}

	close(store.gate)
	if err := <-done; err != nil {
		t.Fatalf("held commit should succeed, got %v", err)
	}
	if got := r.Session().State; got != schedule.StateIdle {
		t.Errorf("expected idle after commit, got %v", got)
	}
}

func TestRescheduler_SettleDelayIsBounded(t *testing.T) {
	x := entry("x", "emp-e", march5, 9, 0, 12, 0)
	r := schedule.NewRescheduler(newFakeCommitter(x), nil)
	r.SetSettleDelay(10 * time.Millisecond)

	if err := r.Pickup(x); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}

	start := time.Now()
	if err := r.Drop(context.Background(), march10); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("settle delay took too long: %v", elapsed)
	}
	if got := r.Session().State; got != schedule.StateIdle {
		t.Errorf("expected idle after settle, got %v", got)
	}
}
