/*
store.go - Collaborator contracts for persistence, hierarchy, and labels

PURPOSE:
  Defines the boundary between the engine and its external collaborators.
  The engine never owns storage; it reads, filters, and requests mutation
  through these interfaces. Implementations live in store/sqlite (SQLite)
  and schedule/store (in-memory, for tests).

SHARED-STATE POLICY:
  The in-memory schedule collection consumed by the grid, visibility, and
  conflict components is read-only to them. The ONLY write path into that
  shared state is wholesale replacement via LoadAllSchedules after a commit,
  which is what lets the engine run without locks around the collection.

SEE ALSO:
  - reschedule.go: Calls UpdateScheduleDate then LoadAllSchedules
  - store/sqlite/sqlite.go: Production implementation
  - store/memory.go: In-memory implementation for tests
*/
package schedule

import "context"

// =============================================================================
// STORE - Schedule persistence collaborator
// =============================================================================

// Store persists schedule entries. The engine core only needs
// UpdateScheduleDate and LoadAllSchedules; the remaining operations back the
// external mutation surface (create/edit/delete are outside the engine but
// share the same store).
type Store interface {
	// UpdateScheduleDate moves one entry to a new work date. This is the
	// rescheduler's commit operation. Repeating an identical move is the
	// store's idempotence concern, not the engine's.
	UpdateScheduleDate(ctx context.Context, id EntryID, newDate Date) error

	// LoadAllSchedules returns the authoritative entry collection. The
	// refresh flow replaces the engine's view wholesale with this result.
	LoadAllSchedules(ctx context.Context) ([]ScheduleEntry, error)

	// External mutation surface.
	SaveSchedule(ctx context.Context, entry ScheduleEntry) error
	GetSchedule(ctx context.Context, id EntryID) (*ScheduleEntry, error)
	DeleteSchedule(ctx context.Context, id EntryID) error
	ListSchedulesByEmployee(ctx context.Context, employeeID EmployeeID, from, to Date) ([]ScheduleEntry, error)
}

// =============================================================================
// DIRECTORY - Hierarchy collaborator
// =============================================================================

// Directory supplies the roster and one level of the reporting graph.
// Subordinate lookup is deliberately not transitive; deeper visibility is an
// open product question and must not be assumed.
type Directory interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	SaveEmployee(ctx context.Context, emp Employee) error
	DirectSubordinates(ctx context.Context, id EmployeeID) ([]Employee, error)
}

// =============================================================================
// CAPABILITY - Permission collaborator
// =============================================================================

// Capability answers whether a viewer holds the broad-view permission. It
// is a single boolean gate; the engine performs no other authorization.
type Capability interface {
	HasBroadViewPermission(ctx context.Context, id EmployeeID) (bool, error)
}
