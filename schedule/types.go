/*
Package schedule provides the core roster calendar engine.

PURPOSE:
  This package contains the domain types and algorithms for a staff
  scheduling calendar: week-aligned month grids, viewer-scoped visibility
  over schedule entries, pairwise conflict detection, and the drag-and-drop
  rescheduling state machine.

KEY CONCEPTS IN THIS FILE (types.go):
  - ScheduleEntry: One employee's assignment to a named time-slot on one date
  - Employee: Roster member with an optional one-level reporting edge
  - ClockTime: A wall-clock time of day with minute precision
  - ViewMode: The visibility scope a viewer requests (self/subordinates/all)

DESIGN PRINCIPLES:
  1. Read-only core: the engine never originates or destroys entries, it
     reads, filters, and requests mutation through the Store collaborator
  2. Pure computation: grid building, visibility resolution, and conflict
     detection are synchronous total functions of their inputs
  3. Type safety: strong typing for IDs prevents mixing entry/employee IDs

USAGE:
  entry := schedule.ScheduleEntry{
      EmployeeID:   "emp-123",
      WorkDate:     schedule.NewDate(2024, time.March, 1),
      TimeSlotName: "Morning",
      StartTime:    schedule.NewClockTime(9, 0),
      EndTime:      schedule.NewClockTime(13, 0),
  }

SEE ALSO:
  - grid.go: Calendar grid builder
  - visibility.go: Viewer-scope resolution
  - overlap.go: Conflict detection
  - reschedule.go: Drag-and-drop state machine
*/
package schedule

import "fmt"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EntryID string
type EmployeeID string

// =============================================================================
// CLOCK TIME - Wall-clock time of day, minute precision
// =============================================================================

// ClockTime is minutes since midnight, local wall clock. The system operates
// in a single timezone, so no zone is attached.
type ClockTime int

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM". Like ParseDate, it fails closed: a
// malformed time never defaults.
func ParseClockTime(s string) (ClockTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return NewClockTime(hour, minute), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) Before(other ClockTime) bool        { return c < other }
func (c ClockTime) After(other ClockTime) bool         { return c > other }
func (c ClockTime) BeforeOrEqual(other ClockTime) bool { return c <= other }
func (c ClockTime) AfterOrEqual(other ClockTime) bool  { return c >= other }

// MinutesUntil returns the whole minutes from c to other.
func (c ClockTime) MinutesUntil(other ClockTime) int { return int(other) - int(c) }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// =============================================================================
// SCHEDULE ENTRY - One assignment of an employee to a time-slot on a date
// =============================================================================

// ScheduleEntry is created and deleted by external mutations; the engine
// only reads it and, through the rescheduler, requests a WorkDate change.
// StartTime < EndTime is validated at the mutation boundary.
type ScheduleEntry struct {
	ID           EntryID
	EmployeeID   EmployeeID
	WorkDate     Date
	TimeSlotName string // display label for the shift type, e.g. "Morning"
	StartTime    ClockTime
	EndTime      ClockTime
	Notes        string
}

// Validate checks the invariants an external mutation must hold before the
// entry enters the engine.
func (e ScheduleEntry) Validate() error {
	if e.EmployeeID == "" {
		return fmt.Errorf("%w: employee id required", ErrInvalidEntry)
	}
	if e.WorkDate.IsZero() {
		return fmt.Errorf("%w: work date required", ErrInvalidEntry)
	}
	if !e.StartTime.Before(e.EndTime) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, e.StartTime, e.EndTime)
	}
	return nil
}

// =============================================================================
// EMPLOYEE - Roster member
// =============================================================================

// Employee carries one level of the reporting graph: SupervisorID is a weak
// reference, empty for top-level staff. A SupervisorID pointing outside the
// roster is treated as "no relation", never an error. Permission tier is not
// stored here; it is queried through the capability collaborator.
type Employee struct {
	ID           EmployeeID
	Name         string
	SupervisorID EmployeeID
}

// =============================================================================
// VIEW MODE - Requested visibility scope
// =============================================================================

type ViewMode string

const (
	ViewSelf         ViewMode = "self"
	ViewSubordinates ViewMode = "subordinates"
	ViewAll          ViewMode = "all"
)

// ParseViewMode maps the wire form to a ViewMode. Unknown values fail
// closed; a wrong visibility scope is a correctness hazard.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewSelf, ViewSubordinates, ViewAll:
		return ViewMode(s), nil
	case "":
		return ViewSelf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}
}
