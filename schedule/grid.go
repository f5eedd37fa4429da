/*
grid.go - Week-aligned calendar grid builder

PURPOSE:
  Produces the sequence of day cells the calendar view renders for one
  reference month. Weeks run Sunday through Saturday; when the month does
  not start on a Sunday or end on a Saturday, the grid borrows padding days
  from the adjacent months so every row is a full week.

ALGORITHM:
  1. Compute the month boundaries containing the reference date
  2. Prepend from the preceding Sunday up to the 1st (extended cells)
  3. Append from the day after month end up to the following Saturday
  4. Decorate each cell with weekday flags, the visibility-filtered
     schedule count, and an optional auxiliary label

GUARANTEE:
  Output length is always a multiple of 7. A month that already starts on a
  Sunday and ends on a Saturday gets no padding; every other month gets
  padding on the side(s) that need it. Month lengths and leap years are
  handled by date arithmetic alone.

SEE ALSO:
  - date.go: Month boundary helpers
  - index.go: CountIndex supplying the per-date counts
*/
package schedule

import "time"

// =============================================================================
// CALENDAR DAY CELL - Derived, never persisted
// =============================================================================

// CalendarDayCell is one renderable day in the month grid.
type CalendarDayCell struct {
	Date           Date
	WeekdayIndex   int  // 0=Sunday .. 6=Saturday
	IsCurrentMonth bool
	IsExtended     bool // padding borrowed from an adjacent month
	IsWeekend      bool
	ScheduleCount  int    // count of VISIBILITY-FILTERED entries on this date
	AuxiliaryLabel string // opaque text from the label collaborator, may be empty
}

// CountLookup supplies the per-date schedule count, already scoped to the
// viewer's visibility. A nil lookup decorates every cell with zero.
type CountLookup func(Date) int

// DayLabeler supplies the optional auxiliary per-day label (a lunar day, a
// holiday name). The engine treats the label as opaque text. A nil labeler
// simply omits labels.
type DayLabeler interface {
	LabelFor(date Date) string
}

// =============================================================================
// GRID BUILDER
// =============================================================================

// BuildGrid returns the week-aligned cell sequence for the month containing
// ref. A zero reference date is a caller error with no recovery path.
func BuildGrid(ref Date, counts CountLookup, labeler DayLabeler) ([]CalendarDayCell, error) {
	if ref.IsZero() {
		return nil, ErrInvalidDate
	}

	monthStart := StartOfMonth(ref)
	monthEnd := EndOfMonth(ref)

	// Walk back to the preceding Sunday and forward to the following
	// Saturday. When the boundary already sits on the right weekday the
	// offset is zero and no extended cells appear.
	gridStart := monthStart.AddDays(-int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDays(int(time.Saturday - monthEnd.Weekday()))

	total := DaysBetween(gridStart, gridEnd) + 1
	cells := make([]CalendarDayCell, 0, total)

	for d := gridStart; d.BeforeOrEqual(gridEnd); d = d.AddDays(1) {
		inMonth := d.Month() == ref.Month() && d.Year() == ref.Year()
		cell := CalendarDayCell{
			Date:           d,
			WeekdayIndex:   int(d.Weekday()),
			IsCurrentMonth: inMonth,
			IsExtended:     !inMonth,
			IsWeekend:      d.IsWeekend(),
		}
		if counts != nil {
			cell.ScheduleCount = counts(d)
		}
		if labeler != nil {
			cell.AuxiliaryLabel = labeler.LabelFor(d)
		}
		cells = append(cells, cell)
	}

	return cells, nil
}
