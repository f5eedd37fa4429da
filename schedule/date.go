package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date abstraction (this IS a calendar system)
// =============================================================================

// Date is a date-only value. All schedule entries, grid cells, and drag
// targets are keyed by Date; no component in this package carries a
// time-of-day on its dates. The system assumes a single operating timezone,
// so dates are normalized to UTC midnight internally.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date string ("2006-01-02"). A malformed input is a
// caller error: there is no fallback value, a wrong calendar is a
// correctness hazard.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.normalize().AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.normalize().AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsZero() bool { return d.Time.IsZero() }

// String returns the ISO form ("2006-01-02"). Also used as the map key for
// the count index, so it must stay stable.
func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// Key is the canonical index key for this date. Alias of String, named for
// call sites that index rather than display.
func (d Date) Key() string { return d.String() }

// =============================================================================
// MONTH BOUNDARIES
// =============================================================================

// StartOfMonth returns the first day of the month containing d.
func StartOfMonth(d Date) Date { return NewDate(d.Year(), d.Month(), 1) }

// EndOfMonth returns the last day of the month containing d. Month lengths
// (28/29/30/31) fall out of the date arithmetic; leap years are not
// special-cased.
func EndOfMonth(d Date) Date {
	t := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
