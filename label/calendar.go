/*
Package label provides the auxiliary per-day label collaborator consumed by
the calendar grid builder.

PURPOSE:
  Decorates day cells with an extra line of opaque text: a public holiday
  name, a company event, a traditional-calendar marking. The grid treats the
  label as display text only; absence of a label simply leaves the cell
  undecorated.

SOURCES:
  Two layers, overrides winning:
  1. Recurring labels keyed by month/day, the same every year
     (e.g. "New Year's Day" on Jan 1)
  2. Exact-date overrides, typically loaded from the store's day_labels
     table and editable through the API

SEE ALSO:
  - schedule/grid.go: DayLabeler contract
  - store/sqlite: Persists the exact-date overrides
*/
package label

import (
	"fmt"
	"sync"
	"time"

	"github.com/warp/roster-engine/schedule"
)

// Calendar implements schedule.DayLabeler.
type Calendar struct {
	mu        sync.RWMutex
	recurring map[string]string // "01-02" month-day key
	overrides map[string]string // "2006-01-02" exact-date key
}

// NewCalendar returns a calendar with a small default set of recurring
// labels. Deployments replace or extend these via SetRecurring.
func NewCalendar() *Calendar {
	return &Calendar{
		recurring: map[string]string{
			"01-01": "New Year's Day",
			"05-01": "Labour Day",
			"12-25": "Christmas Day",
		},
		overrides: make(map[string]string),
	}
}

// LabelFor returns the label for a date, or "" when the date has none.
func (c *Calendar) LabelFor(date schedule.Date) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if label, ok := c.overrides[date.Key()]; ok {
		return label
	}
	return c.recurring[monthDayKey(date.Month(), date.Day())]
}

// SetRecurring registers a label repeating on the same month/day every year.
// An empty label removes it.
func (c *Calendar) SetRecurring(month time.Month, day int, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := monthDayKey(month, day)
	if name == "" {
		delete(c.recurring, key)
		return
	}
	c.recurring[key] = name
}

// SetOverride registers an exact-date label. An empty label removes it.
func (c *Calendar) SetOverride(date schedule.Date, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		delete(c.overrides, date.Key())
		return
	}
	c.overrides[date.Key()] = name
}

// MergeOverrides loads exact-date labels in bulk, typically from the store
// at startup. Existing overrides with the same key are replaced.
func (c *Calendar) MergeOverrides(labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, name := range labels {
		if name == "" {
			delete(c.overrides, key)
			continue
		}
		c.overrides[key] = name
	}
}

// Overrides returns a copy of the exact-date labels.
func (c *Calendar) Overrides() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.overrides))
	for k, v := range c.overrides {
		result[k] = v
	}
	return result
}

func monthDayKey(month time.Month, day int) string {
	return fmt.Sprintf("%02d-%02d", int(month), day)
}
