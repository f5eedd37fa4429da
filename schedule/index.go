/*
index.go - Schedule count index

PURPOSE:
  One-pass date -> count aggregation over a visibility-filtered entry
  collection. Feeds the grid builder's cell badges and the list views.

CONTRACT:
  The index performs NO filtering. Entries outside the viewer's visibility
  scope must already be excluded by the caller, otherwise cell counts leak
  information the viewer is not allowed to see. Rebuild is O(n) and must be
  re-run whenever the visible collection changes; lookup is O(1).

SEE ALSO:
  - grid.go: Consumes the index through CountLookup
  - visibility.go: Produces the filtered collection this indexes
*/
package schedule

// CountIndex maps an ISO date key to the number of visible entries on that
// date. Derived, never persisted.
type CountIndex map[string]int

// BuildCountIndex builds the index in one pass. Building twice from the same
// collection yields an identical map.
func BuildCountIndex(entries []ScheduleEntry) CountIndex {
	index := make(CountIndex, len(entries))
	for _, e := range entries {
		index[e.WorkDate.Key()]++
	}
	return index
}

// Count returns the entry count for a date; zero for unindexed dates.
func (ci CountIndex) Count(date Date) int {
	return ci[date.Key()]
}

// Lookup adapts the index to the grid builder's CountLookup.
func (ci CountIndex) Lookup() CountLookup {
	return func(d Date) int { return ci.Count(d) }
}
