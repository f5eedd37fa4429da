/*
overlap.go - Interval overlap predicate and conflict detection

PURPOSE:
  Decides whether two schedule entries collide, and collects every collision
  for one entry against a candidate pool. Conflicts drive the warning badge
  rendered on a schedule card.

BOUNDARY POLICY:
  The interval test is CLOSED: two back-to-back shifts where one ends
  exactly when the other begins count as conflicting. This preserves the
  established product behavior; an open-interval rule is equally defensible
  but must not be introduced without product sign-off.

SEE ALSO:
  - types.go: ScheduleEntry, ClockTime
  - visibility.go: Produces the pool each cell checks against
*/
package schedule

// Overlaps reports whether two entries conflict. Entries only conflict when
// they belong to the same employee on the same date and their time ranges
// intersect under the closed-interval rule: a start or end falling exactly
// on the other range's boundary is an intersection.
func Overlaps(a, b ScheduleEntry) bool {
	if a.ID == b.ID {
		return false
	}
	if a.EmployeeID != b.EmployeeID {
		return false
	}
	if !a.WorkDate.Equal(b.WorkDate) {
		return false
	}

	// a starts inside [b.start, b.end]
	if a.StartTime.AfterOrEqual(b.StartTime) && a.StartTime.BeforeOrEqual(b.EndTime) {
		return true
	}
	// a ends inside [b.start, b.end]
	if a.EndTime.AfterOrEqual(b.StartTime) && a.EndTime.BeforeOrEqual(b.EndTime) {
		return true
	}
	// a fully contains b
	if a.StartTime.BeforeOrEqual(b.StartTime) && a.EndTime.AfterOrEqual(b.EndTime) {
		return true
	}
	return false
}

// FindConflicts returns every pool member that overlaps target, in pool
// order. An empty result means no conflict. The pool is typically the
// visibility-filtered entry set for one calendar cell; this function does
// no filtering of its own.
func FindConflicts(target ScheduleEntry, pool []ScheduleEntry) []ScheduleEntry {
	var conflicts []ScheduleEntry
	for _, candidate := range pool {
		if Overlaps(target, candidate) {
			conflicts = append(conflicts, candidate)
		}
	}
	return conflicts
}

// ConflictIDs is FindConflicts reduced to identifiers, for API payloads.
func ConflictIDs(target ScheduleEntry, pool []ScheduleEntry) []EntryID {
	conflicts := FindConflicts(target, pool)
	if len(conflicts) == 0 {
		return nil
	}
	ids := make([]EntryID, len(conflicts))
	for i, c := range conflicts {
		ids[i] = c.ID
	}
	return ids
}
