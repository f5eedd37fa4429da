/*
visibility.go - Viewer-scope resolution

PURPOSE:
  Computes which employees' schedules a viewer may see. The result drives
  everything downstream: the filtered entry collection, the count index,
  and the conflict pool inside each calendar cell.

RULES:
  With the broad-view capability:
    self         -> {viewer}
    subordinates -> direct reports only (one level, not transitive)
    all          -> the whole roster
  Without it the requested mode is ignored entirely: the viewer gets
  self + direct reports, never more. Permission is a capability gate, not
  a hierarchy property.

PURITY:
  Resolution is a pure function of (viewer, mode, roster, capability) and is
  safe to memoize on a composite key of them. VisibilityCache does exactly
  that; callers bump the roster revision whenever the roster changes instead
  of listening for broadcast invalidation events.

SEE ALSO:
  - store.go: Directory collaborator supplying the roster
  - index.go: Consumes the filtered collection
*/
package schedule

import (
	"fmt"
	"sync"
)

// EmployeeSet is the resolved visibility scope.
type EmployeeSet map[EmployeeID]struct{}

func (s EmployeeSet) Contains(id EmployeeID) bool {
	_, ok := s[id]
	return ok
}

// CapabilityFunc answers the single permission question the resolver asks.
// Implementations consult whatever permission store the deployment uses;
// the engine only sees the boolean.
type CapabilityFunc func(viewer Employee) bool

// ResolveViewableEmployeeIDs computes the visibility scope for a viewer.
// A nil viewer (not authenticated) sees nothing. A SupervisorID pointing
// outside the roster is simply no relation; it never fails resolution.
func ResolveViewableEmployeeIDs(viewer *Employee, mode ViewMode, roster []Employee, hasBroadView CapabilityFunc) EmployeeSet {
	if viewer == nil {
		return EmployeeSet{}
	}

	broad := hasBroadView != nil && hasBroadView(*viewer)

	if !broad {
		// Without the capability the requested mode is irrelevant: the
		// ceiling is self plus direct reports.
		visible := EmployeeSet{viewer.ID: {}}
		addDirectReports(visible, viewer.ID, roster)
		return visible
	}

	switch mode {
	case ViewSelf:
		return EmployeeSet{viewer.ID: {}}
	case ViewSubordinates:
		visible := EmployeeSet{}
		addDirectReports(visible, viewer.ID, roster)
		return visible
	case ViewAll:
		visible := make(EmployeeSet, len(roster))
		for _, emp := range roster {
			visible[emp.ID] = struct{}{}
		}
		return visible
	default:
		// Unknown modes never widen scope.
		return EmployeeSet{viewer.ID: {}}
	}
}

func addDirectReports(into EmployeeSet, supervisor EmployeeID, roster []Employee) {
	for _, emp := range roster {
		if emp.SupervisorID == supervisor {
			into[emp.ID] = struct{}{}
		}
	}
}

// FilterVisible returns the entries whose owner is in the visibility scope,
// preserving input order. This is the collection the count index and the
// per-cell conflict pools are built from.
func FilterVisible(entries []ScheduleEntry, visible EmployeeSet) []ScheduleEntry {
	filtered := make([]ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if visible.Contains(e.EmployeeID) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// =============================================================================
// VISIBILITY CACHE - Memoized resolution
// =============================================================================

// VisibilityCache memoizes resolution on (viewer, mode, roster revision).
// The caller owns the revision counter and bumps it on any roster change;
// stale revisions are evicted lazily.
type VisibilityCache struct {
	mu       sync.Mutex
	revision uint64
	cache    map[string]EmployeeSet
}

func NewVisibilityCache() *VisibilityCache {
	return &VisibilityCache{cache: make(map[string]EmployeeSet)}
}

// Invalidate drops all memoized scopes. Call on any roster mutation.
func (vc *VisibilityCache) Invalidate() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.revision++
	vc.cache = make(map[string]EmployeeSet)
}

// Resolve returns the memoized scope for (viewer, mode), computing it on
// first use for the current roster revision.
func (vc *VisibilityCache) Resolve(viewer *Employee, mode ViewMode, roster []Employee, hasBroadView CapabilityFunc) EmployeeSet {
	if viewer == nil {
		return EmployeeSet{}
	}

	vc.mu.Lock()
	defer vc.mu.Unlock()

	key := fmt.Sprintf("%d|%s|%s", vc.revision, viewer.ID, mode)
	if visible, ok := vc.cache[key]; ok {
		return visible
	}

	visible := ResolveViewableEmployeeIDs(viewer, mode, roster, hasBroadView)
	vc.cache[key] = visible
	return visible
}
