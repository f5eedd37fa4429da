package schedule_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/warp/roster-engine/schedule"
)

func TestBuildCountIndex_CountsPerDate(t *testing.T) {
	// GIVEN: Three entries across two dates
	// WHEN: Building the index
	// THEN: Counts follow work dates exactly; unknown dates count zero

	entries := []schedule.ScheduleEntry{
		entry("a", "emp-1", march1, 9, 0, 12, 0),
		entry("b", "emp-2", march1, 13, 0, 17, 0),
		entry("c", "emp-1", march2, 9, 0, 12, 0),
	}

	index := schedule.BuildCountIndex(entries)

	if got := index.Count(march1); got != 2 {
		t.Errorf("expected 2 on %s, got %d", march1, got)
	}
	if got := index.Count(march2); got != 1 {
		t.Errorf("expected 1 on %s, got %d", march2, got)
	}
	if got := index.Count(schedule.NewDate(2024, time.March, 3)); got != 0 {
		t.Errorf("expected 0 on an unindexed date, got %d", got)
	}
}

func TestBuildCountIndex_Idempotent(t *testing.T) {
	// GIVEN: An unchanged entry collection
	// WHEN: Building the index twice
	// THEN: The maps are identical

	entries := []schedule.ScheduleEntry{
		entry("a", "emp-1", march1, 9, 0, 12, 0),
		entry("b", "emp-2", march1, 13, 0, 17, 0),
		entry("c", "emp-1", march2, 9, 0, 12, 0),
	}

	first := schedule.BuildCountIndex(entries)
	second := schedule.BuildCountIndex(entries)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("index not idempotent: %v vs %v", first, second)
	}
}

func TestBuildCountIndex_NoFiltering(t *testing.T) {
	// The index counts whatever it is given; visibility filtering is the
	// caller's job, so pre-filtered input changes the counts.

	all := []schedule.ScheduleEntry{
		entry("a", "emp-1", march1, 9, 0, 12, 0),
		entry("b", "emp-2", march1, 13, 0, 17, 0),
	}
	visible := schedule.EmployeeSet{"emp-1": {}}

	unfiltered := schedule.BuildCountIndex(all)
	filtered := schedule.BuildCountIndex(schedule.FilterVisible(all, visible))

	if unfiltered.Count(march1) != 2 {
		t.Errorf("expected raw count 2, got %d", unfiltered.Count(march1))
	}
	if filtered.Count(march1) != 1 {
		t.Errorf("expected filtered count 1, got %d", filtered.Count(march1))
	}
}
