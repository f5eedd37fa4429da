package schedule_test

import (
	"testing"
	"time"

	"github.com/warp/roster-engine/schedule"
)

func TestSummarizeWorkload_ExactHourFractions(t *testing.T) {
	// GIVEN: One employee with a 4h shift and a 3h30m shift
	// THEN: Total is exactly 7.5 hours, no float drift

	entries := []schedule.ScheduleEntry{
		entry("a", "emp-1", march1, 9, 0, 13, 0),
		{ID: "b", EmployeeID: "emp-1", WorkDate: march2,
			StartTime: schedule.NewClockTime(9, 0), EndTime: schedule.NewClockTime(12, 30)},
	}

	summaries := schedule.SummarizeWorkload(entries, schedule.Date{}, schedule.Date{})
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if got := summaries[0].TotalHours.String(); got != "7.5" {
		t.Errorf("expected 7.5 hours, got %s", got)
	}
	if summaries[0].Entries != 2 {
		t.Errorf("expected 2 entries, got %d", summaries[0].Entries)
	}
}

func TestSummarizeWorkload_RangeAndOrdering(t *testing.T) {
	// GIVEN: Two employees, one entry outside the requested range
	// THEN: The out-of-range entry is excluded; output ordered by employee id

	entries := []schedule.ScheduleEntry{
		entry("a", "emp-2", march2, 9, 0, 12, 0),
		entry("b", "emp-1", march1, 9, 0, 12, 0),
		entry("c", "emp-1", schedule.NewDate(2024, time.April, 1), 9, 0, 17, 0),
	}

	summaries := schedule.SummarizeWorkload(entries, march1, march2)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].EmployeeID != "emp-1" || summaries[1].EmployeeID != "emp-2" {
		t.Errorf("expected ordering by employee id, got %v", summaries)
	}
	if got := summaries[0].TotalHours.String(); got != "3" {
		t.Errorf("expected emp-1 total 3 (April entry excluded), got %s", got)
	}
}

func TestSummarizeWorkload_Empty(t *testing.T) {
	if summaries := schedule.SummarizeWorkload(nil, schedule.Date{}, schedule.Date{}); len(summaries) != 0 {
		t.Errorf("expected no summaries, got %v", summaries)
	}
}
