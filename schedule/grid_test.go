package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/roster-engine/schedule"
)

// =============================================================================
// TEST LABELER
// =============================================================================

type mapLabeler map[string]string

func (m mapLabeler) LabelFor(d schedule.Date) string { return m[d.Key()] }

// =============================================================================
// GRID SHAPE TESTS
// =============================================================================

func TestBuildGrid_LeapFebruary(t *testing.T) {
	// GIVEN: February 2024 (leap year, 29 days, starts on a Thursday)
	// WHEN: Building the grid
	// THEN: 5 whole weeks (35 cells), padded Jan 28 (Sunday) .. Mar 2 (Saturday)

	ref := schedule.NewDate(2024, time.February, 15)
	cells, err := schedule.BuildGrid(ref, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cells) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(cells))
	}
	if got := cells[0].Date.String(); got != "2024-01-28" {
		t.Errorf("expected first cell 2024-01-28, got %s", got)
	}
	if got := cells[len(cells)-1].Date.String(); got != "2024-03-02" {
		t.Errorf("expected last cell 2024-03-02, got %s", got)
	}
	if cells[0].WeekdayIndex != 0 {
		t.Errorf("expected first cell on Sunday, got weekday %d", cells[0].WeekdayIndex)
	}
	if !cells[0].IsExtended || cells[0].IsCurrentMonth {
		t.Error("January padding cell should be extended and not current month")
	}

	// The reference date itself is present and marked current month
	found := false
	for _, cell := range cells {
		if cell.Date.Equal(ref) {
			found = true
			if !cell.IsCurrentMonth || cell.IsExtended {
				t.Error("reference date cell should be current month, not extended")
			}
		}
	}
	if !found {
		t.Error("reference date missing from grid")
	}
}

func TestBuildGrid_NoPaddingMonth(t *testing.T) {
	// GIVEN: February 2026, which starts on a Sunday and ends on a Saturday
	// WHEN: Building the grid
	// THEN: Exactly 28 cells, none extended

	cells, err := schedule.BuildGrid(schedule.NewDate(2026, time.February, 1), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cells) != 28 {
		t.Fatalf("expected 28 cells, got %d", len(cells))
	}
	for _, cell := range cells {
		if cell.IsExtended {
			t.Errorf("cell %s should not be extended", cell.Date)
		}
		if !cell.IsCurrentMonth {
			t.Errorf("cell %s should be current month", cell.Date)
		}
	}
}

func TestBuildGrid_AlwaysWholeWeeks(t *testing.T) {
	// GIVEN: Every month across several years, including a leap year
	// WHEN: Building each grid
	// THEN: Cell count is always a multiple of 7, starting Sunday, ending Saturday

	for year := 2023; year <= 2027; year++ {
		for month := time.January; month <= time.December; month++ {
			cells, err := schedule.BuildGrid(schedule.NewDate(year, month, 10), nil, nil)
			if err != nil {
				t.Fatalf("%d-%02d: unexpected error: %v", year, month, err)
			}
			if len(cells)%7 != 0 {
				t.Errorf("%d-%02d: %d cells, not a multiple of 7", year, month, len(cells))
			}
			if cells[0].WeekdayIndex != 0 {
				t.Errorf("%d-%02d: grid starts on weekday %d", year, month, cells[0].WeekdayIndex)
			}
			if cells[len(cells)-1].WeekdayIndex != 6 {
				t.Errorf("%d-%02d: grid ends on weekday %d", year, month, cells[len(cells)-1].WeekdayIndex)
			}
		}
	}
}

func TestBuildGrid_ZeroReferenceFailsClosed(t *testing.T) {
	// GIVEN: A zero reference date
	// WHEN: Building the grid
	// THEN: ErrInvalidDate, no silently defaulted calendar

	_, err := schedule.BuildGrid(schedule.Date{}, nil, nil)
	if !errors.Is(err, schedule.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestBuildGrid_CountsAndLabels(t *testing.T) {
	// GIVEN: A count lookup and a labeler covering specific dates
	// WHEN: Building March 2024
	// THEN: Cells carry the lookup's counts and the labeler's text

	counts := schedule.CountIndex{
		"2024-03-01": 2,
		"2024-03-15": 1,
	}
	labels := mapLabeler{"2024-03-08": "Inventory Day"}

	cells, err := schedule.BuildGrid(schedule.NewDate(2024, time.March, 1), counts.Lookup(), labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byDate := make(map[string]schedule.CalendarDayCell)
	for _, cell := range cells {
		byDate[cell.Date.Key()] = cell
	}

	if got := byDate["2024-03-01"].ScheduleCount; got != 2 {
		t.Errorf("expected count 2 on 2024-03-01, got %d", got)
	}
	if got := byDate["2024-03-15"].ScheduleCount; got != 1 {
		t.Errorf("expected count 1 on 2024-03-15, got %d", got)
	}
	if got := byDate["2024-03-02"].ScheduleCount; got != 0 {
		t.Errorf("expected count 0 on 2024-03-02, got %d", got)
	}
	if got := byDate["2024-03-08"].AuxiliaryLabel; got != "Inventory Day" {
		t.Errorf("expected label on 2024-03-08, got %q", got)
	}
	if got := byDate["2024-03-09"].AuxiliaryLabel; got != "" {
		t.Errorf("expected no label on 2024-03-09, got %q", got)
	}

	// 2024-03-02 is a Saturday, 2024-03-04 a Monday
	if !byDate["2024-03-02"].IsWeekend {
		t.Error("2024-03-02 should be a weekend cell")
	}
	if byDate["2024-03-04"].IsWeekend {
		t.Error("2024-03-04 should not be a weekend cell")
	}
}
