package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/roster-engine/schedule"
)

func TestParseDate_FailsClosed(t *testing.T) {
	// A malformed date must never default to some calendar position.
	for _, input := range []string{"", "2024-13-01", "03/01/2024", "not-a-date"} {
		if _, err := schedule.ParseDate(input); !errors.Is(err, schedule.ErrInvalidDate) {
			t.Errorf("%q: expected ErrInvalidDate, got %v", input, err)
		}
	}

	d, err := schedule.ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("leap day should parse: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("round trip failed: %s", d)
	}
}

func TestEndOfMonth_LeapAndShortMonths(t *testing.T) {
	cases := []struct {
		in   schedule.Date
		want string
	}{
		{schedule.NewDate(2024, time.February, 10), "2024-02-29"},
		{schedule.NewDate(2023, time.February, 10), "2023-02-28"},
		{schedule.NewDate(2024, time.April, 1), "2024-04-30"},
		{schedule.NewDate(2024, time.December, 31), "2024-12-31"},
	}
	for _, c := range cases {
		if got := schedule.EndOfMonth(c.in).String(); got != c.want {
			t.Errorf("EndOfMonth(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	from := schedule.NewDate(2024, time.January, 28)
	to := schedule.NewDate(2024, time.March, 2)
	if got := schedule.DaysBetween(from, to); got != 34 {
		t.Errorf("expected 34 days, got %d", got)
	}
}

func TestParseClockTime(t *testing.T) {
	c, err := schedule.ParseClockTime("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Hour() != 9 || c.Minute() != 30 || c.String() != "09:30" {
		t.Errorf("bad parse result: %v", c)
	}

	for _, input := range []string{"", "25:00", "12:60", "noon"} {
		if _, err := schedule.ParseClockTime(input); !errors.Is(err, schedule.ErrInvalidClockTime) {
			t.Errorf("%q: expected ErrInvalidClockTime, got %v", input, err)
		}
	}
}

func TestScheduleEntry_Validate(t *testing.T) {
	good := entry("a", "emp-1", march1, 9, 0, 12, 0)
	if err := good.Validate(); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}

	backwards := entry("b", "emp-1", march1, 12, 0, 9, 0)
	if err := backwards.Validate(); !errors.Is(err, schedule.ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}

	zeroLength := entry("c", "emp-1", march1, 9, 0, 9, 0)
	if err := zeroLength.Validate(); !errors.Is(err, schedule.ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange for zero-length range, got %v", err)
	}
}
