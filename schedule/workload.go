/*
workload.go - Scheduled-hours summary

PURPOSE:
  Aggregates total scheduled time per employee over a date range, for the
  workload report. Uses decimal arithmetic so minute totals convert to hours
  exactly (7h30m is 7.5, never 7.4999...).

SEE ALSO:
  - types.go: ClockTime supplies the per-entry minutes
*/
package schedule

import (
	"sort"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// WorkloadSummary is one employee's scheduled total over a range.
type WorkloadSummary struct {
	EmployeeID EmployeeID
	Entries    int
	TotalHours decimal.Decimal
}

// SummarizeWorkload totals scheduled hours per employee for entries whose
// work date falls in [from, to]. Zero bounds mean unbounded on that side.
// Results are ordered by employee id for stable output.
func SummarizeWorkload(entries []ScheduleEntry, from, to Date) []WorkloadSummary {
	totals := make(map[EmployeeID]*WorkloadSummary)

	for _, e := range entries {
		if !from.IsZero() && e.WorkDate.Before(from) {
			continue
		}
		if !to.IsZero() && e.WorkDate.After(to) {
			continue
		}

		summary, ok := totals[e.EmployeeID]
		if !ok {
			summary = &WorkloadSummary{EmployeeID: e.EmployeeID}
			totals[e.EmployeeID] = summary
		}
		minutes := decimal.NewFromInt(int64(e.StartTime.MinutesUntil(e.EndTime)))
		summary.TotalHours = summary.TotalHours.Add(minutes.Div(minutesPerHour))
		summary.Entries++
	}

	result := make([]WorkloadSummary, 0, len(totals))
	for _, summary := range totals {
		result = append(result, *summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result
}
