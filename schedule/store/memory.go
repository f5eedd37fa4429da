// Package store provides in-memory implementations of the schedule
// collaborator contracts, for testing and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/roster-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements schedule.Store, schedule.Directory, and
// schedule.Capability over maps.
type Memory struct {
	mu        sync.RWMutex
	schedules map[schedule.EntryID]schedule.ScheduleEntry
	employees map[schedule.EmployeeID]schedule.Employee
	broadView map[schedule.EmployeeID]bool
	labels    map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		schedules: make(map[schedule.EntryID]schedule.ScheduleEntry),
		employees: make(map[schedule.EmployeeID]schedule.Employee),
		broadView: make(map[schedule.EmployeeID]bool),
		labels:    make(map[string]string),
	}
}

// -----------------------------------------------------------------------------
// schedule.Store
// -----------------------------------------------------------------------------

func (m *Memory) UpdateScheduleDate(_ context.Context, id schedule.EntryID, newDate schedule.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.schedules[id]
	if !ok {
		return schedule.ErrEntryNotFound
	}
	entry.WorkDate = newDate
	m.schedules[id] = entry
	return nil
}

func (m *Memory) LoadAllSchedules(_ context.Context) ([]schedule.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]schedule.ScheduleEntry, 0, len(m.schedules))
	for _, entry := range m.schedules {
		result = append(result, entry)
	}
	sortEntries(result)
	return result, nil
}

func (m *Memory) SaveSchedule(_ context.Context, entry schedule.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[entry.ID] = entry
	return nil
}

func (m *Memory) GetSchedule(_ context.Context, id schedule.EntryID) (*schedule.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.schedules[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *Memory) DeleteSchedule(_ context.Context, id schedule.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schedules[id]; !ok {
		return schedule.ErrEntryNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *Memory) ListSchedulesByEmployee(_ context.Context, employeeID schedule.EmployeeID, from, to schedule.Date) ([]schedule.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []schedule.ScheduleEntry
	for _, entry := range m.schedules {
		if entry.EmployeeID != employeeID {
			continue
		}
		if !from.IsZero() && entry.WorkDate.Before(from) {
			continue
		}
		if !to.IsZero() && entry.WorkDate.After(to) {
			continue
		}
		result = append(result, entry)
	}
	sortEntries(result)
	return result, nil
}

func sortEntries(entries []schedule.ScheduleEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WorkDate.Equal(entries[j].WorkDate) {
			if entries[i].StartTime == entries[j].StartTime {
				return entries[i].ID < entries[j].ID
			}
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].WorkDate.Before(entries[j].WorkDate)
	})
}

// -----------------------------------------------------------------------------
// schedule.Directory
// -----------------------------------------------------------------------------

func (m *Memory) ListEmployees(_ context.Context) ([]schedule.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]schedule.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) GetEmployee(_ context.Context, id schedule.EmployeeID) (*schedule.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (m *Memory) SaveEmployee(_ context.Context, emp schedule.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
	return nil
}

func (m *Memory) DirectSubordinates(_ context.Context, id schedule.EmployeeID) ([]schedule.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []schedule.Employee
	for _, emp := range m.employees {
		if emp.SupervisorID == id {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// -----------------------------------------------------------------------------
// schedule.Capability
// -----------------------------------------------------------------------------

// GrantBroadView grants or revokes the broad-view capability.
func (m *Memory) GrantBroadView(id schedule.EmployeeID, granted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadView[id] = granted
}

func (m *Memory) HasBroadViewPermission(_ context.Context, id schedule.EmployeeID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.broadView[id], nil
}

// -----------------------------------------------------------------------------
// Day labels
// -----------------------------------------------------------------------------

func (m *Memory) SaveDayLabel(_ context.Context, date schedule.Date, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if label == "" {
		delete(m.labels, date.Key())
		return nil
	}
	m.labels[date.Key()] = label
	return nil
}

func (m *Memory) ListDayLabels(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.labels))
	for k, v := range m.labels {
		result[k] = v
	}
	return result, nil
}
