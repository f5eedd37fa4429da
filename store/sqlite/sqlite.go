/*
Package sqlite provides a SQLite-backed implementation of the storage
collaborators.

PURPOSE:
  Implements schedule.Store, schedule.Directory, and schedule.Capability
  using SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  employees:   Roster with the one-level reporting edge and the broad-view flag
  schedules:   Schedule entries (one employee, one date, one time-slot)
  day_labels:  Exact-date auxiliary labels for the calendar grid

DATE/TIME ENCODING:
  work_date is stored as an ISO date string ("2006-01-02"); start/end times
  as "HH:MM". Both round-trip through the schedule package's fail-closed
  parsers, so a corrupted row surfaces as an error instead of a wrong date.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - schedule/store.go: Interface definitions
  - schedule/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/roster-engine/schedule"
)

// Store implements the storage collaborators using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Roster (one-level reporting edge; broad_view is the capability flag)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		supervisor_id TEXT,
		broad_view INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_employees_supervisor
		ON employees(supervisor_id);

	-- Schedule entries
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		slot_name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_employee_date
		ON schedules(employee_id, work_date);
	CREATE INDEX IF NOT EXISTS idx_schedules_date
		ON schedules(work_date);

	-- Exact-date auxiliary labels for the calendar grid
	CREATE TABLE IF NOT EXISTS day_labels (
		date TEXT PRIMARY KEY,
		label TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

// UpdateScheduleDate moves one entry to a new work date. Re-issuing the
// same move is a no-op at this layer, which is what makes retried commits
// idempotent.
func (s *Store) UpdateScheduleDate(ctx context.Context, id schedule.EntryID, newDate schedule.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE schedules SET work_date = ? WHERE id = ?`,
		newDate.Key(), string(id))
	if err != nil {
		return fmt.Errorf("failed to update schedule date: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schedule.ErrEntryNotFound
	}
	return nil
}

// LoadAllSchedules returns every entry ordered by date then start time.
func (s *Store) LoadAllSchedules(ctx context.Context) ([]schedule.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, work_date, slot_name, start_time, end_time, COALESCE(notes, '')
		 FROM schedules ORDER BY work_date, start_time, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SaveSchedule inserts or replaces an entry.
func (s *Store) SaveSchedule(ctx context.Context, entry schedule.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedules (id, employee_id, work_date, slot_name, start_time, end_time, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			work_date = excluded.work_date,
			slot_name = excluded.slot_name,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			notes = excluded.notes`,
		string(entry.ID), string(entry.EmployeeID), entry.WorkDate.Key(),
		entry.TimeSlotName, entry.StartTime.String(), entry.EndTime.String(), entry.Notes)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// GetSchedule returns one entry, or nil when absent.
func (s *Store) GetSchedule(ctx context.Context, id schedule.EntryID) (*schedule.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, employee_id, work_date, slot_name, start_time, end_time, COALESCE(notes, '')
		 FROM schedules WHERE id = ?`, string(id))

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteSchedule removes one entry.
func (s *Store) DeleteSchedule(ctx context.Context, id schedule.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schedule.ErrEntryNotFound
	}
	return nil
}

// ListSchedulesByEmployee returns one employee's entries in [from, to].
// Zero bounds are unbounded.
func (s *Store) ListSchedulesByEmployee(ctx context.Context, employeeID schedule.EmployeeID, from, to schedule.Date) ([]schedule.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, employee_id, work_date, slot_name, start_time, end_time, COALESCE(notes, '')
		 FROM schedules WHERE employee_id = ?`
	args := []any{string(employeeID)}
	if !from.IsZero() {
		query += ` AND work_date >= ?`
		args = append(args, from.Key())
	}
	if !to.IsZero() {
		query += ` AND work_date <= ?`
		args = append(args, to.Key())
	}
	query += ` ORDER BY work_date, start_time, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (schedule.ScheduleEntry, error) {
	var id, employeeID, workDate, slotName, startTime, endTime, notes string
	if err := row.Scan(&id, &employeeID, &workDate, &slotName, &startTime, &endTime, &notes); err != nil {
		return schedule.ScheduleEntry{}, err
	}

	date, err := schedule.ParseDate(workDate)
	if err != nil {
		return schedule.ScheduleEntry{}, fmt.Errorf("corrupt work_date for %s: %w", id, err)
	}
	start, err := schedule.ParseClockTime(startTime)
	if err != nil {
		return schedule.ScheduleEntry{}, fmt.Errorf("corrupt start_time for %s: %w", id, err)
	}
	end, err := schedule.ParseClockTime(endTime)
	if err != nil {
		return schedule.ScheduleEntry{}, fmt.Errorf("corrupt end_time for %s: %w", id, err)
	}

	return schedule.ScheduleEntry{
		ID:           schedule.EntryID(id),
		EmployeeID:   schedule.EmployeeID(employeeID),
		WorkDate:     date,
		TimeSlotName: slotName,
		StartTime:    start,
		EndTime:      end,
		Notes:        notes,
	}, nil
}

func scanEntries(rows *sql.Rows) ([]schedule.ScheduleEntry, error) {
	var entries []schedule.ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// =============================================================================
// DIRECTORY
// =============================================================================

// ListEmployees returns the whole roster.
func (s *Store) ListEmployees(ctx context.Context) ([]schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(supervisor_id, '') FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// GetEmployee returns one employee, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id schedule.EmployeeID) (*schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var empID, name, supervisorID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(supervisor_id, '') FROM employees WHERE id = ?`,
		string(id)).Scan(&empID, &name, &supervisorID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &schedule.Employee{
		ID:           schedule.EmployeeID(empID),
		Name:         name,
		SupervisorID: schedule.EmployeeID(supervisorID),
	}, nil
}

// SaveEmployee inserts or replaces a roster member, preserving an existing
// broad-view grant.
func (s *Store) SaveEmployee(ctx context.Context, emp schedule.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, supervisor_id)
		 VALUES (?, ?, NULLIF(?, ''))
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			supervisor_id = excluded.supervisor_id`,
		string(emp.ID), emp.Name, string(emp.SupervisorID))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// DirectSubordinates returns the employees reporting directly to id. One
// level only; the reporting edge is not walked transitively.
func (s *Store) DirectSubordinates(ctx context.Context, id schedule.EmployeeID) ([]schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(supervisor_id, '') FROM employees WHERE supervisor_id = ? ORDER BY id`,
		string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to list subordinates: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

func scanEmployees(rows *sql.Rows) ([]schedule.Employee, error) {
	var employees []schedule.Employee
	for rows.Next() {
		var id, name, supervisorID string
		if err := rows.Scan(&id, &name, &supervisorID); err != nil {
			return nil, err
		}
		employees = append(employees, schedule.Employee{
			ID:           schedule.EmployeeID(id),
			Name:         name,
			SupervisorID: schedule.EmployeeID(supervisorID),
		})
	}
	return employees, rows.Err()
}

// =============================================================================
// CAPABILITY
// =============================================================================

// HasBroadViewPermission reports whether the employee holds the broad-view
// capability. Unknown employees simply don't.
func (s *Store) HasBroadViewPermission(ctx context.Context, id schedule.EmployeeID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var granted int
	err := s.db.QueryRowContext(ctx,
		`SELECT broad_view FROM employees WHERE id = ?`, string(id)).Scan(&granted)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return granted != 0, nil
}

// GrantBroadView grants or revokes the broad-view capability.
func (s *Store) GrantBroadView(ctx context.Context, id schedule.EmployeeID, granted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flag := 0
	if granted {
		flag = 1
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE employees SET broad_view = ? WHERE id = ?`, flag, string(id))
	if err != nil {
		return fmt.Errorf("failed to update broad view: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schedule.ErrEmployeeNotFound
	}
	return nil
}

// =============================================================================
// DAY LABELS
// =============================================================================

// SaveDayLabel upserts an exact-date label; an empty label deletes it.
func (s *Store) SaveDayLabel(ctx context.Context, date schedule.Date, labelText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if labelText == "" {
		_, err := s.db.ExecContext(ctx, `DELETE FROM day_labels WHERE date = ?`, date.Key())
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO day_labels (date, label) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET label = excluded.label`,
		date.Key(), labelText)
	if err != nil {
		return fmt.Errorf("failed to save day label: %w", err)
	}
	return nil
}

// ListDayLabels returns all exact-date labels keyed by ISO date.
func (s *Store) ListDayLabels(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date, label FROM day_labels`)
	if err != nil {
		return nil, fmt.Errorf("failed to list day labels: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var date, labelText string
		if err := rows.Scan(&date, &labelText); err != nil {
			return nil, err
		}
		result[date] = labelText
	}
	return result, rows.Err()
}
