/*
handlers.go - HTTP API handlers for the roster calendar engine

PURPOSE:
  Exposes the calendar engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the schedule package.

ENDPOINTS:
  Calendar:
    GET    /api/calendar                    Month grid scoped to the viewer

  Schedules:
    GET    /api/schedules                   Visible entries with conflict ids
    POST   /api/schedules                   Create entry (external mutation)
    PUT    /api/schedules/{id}              Edit entry (external mutation)
    DELETE /api/schedules/{id}              Delete entry (external mutation)
    POST   /api/schedules/{id}/reschedule   Drag-and-drop move to a new date

  Employees:
    GET    /api/employees                   Roster
    POST   /api/employees                   Create roster member
    GET    /api/employees/{id}/subordinates Direct reports (one level)

  Reports:
    GET    /api/reports/workload            Scheduled hours per employee

  Labels:
    GET    /api/labels                      Exact-date auxiliary labels
    POST   /api/labels                      Set/clear a label

SHARED STATE:
  The handler keeps an in-memory snapshot of the schedule collection. The
  ONLY write into it is wholesale replacement: after startup, after an
  external mutation, and after a successful drag-and-drop commit. A failed
  commit replaces nothing, so the card stays at its original date.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Drag session conflicts (single-flight)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/roster-engine/label"
	"github.com/warp/roster-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is the storage surface the handlers need. Satisfied by the SQLite
// store and by the in-memory store used in tests.
type Backend interface {
	schedule.Store
	schedule.Directory
	schedule.Capability

	SaveDayLabel(ctx context.Context, date schedule.Date, labelText string) error
	ListDayLabels(ctx context.Context) (map[string]string, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  Backend
	Labels *label.Calendar

	visibility  *schedule.VisibilityCache
	rescheduler *schedule.Rescheduler

	// Snapshot of the authoritative schedule collection; replaced
	// wholesale, never mutated in place.
	mu      sync.RWMutex
	entries []schedule.ScheduleEntry
}

// NewHandler creates a new handler with the given backend.
func NewHandler(store Backend) *Handler {
	h := &Handler{
		Store:      store,
		Labels:     label.NewCalendar(),
		visibility: schedule.NewVisibilityCache(),
	}
	h.rescheduler = schedule.NewRescheduler(store, h.replaceSnapshot)
	return h
}

// Rescheduler exposes the drag session owner, mainly for wiring and tests.
func (h *Handler) Rescheduler() *schedule.Rescheduler { return h.rescheduler }

// LoadState primes the schedule snapshot and the label calendar from the
// store. Call once at startup.
func (h *Handler) LoadState(ctx context.Context) error {
	entries, err := h.Store.LoadAllSchedules(ctx)
	if err != nil {
		return err
	}
	h.replaceSnapshot(entries)

	labels, err := h.Store.ListDayLabels(ctx)
	if err != nil {
		return err
	}
	h.Labels.MergeOverrides(labels)
	return nil
}

func (h *Handler) replaceSnapshot(entries []schedule.ScheduleEntry) {
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
}

func (h *Handler) snapshot() []schedule.ScheduleEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries
}

// reload refreshes the snapshot after an external mutation.
func (h *Handler) reload(ctx context.Context) error {
	entries, err := h.Store.LoadAllSchedules(ctx)
	if err != nil {
		return err
	}
	h.replaceSnapshot(entries)
	return nil
}

// =============================================================================
// VIEWER RESOLUTION
// =============================================================================

// viewerScope resolves the viewer, requested mode, and visibility set from
// query parameters. A missing viewer parameter means "not authenticated":
// the scope is empty and nothing is visible.
func (h *Handler) viewerScope(r *http.Request) (schedule.EmployeeSet, error) {
	ctx := r.Context()

	mode, err := schedule.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		return nil, err
	}

	viewerID := r.URL.Query().Get("viewer")
	if viewerID == "" {
		return schedule.EmployeeSet{}, nil
	}

	viewer, err := h.Store.GetEmployee(ctx, schedule.EmployeeID(viewerID))
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, schedule.ErrEmployeeNotFound
	}

	roster, err := h.Store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	broad, err := h.Store.HasBroadViewPermission(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	capability := func(schedule.Employee) bool { return broad }

	return h.visibility.Resolve(viewer, mode, roster, capability), nil
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar returns the week-aligned month grid, with per-cell counts of
// the viewer's visible entries and the auxiliary day labels.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	monthParam := r.URL.Query().Get("month")
	ref := schedule.Today()
	if monthParam != "" {
		t, err := time.Parse("2006-01", monthParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
			return
		}
		ref = schedule.NewDate(t.Year(), t.Month(), 1)
	}

	visible, err := h.viewerScope(r)
	if err != nil {
		writeDomainError(w, "Failed to resolve viewer scope", err)
		return
	}

	filtered := schedule.FilterVisible(h.snapshot(), visible)
	index := schedule.BuildCountIndex(filtered)

	cells, err := schedule.BuildGrid(ref, index.Lookup(), h.Labels)
	if err != nil {
		writeDomainError(w, "Failed to build calendar", err)
		return
	}

	dto := CalendarDTO{
		Month: ref.Time.Format("2006-01"),
		Cells: make([]CalendarCellDTO, len(cells)),
		Weeks: len(cells) / 7,
	}
	for i, cell := range cells {
		dto.Cells[i] = CalendarCellDTO{
			Date:           cell.Date.String(),
			WeekdayIndex:   cell.WeekdayIndex,
			IsCurrentMonth: cell.IsCurrentMonth,
			IsExtended:     cell.IsExtended,
			IsWeekend:      cell.IsWeekend,
			ScheduleCount:  cell.ScheduleCount,
			AuxiliaryLabel: cell.AuxiliaryLabel,
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// ListSchedules returns the viewer's visible entries, each annotated with
// the ids of visible entries it conflicts with.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	visible, err := h.viewerScope(r)
	if err != nil {
		writeDomainError(w, "Failed to resolve viewer scope", err)
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	filtered := schedule.FilterVisible(h.snapshot(), visible)

	dtos := make([]ScheduleDTO, 0, len(filtered))
	for _, entry := range filtered {
		if !from.IsZero() && entry.WorkDate.Before(from) {
			continue
		}
		if !to.IsZero() && entry.WorkDate.After(to) {
			continue
		}
		dtos = append(dtos, toScheduleDTO(entry, filtered))
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateSchedule creates a new schedule entry (external mutation).
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := entryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule entry", err)
		return
	}
	if entry.ID == "" {
		entry.ID = schedule.EntryID(uuid.NewString())
	}

	if err := h.Store.SaveSchedule(r.Context(), entry); err != nil {
		writeDomainError(w, "Failed to create schedule", err)
		return
	}
	if err := h.reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to refresh schedules", err)
		return
	}

	writeJSON(w, http.StatusCreated, toScheduleDTO(entry, nil))
}

// UpdateSchedule edits an existing entry (external mutation).
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := schedule.EntryID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get schedule", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Schedule not found", nil)
		return
	}

	var req SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := entryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule entry", err)
		return
	}
	entry.ID = id

	if err := h.Store.SaveSchedule(r.Context(), entry); err != nil {
		writeDomainError(w, "Failed to update schedule", err)
		return
	}
	if err := h.reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to refresh schedules", err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(entry, nil))
}

// DeleteSchedule removes an entry (external mutation).
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := schedule.EntryID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteSchedule(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete schedule", err)
		return
	}
	if err := h.reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to refresh schedules", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reschedule drives a full drag session for one entry: pickup, drop on the
// target date, commit, refresh. The snapshot only changes after the store
// acknowledges the move.
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id := schedule.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Store.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get schedule", err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Schedule not found", nil)
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	target, err := schedule.ParseDate(req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target_date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.rescheduler.Pickup(*entry); err != nil {
		writeDomainError(w, "Cannot start drag session", err)
		return
	}
	if err := h.rescheduler.Drop(r.Context(), target); err != nil {
		writeDomainError(w, "Reschedule failed", err)
		return
	}

	moved := *entry
	moved.WorkDate = target
	writeJSON(w, http.StatusOK, toScheduleDTO(moved, nil))
}

func entryFromRequest(req SaveScheduleRequest) (schedule.ScheduleEntry, error) {
	workDate, err := schedule.ParseDate(req.WorkDate)
	if err != nil {
		return schedule.ScheduleEntry{}, err
	}
	start, err := schedule.ParseClockTime(req.StartTime)
	if err != nil {
		return schedule.ScheduleEntry{}, err
	}
	end, err := schedule.ParseClockTime(req.EndTime)
	if err != nil {
		return schedule.ScheduleEntry{}, err
	}

	entry := schedule.ScheduleEntry{
		ID:           schedule.EntryID(req.ID),
		EmployeeID:   schedule.EmployeeID(req.EmployeeID),
		WorkDate:     workDate,
		TimeSlotName: req.TimeSlotName,
		StartTime:    start,
		EndTime:      end,
		Notes:        req.Notes,
	}
	if err := entry.Validate(); err != nil {
		return schedule.ScheduleEntry{}, err
	}
	return entry, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the roster.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee adds a roster member and invalidates memoized visibility.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	emp := schedule.Employee{
		ID:           schedule.EmployeeID(req.ID),
		Name:         req.Name,
		SupervisorID: schedule.EmployeeID(req.SupervisorID),
	}
	if emp.ID == "" {
		emp.ID = schedule.EmployeeID(uuid.NewString())
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	// The roster changed; memoized visibility scopes are stale.
	h.visibility.Invalidate()

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetSubordinates returns an employee's direct reports.
func (h *Handler) GetSubordinates(w http.ResponseWriter, r *http.Request) {
	id := schedule.EmployeeID(chi.URLParam(r, "id"))

	subordinates, err := h.Store.DirectSubordinates(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list subordinates", err)
		return
	}

	dtos := make([]EmployeeDTO, len(subordinates))
	for i, emp := range subordinates {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetWorkload returns per-employee scheduled hours over a date range.
func (h *Handler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	entries := h.snapshot()
	if employeeID := r.URL.Query().Get("employee"); employeeID != "" {
		scoped := make([]schedule.ScheduleEntry, 0, len(entries))
		for _, e := range entries {
			if e.EmployeeID == schedule.EmployeeID(employeeID) {
				scoped = append(scoped, e)
			}
		}
		entries = scoped
	}

	summaries := schedule.SummarizeWorkload(entries, from, to)
	dtos := make([]WorkloadDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = WorkloadDTO{
			EmployeeID: string(s.EmployeeID),
			Entries:    s.Entries,
			TotalHours: s.TotalHours.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LABEL HANDLERS
// =============================================================================

// ListDayLabels returns the exact-date auxiliary labels.
func (h *Handler) ListDayLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.Store.ListDayLabels(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list labels", err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// SetDayLabel sets or clears an exact-date label.
func (h *Handler) SetDayLabel(w http.ResponseWriter, r *http.Request) {
	var req DayLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.SaveDayLabel(r.Context(), date, req.Label); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save label", err)
		return
	}
	h.Labels.SetOverride(date, req.Label)

	writeJSON(w, http.StatusOK, map[string]string{"date": date.String(), "label": req.Label})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseRange(r *http.Request) (schedule.Date, schedule.Date, error) {
	var from, to schedule.Date
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := schedule.ParseDate(s)
		if err != nil {
			return schedule.Date{}, schedule.Date{}, err
		}
		from = d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := schedule.ParseDate(s)
		if err != nil {
			return schedule.Date{}, schedule.Date{}, err
		}
		to = d
	}
	return from, to, nil
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps schedule package errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, schedule.ErrDragInProgress) || errors.Is(err, schedule.ErrCommitInFlight):
		writeError(w, http.StatusConflict, message, err)
	case schedule.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case schedule.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
