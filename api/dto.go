/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/roster-engine/schedule"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents a roster member in API responses.
type EmployeeDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SupervisorID string `json:"supervisor_id,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	SupervisorID string `json:"supervisor_id,omitempty"`
}

// ScheduleDTO represents a schedule entry in API responses. ConflictIDs
// lists the visible entries this one overlaps with, for the warning badge.
type ScheduleDTO struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	WorkDate     string   `json:"work_date"`
	TimeSlotName string   `json:"time_slot_name"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Notes        string   `json:"notes,omitempty"`
	ConflictIDs  []string `json:"conflict_ids,omitempty"`
}

// SaveScheduleRequest is the request to create or edit a schedule entry.
type SaveScheduleRequest struct {
	ID           string `json:"id,omitempty"`
	EmployeeID   string `json:"employee_id"`
	WorkDate     string `json:"work_date"`
	TimeSlotName string `json:"time_slot_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        string `json:"notes,omitempty"`
}

// RescheduleRequest carries the drop target for a drag gesture.
type RescheduleRequest struct {
	TargetDate string `json:"target_date"`
}

// CalendarCellDTO represents one day cell in the month grid.
type CalendarCellDTO struct {
	Date           string `json:"date"`
	WeekdayIndex   int    `json:"weekday_index"`
	IsCurrentMonth bool   `json:"is_current_month"`
	IsExtended     bool   `json:"is_extended"`
	IsWeekend      bool   `json:"is_weekend"`
	ScheduleCount  int    `json:"schedule_count"`
	AuxiliaryLabel string `json:"auxiliary_label,omitempty"`
}

// CalendarDTO is the grid response: whole weeks only.
type CalendarDTO struct {
	Month string            `json:"month"`
	Cells []CalendarCellDTO `json:"cells"`
	Weeks int               `json:"weeks"`
}

// WorkloadDTO is one employee's scheduled total over a range.
type WorkloadDTO struct {
	EmployeeID string `json:"employee_id"`
	Entries    int    `json:"entries"`
	TotalHours string `json:"total_hours"`
}

// DayLabelRequest sets or clears an exact-date label.
type DayLabelRequest struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(emp schedule.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:           string(emp.ID),
		Name:         emp.Name,
		SupervisorID: string(emp.SupervisorID),
	}
}

func toScheduleDTO(entry schedule.ScheduleEntry, pool []schedule.ScheduleEntry) ScheduleDTO {
	dto := ScheduleDTO{
		ID:           string(entry.ID),
		EmployeeID:   string(entry.EmployeeID),
		WorkDate:     entry.WorkDate.String(),
		TimeSlotName: entry.TimeSlotName,
		StartTime:    entry.StartTime.String(),
		EndTime:      entry.EndTime.String(),
		Notes:        entry.Notes,
	}
	for _, id := range schedule.ConflictIDs(entry, pool) {
		dto.ConflictIDs = append(dto.ConflictIDs, string(id))
	}
	return dto
}
