package timesheet

import (
	"time"

	errors "github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/core/validation"
)

const dateLayout = "2006-01-02"

// CreateTimesheetDTO takes any date; the week, name and bounds are derived
// from the calendar.
type CreateTimesheetDTO struct {
	Date string `json:"date"`
}

func (d *CreateTimesheetDTO) Validate() (time.Time, *errors.AppError) {
	if d.Date == "" {
		return time.Time{}, errors.NewValidationError("date is required", errors.ErrCodeValidationFailed)
	}
	t, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return time.Time{}, errors.NewValidationError("date must be formatted YYYY-MM-DD", errors.ErrCodeInvalidDate)
	}
	return t, nil
}

// UpdateTimesheetDTO is deliberately narrow: derived fields (name, bounds,
// approval) never change through this path. The name in particular encodes
// the week, which the duplicate-per-week rule depends on.
type UpdateTimesheetDTO struct {
	IsActive *bool `json:"is_active"`
}

type RejectDTO struct {
	Feedback string `json:"feedback"`
}

type TaskHoursEntryDTO struct {
	TaskID int64 `json:"task_id"`
	Values []int `json:"values"`
}

func (d *TaskHoursEntryDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("task_id", d.TaskID).Required().
		Field("values", d.Values).WeekValues().
		Validate()
}

type UpsertTaskHoursDTO struct {
	Entries []TaskHoursEntryDTO `json:"entries"`
}

func (d *UpsertTaskHoursDTO) Validate() *errors.AppError {
	if len(d.Entries) == 0 {
		return errors.NewValidationError("at least one task hours entry is required", errors.ErrCodeValidationFailed)
	}
	for _, entry := range d.Entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return nil
}
