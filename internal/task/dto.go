package task

import (
	"time"

	errors "github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/core/validation"
)

const dateLayout = "2006-01-02"

type CreateTaskDTO struct {
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (d *CreateTaskDTO) Validate() *errors.AppError {
	if err := validation.NewValidator().
		Field("name", d.Name).Required().MaxLength(100).
		Field("project_id", d.ProjectID).Required().
		Validate(); err != nil {
		return err
	}
	if _, err := parseDate(d.StartDate); err != nil {
		return err
	}
	if _, err := parseDate(d.EndDate); err != nil {
		return err
	}
	return nil
}

type UpdateTaskDTO struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

func (d *UpdateTaskDTO) Validate() *errors.AppError {
	if d.Name != nil {
		if err := validation.NewValidator().
			Field("name", *d.Name).Required().MaxLength(100).
			Validate(); err != nil {
			return err
		}
	}
	if d.StartDate != nil {
		if _, err := parseDate(*d.StartDate); err != nil {
			return err
		}
	}
	if d.EndDate != nil {
		if _, err := parseDate(*d.EndDate); err != nil {
			return err
		}
	}
	return nil
}

func parseDate(s string) (*time.Time, *errors.AppError) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errors.NewValidationError("date must be formatted YYYY-MM-DD", errors.ErrCodeInvalidDate)
	}
	return &t, nil
}
