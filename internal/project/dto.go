package project

import (
	"time"

	errors "github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/core/validation"
)

const dateLayout = "2006-01-02"

type CreateProjectDTO struct {
	Name      string `json:"name"`
	ClientID  int64  `json:"client_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (d *CreateProjectDTO) Validate() *errors.AppError {
	if err := validation.NewValidator().
		Field("name", d.Name).Required().MaxLength(100).
		Field("client_id", d.ClientID).Required().
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

type UpdateProjectDTO struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

func (d *UpdateProjectDTO) Validate() *errors.AppError {
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
