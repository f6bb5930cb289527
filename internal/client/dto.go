package client

import (
	errors "github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/core/validation"
)

type CreateClientDTO struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (d *CreateClientDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("firstname", d.FirstName).Required().MaxLength(100).
		Field("email", d.Email).Required().MaxLength(255).
		Field("phone", d.Phone).Phone().
		Validate()
}

type UpdateClientDTO struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

func (d *UpdateClientDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.FirstName != nil {
		v.Field("firstname", *d.FirstName).Required().MaxLength(100)
	}
	if d.Email != nil {
		v.Field("email", *d.Email).Required().MaxLength(255)
	}
	if d.Phone != nil {
		v.Field("phone", *d.Phone).Phone()
	}
	return v.Validate()
}
