package user

import (
	errors "github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/core/validation"
)

type CreateUserDTO struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	Role         string `json:"role"`
	SupervisorID *int64 `json:"supervisor_id"`
	ApproverID   *int64 `json:"approver_id"`
}

func (d *CreateUserDTO) Validate() *errors.AppError {
	if err := validation.NewValidator().
		Field("first_name", d.FirstName).Required().MaxLength(100).
		Field("last_name", d.LastName).Required().MaxLength(100).
		Field("email", d.Email).Required().MaxLength(255).
		Field("password", d.Password).Required().
		Field("role", d.Role).Required().
		Field("phone", d.Phone).Phone().
		Validate(); err != nil {
		return err
	}

	if d.Role != errors.RoleAdmin && (d.SupervisorID == nil || d.ApproverID == nil) {
		return ErrApproverMissing
	}
	return nil
}

// UpdateUserDTO is the allow-list for PATCH. Email is intentionally absent
// from the writable set; sending one is rejected at the service layer.
type UpdateUserDTO struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Gender       *string `json:"gender"`
	Role         *string `json:"role"`
	SupervisorID *int64  `json:"supervisor_id"`
	ApproverID   *int64  `json:"approver_id"`
	IsActive     *bool   `json:"is_active"`
}

func (d *UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.FirstName != nil {
		v.Field("first_name", *d.FirstName).Required().MaxLength(100)
	}
	if d.LastName != nil {
		v.Field("last_name", *d.LastName).Required().MaxLength(100)
	}
	if d.Phone != nil {
		v.Field("phone", *d.Phone).Phone()
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required()
	}
	return v.Validate()
}
