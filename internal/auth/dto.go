package auth

import (
	errors "github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/core/validation"
)

// RegisterDTO creates a tenant and its first user in one shot. Role defaults
// to Admin; an Admin becomes its own supervisor and approver.
type RegisterDTO struct {
	CompanyName string `json:"company_name"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}

func (d *RegisterDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("company_name", d.CompanyName).Required().MaxLength(100).
		Field("firstname", d.FirstName).Required().MaxLength(100).
		Field("email", d.Email).Required().MaxLength(255).
		Field("password", d.Password).Required().
		Field("gender", d.Gender).Required().
		Field("phone", d.Phone).Required().Phone().
		Validate()
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("email", d.Email).Required().
		Field("password", d.Password).Required().
		Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshTokenDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("refresh_token", d.RefreshToken).Required().
		Validate()
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d *ForgotPasswordDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("email", d.Email).Required().
		Validate()
}

type ResetPasswordDTO struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (d *ResetPasswordDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("token", d.Token).Required().
		Field("password", d.Password).Required().
		Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d *ChangePasswordDTO) Validate() *errors.AppError {
	return validation.NewValidator().
		Field("current_password", d.CurrentPassword).Required().
		Field("new_password", d.NewPassword).Required().
		Validate()
}
