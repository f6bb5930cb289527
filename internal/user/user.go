package user

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// User belongs to exactly one company. Supervisor and approver point at other
// users of the same company; the first Admin of a tenant points at itself so
// its own timesheets still have an approver.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	CompanyID    int64     `json:"company_id" gorm:"column:company_id;not null;index"`
	FirstName    string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName     string    `json:"last_name" gorm:"column:last_name;not null"`
	Email        string    `json:"email" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Phone        string    `json:"phone,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Role         string    `json:"role" gorm:"not null"`
	SupervisorID *int64    `json:"supervisor_id,omitempty" gorm:"column:supervisor_id"`
	ApproverID   *int64    `json:"approver_id,omitempty" gorm:"column:approver_id"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsArchived   bool      `json:"-" gorm:"column:is_archived;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == internal.RoleAdmin
}

func (u *User) Archive() {
	u.IsArchived = true
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

// ListEntry is a user row joined with the names of its supervisor and
// approver for the company listing.
type ListEntry struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Role           string `json:"role"`
	SupervisorID   *int64 `json:"supervisor_id,omitempty"`
	ApproverID     *int64 `json:"approver_id,omitempty"`
	SupervisorName string `json:"supervisor_name,omitempty"`
	ApproverName   string `json:"approver_name,omitempty"`
	IsActive       bool   `json:"is_active"`
}

var (
	ErrUserNotFound      = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrDuplicateEmail    = internal.NewConflictError("a user with this email already exists", internal.ErrCodeDuplicateEmail)
	ErrEmailImmutable    = internal.NewConflictError("email cannot be changed", internal.ErrCodeEmailImmutable)
	ErrApproverMissing   = internal.NewValidationError("supervisor and approver are required for non-admin users", internal.ErrCodeApproverMissing)
	ErrAdminRequired     = internal.NewForbiddenError("admin role required", internal.ErrCodeAdminRequired)
	ErrSupervisorInvalid = internal.NewValidationError("supervisor and approver must belong to the same company", internal.ErrCodeApproverMissing)
)
