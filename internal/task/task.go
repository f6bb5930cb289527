package task

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// Task is the unit work is logged against. It belongs to a project and is
// tenant-scoped through project -> client -> company.
type Task struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	ProjectID  int64      `json:"project_id" gorm:"column:project_id;not null;index"`
	Name       string     `json:"name" gorm:"not null"`
	StartDate  *time.Time `json:"start_date,omitempty" gorm:"column:start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" gorm:"column:end_date"`
	IsActive   bool       `json:"is_active" gorm:"column:is_active;default:true"`
	IsArchived bool       `json:"-" gorm:"column:is_archived;default:false"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) Archive() {
	t.IsArchived = true
	t.IsActive = false
	t.UpdatedAt = time.Now()
}

// ListEntry joins a task with its project and client for the company listing.
type ListEntry struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	ProjectID   int64      `json:"project_id"`
	ProjectName string     `json:"project_name"`
	ClientID    int64      `json:"client_id"`
	ClientName  string     `json:"client_name"`
}

var (
	ErrTaskNotFound    = internal.NewNotFoundError("task not found", internal.ErrCodeTaskNotFound)
	ErrDuplicateName   = internal.NewConflictError("a task with this name already exists for the project", internal.ErrCodeDuplicateName)
	ErrAdminRequired   = internal.NewForbiddenError("admin role required", internal.ErrCodeAdminRequired)
	ErrProjectNotFound = internal.NewNotFoundError("project not found", internal.ErrCodeProjectNotFound)
)
