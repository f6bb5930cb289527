package project

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// Project belongs to a client; tenant membership is derived through the
// client's company, never stored on the project itself.
type Project struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	ClientID   int64      `json:"client_id" gorm:"column:client_id;not null;index"`
	Name       string     `json:"name" gorm:"not null"`
	StartDate  *time.Time `json:"start_date,omitempty" gorm:"column:start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" gorm:"column:end_date"`
	IsActive   bool       `json:"is_active" gorm:"column:is_active;default:true"`
	IsArchived bool       `json:"-" gorm:"column:is_archived;default:false"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) Archive() {
	p.IsArchived = true
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// ListEntry joins a project with its client for the company listing.
type ListEntry struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	IsActive   bool       `json:"is_active"`
	ClientID   int64      `json:"client_id"`
	ClientName string     `json:"client_name"`
}

var (
	ErrProjectNotFound = internal.NewNotFoundError("project not found", internal.ErrCodeProjectNotFound)
	ErrDuplicateName   = internal.NewConflictError("a project with this name already exists for the client", internal.ErrCodeDuplicateName)
	ErrAdminRequired   = internal.NewForbiddenError("admin role required", internal.ErrCodeAdminRequired)
	ErrClientNotFound  = internal.NewNotFoundError("client not found", internal.ErrCodeClientNotFound)
)
