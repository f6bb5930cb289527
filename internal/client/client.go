package client

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// Client is a billable contact of a company. Projects hang off clients, so
// tenant scoping for the rest of the work hierarchy resolves through here.
type Client struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	CompanyID  int64     `json:"company_id" gorm:"column:company_id;not null;index"`
	FirstName  string    `json:"firstname" gorm:"column:first_name;not null"`
	LastName   string    `json:"lastname" gorm:"column:last_name"`
	Email      string    `json:"email" gorm:"not null"`
	Phone      string    `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsArchived bool      `json:"-" gorm:"column:is_archived;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) Name() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

func (c *Client) Archive() {
	c.IsArchived = true
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

var (
	ErrClientNotFound = internal.NewNotFoundError("client not found", internal.ErrCodeClientNotFound)
	ErrDuplicateEmail = internal.NewConflictError("a client with this email already exists", internal.ErrCodeDuplicateEmail)
	ErrAdminRequired  = internal.NewForbiddenError("admin role required", internal.ErrCodeAdminRequired)
)
