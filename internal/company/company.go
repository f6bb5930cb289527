package company

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// Company is the tenant boundary: every user and client hangs off exactly
// one company, and all lookups are scoped by its id.
type Company struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	IsActive   bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsArchived bool      `json:"-" gorm:"column:is_archived;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

// Archive soft-deletes the tenant. Children stay in place and are filtered
// out by the is_archived checks on their own lookups.
func (c *Company) Archive() {
	c.IsArchived = true
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

var (
	ErrCompanyNotFound = internal.NewNotFoundError("company not found", internal.ErrCodeCompanyNotFound)
	ErrDuplicateName   = internal.NewConflictError("a company with this name already exists", internal.ErrCodeDuplicateCompany)
)
