package timesheet

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// Approval states of a weekly timesheet.
const (
	StatusDraft    = "DRAFT"
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusRecalled = "RECALLED"
)

// Timesheet covers one ISO week for one user. Name, start and end are all
// derived from the calendar at creation and never drift apart.
type Timesheet struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	StartDate  time.Time `json:"start_date" gorm:"column:start_date;not null"`
	EndDate    time.Time `json:"end_date" gorm:"column:end_date;not null"`
	Approval   string    `json:"approval" gorm:"not null;default:DRAFT"`
	Feedback   string    `json:"feedback,omitempty"`
	IsActive   bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsArchived bool      `json:"-" gorm:"column:is_archived;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

// CanEdit reports whether metadata edits are allowed. Hours edits are
// narrower, see HoursEditable.
func (t *Timesheet) CanEdit() bool {
	switch t.Approval {
	case StatusDraft, StatusRejected, StatusRecalled:
		return true
	}
	return false
}

func (t *Timesheet) CanDelete() bool {
	return t.Approval == StatusDraft
}

func (t *Timesheet) CanSubmit() bool {
	return t.Approval == StatusDraft || t.Approval == StatusRejected
}

// HoursEditable reports whether task hours may be written. A recalled sheet
// must first be accepted back to draft.
func (t *Timesheet) HoursEditable() bool {
	return t.Approval == StatusDraft || t.Approval == StatusRejected
}

// ListEntry is an approver-side row joined with the owner's name.
type ListEntry struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Approval     string    `json:"approval"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
}

var (
	ErrTimesheetNotFound  = internal.NewNotFoundError("timesheet not found", internal.ErrCodeTimesheetNotFound)
	ErrDuplicateTimesheet = internal.NewConflictError("a timesheet for this week already exists", internal.ErrCodeDuplicateTimesheet)
	ErrNotOwner           = internal.NewForbiddenError("only the timesheet owner may perform this action", internal.ErrCodeNotOwner)
	ErrNotApprover        = internal.NewForbiddenError("only the designated approver may perform this action", internal.ErrCodeNotApprover)
	ErrApproverMissing    = internal.NewInvalidStateError("no approver is assigned for this user", internal.ErrCodeApproverMissing)
	ErrNotEditable        = internal.NewInvalidStateError("timesheet cannot be edited in its current state", internal.ErrCodeNotEditableState)
	ErrNotDeletable       = internal.NewInvalidStateError("only a draft timesheet can be deleted", internal.ErrCodeNotDeletableState)
	ErrNotSubmittable     = internal.NewInvalidStateError("timesheet cannot be submitted in its current state", internal.ErrCodeNotSubmittable)
	ErrNotRecallable      = internal.NewInvalidStateError("only an approved timesheet can be recalled", internal.ErrCodeNotRecallable)
	ErrTransitionConflict = internal.NewConflictError("timesheet state changed concurrently", internal.ErrCodeTransitionConflict)
	ErrAlreadyApproved    = internal.NewConflictError("timesheet is already approved", internal.ErrCodeTransitionConflict)
	ErrAlreadyRejected    = internal.NewConflictError("timesheet is already rejected", internal.ErrCodeTransitionConflict)
	ErrRejectApproved     = internal.NewConflictError("timesheet cannot be rejected after approval", internal.ErrCodeTransitionConflict)
	ErrMissingFeedback    = internal.NewValidationError("feedback is required when rejecting a timesheet", internal.ErrCodeMissingFeedback)
	ErrHoursLocked        = internal.NewInvalidStateError("task hours can only change while the timesheet is in draft or rejected state", internal.ErrCodeHoursLocked)
)
