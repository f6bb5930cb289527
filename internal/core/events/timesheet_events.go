package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicTimesheetSubmitted      Topic = "timesheet.submitted"
	TopicTimesheetApproved       Topic = "timesheet.approved"
	TopicTimesheetRejected       Topic = "timesheet.rejected"
	TopicTimesheetRecalled       Topic = "timesheet.recalled"
	TopicTimesheetRecallAccepted Topic = "timesheet.recall_accepted"
	TopicPasswordResetRequested  Topic = "user.password_reset_requested"
)

// Party identifies one side of a timesheet notification.
type Party struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// TimesheetEvent carries everything the notification layer needs to build
// an email without going back to storage.
type TimesheetEvent struct {
	BaseEvent
	TimesheetID   int64  `json:"timesheet_id"`
	TimesheetName string `json:"timesheet_name"`
	Owner         Party  `json:"owner"`
	Approver      Party  `json:"approver"`
	Feedback      string `json:"feedback,omitempty"`
}

func NewTimesheetEvent(topic Topic, timesheetID int64, timesheetName string, owner, approver Party, feedback string) *TimesheetEvent {
	return &TimesheetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			EventType: topic,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"timesheet_id":   timesheetID,
				"timesheet_name": timesheetName,
				"owner_email":    owner.Email,
				"approver_email": approver.Email,
			},
		},
		TimesheetID:   timesheetID,
		TimesheetName: timesheetName,
		Owner:         owner,
		Approver:      approver,
		Feedback:      feedback,
	}
}

type PasswordResetEvent struct {
	BaseEvent
	Email    string `json:"email"`
	Name     string `json:"name"`
	ResetURL string `json:"reset_url"`
}

func NewPasswordResetEvent(email, name, resetURL string) *PasswordResetEvent {
	return &PasswordResetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			EventType: TopicPasswordResetRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email": email,
			},
		},
		Email:    email,
		Name:     name,
		ResetURL: resetURL,
	}
}
