package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timechronos/internal/core/events"
)

// Subscriber renders lifecycle events into emails and hands them to the
// dispatcher.
type Subscriber struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewSubscriber(dispatcher *Dispatcher, logger *slog.Logger) *Subscriber {
	return &Subscriber{dispatcher: dispatcher, logger: logger}
}

// Register wires every notification-bearing event type onto the bus.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.TopicTimesheetSubmitted, s.onTimesheetEvent)
	bus.Subscribe(events.TopicTimesheetApproved, s.onTimesheetEvent)
	bus.Subscribe(events.TopicTimesheetRejected, s.onTimesheetEvent)
	bus.Subscribe(events.TopicTimesheetRecalled, s.onTimesheetEvent)
	bus.Subscribe(events.TopicTimesheetRecallAccepted, s.onTimesheetEvent)
	bus.Subscribe(events.TopicPasswordResetRequested, s.onPasswordReset)
}

func (s *Subscriber) onTimesheetEvent(_ context.Context, event events.Event) error {
	te, ok := event.(*events.TimesheetEvent)
	if !ok {
		s.logger.Warn("unexpected event payload", "event_type", event.Topic())
		return nil
	}

	var email Email
	switch event.Topic() {
	case events.TopicTimesheetSubmitted:
		email = Email{
			To:      te.Approver.Email,
			Subject: "Timesheet Approval Request",
			BodyHTML: fmt.Sprintf(`<h1>Timesheet Approval Request</h1>
<p>Dear %s,</p>
<p>A new timesheet has been requested by %s.</p>
<p>Please review and take the necessary action.</p>`, te.Approver.Name, te.Owner.Name),
		}
	case events.TopicTimesheetApproved:
		email = Email{
			To:      te.Owner.Email,
			Subject: "Timesheet Approved",
			BodyHTML: fmt.Sprintf(`<h1>Timesheet Approved</h1>
<p>Dear %s,</p>
<p>Your timesheet "%s" has been approved.</p>
<p>Please review it at your convenience.</p>`, te.Owner.Name, te.TimesheetName),
		}
	case events.TopicTimesheetRejected:
		email = Email{
			To:      te.Owner.Email,
			Subject: "Timesheet Rejected",
			BodyHTML: fmt.Sprintf(`<h1>Timesheet Rejected</h1>
<p>Dear %s,</p>
<p>Your timesheet "%s" has been rejected.</p>
<p>Feedback: %s</p>
<p>Please review the reason for rejection and make necessary adjustments.</p>`, te.Owner.Name, te.TimesheetName, te.Feedback),
		}
	case events.TopicTimesheetRecalled:
		email = Email{
			To:      te.Approver.Email,
			Subject: "Timesheet Recall Request",
			BodyHTML: fmt.Sprintf(`<h1>Timesheet Recall Request</h1>
<p>Dear %s,</p>
<p>A recall timesheet request has been made by %s for the timesheet "%s".</p>
<p>Please review and approve or reject the recall request.</p>`, te.Approver.Name, te.Owner.Name, te.TimesheetName),
		}
	case events.TopicTimesheetRecallAccepted:
		email = Email{
			To:      te.Owner.Email,
			Subject: "Timesheet Recall Accepted",
			BodyHTML: fmt.Sprintf(`<h1>Timesheet Recall Accepted</h1>
<p>Dear %s,</p>
<p>Your recall request for timesheet "%s" has been accepted.</p>
<p>The timesheet is back in draft and can be edited again.</p>`, te.Owner.Name, te.TimesheetName),
		}
	default:
		return nil
	}

	s.dispatcher.Enqueue(email)
	return nil
}

func (s *Subscriber) onPasswordReset(_ context.Context, event events.Event) error {
	pe, ok := event.(*events.PasswordResetEvent)
	if !ok {
		s.logger.Warn("unexpected event payload", "event_type", event.Topic())
		return nil
	}

	s.dispatcher.Enqueue(Email{
		To:      pe.Email,
		Subject: "Password Reset Request",
		BodyHTML: fmt.Sprintf(`<p>Dear %s,</p>
<p>To reset your password, click the following link: <a href="%s">%s</a></p>`, pe.Name, pe.ResetURL, pe.ResetURL),
	})
	return nil
}
