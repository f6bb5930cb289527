package notification

import "context"

// Email is a fully rendered message ready for delivery.
type Email struct {
	To       string
	Subject  string
	BodyHTML string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}
