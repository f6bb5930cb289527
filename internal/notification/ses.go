package notification

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer delivers through Amazon SES with a fixed verified source
// address.
type SESMailer struct {
	client *ses.Client
	source string
	logger *slog.Logger
}

func NewSESMailer(ctx context.Context, region, source string, logger *slog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &SESMailer{
		client: ses.NewFromConfig(cfg),
		source: source,
		logger: logger,
	}, nil
}

func (m *SESMailer) Send(ctx context.Context, email Email) error {
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.source),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(email.BodyHTML)},
			},
		},
	})
	if err != nil {
		return err
	}

	m.logger.Debug("email sent", "to", email.To, "message_id", aws.ToString(out.MessageId))
	return nil
}

// LogMailer stands in when SES is disabled; messages go to the log instead
// of the wire.
type LogMailer struct {
	Logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.Logger.Info("email suppressed (mailer disabled)", "to", email.To, "subject", email.Subject)
	return nil
}
