// Package mail wraps the outbound mail transport behind a small interface so
// services can be tested without a delivery provider.
package mail

import (
	"context"

	"github.com/resend/resend-go/v2"

	"github.com/endcrown/liberty-engine/internal/logging"
)

// Message is a plain-text outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers a single message or reports an error. Callers decide
// whether a delivery error is fatal; sign-up logs and continues.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	}
	_, err := m.client.Emails.SendWithContext(ctx, params)
	return err
}

// LogMailer logs messages instead of delivering them. Used in development
// when no mail provider is configured.
type LogMailer struct {
	Log logging.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.Log.Info(ctx, "mail (not delivered)", "to", msg.To, "subject", msg.Subject)
	return nil
}
