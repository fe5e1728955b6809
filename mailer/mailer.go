// path: mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outbound email. Text is used for carrier SMS gateways,
// which reject HTML bodies.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message. Implementations must treat every call as
// fallible and bounded; callers never assume delivery ordering.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// GatewayError is a delivery failure reported by the email provider.
type GatewayError struct {
	To         string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("email gateway: send to %s: %v", e.To, e.Err)
	}
	return fmt.Sprintf("email gateway: send to %s: status %d", e.To, e.StatusCode)
}

func (e *GatewayError) Unwrap() error { return e.Err }

const sendTimeout = 10 * time.Second

// SendGrid sends through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	from   string
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (s *SendGrid) Send(ctx context.Context, m Message) error {
	sctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := mail.NewSingleEmail(
		mail.NewEmail("", s.from),
		m.Subject,
		mail.NewEmail("", m.To),
		m.Text,
		m.HTML,
	)
	resp, err := s.client.SendWithContext(sctx, msg)
	if err != nil {
		return &GatewayError{To: m.To, Err: err}
	}
	if resp.StatusCode >= 400 {
		return &GatewayError{To: m.To, StatusCode: resp.StatusCode}
	}
	return nil
}
