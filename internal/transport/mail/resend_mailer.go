package mail

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendMailer delivers password reset PINs through the Resend API.
type ResendMailer struct {
	from     string
	brand    string
	validFor time.Duration
	send     func(*resend.SendEmailRequest) error
}

func NewResendMailer(apiKey, from, brand string, validFor time.Duration) (*ResendMailer, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil, errors.New("resend mailer missing api key or from address")
	}
	return &ResendMailer{
		from:     strings.TrimSpace(from),
		brand:    brand,
		validFor: validFor,
		send:     clientSender(resend.NewClient(apiKey)),
	}, nil
}

func clientSender(client *resend.Client) func(*resend.SendEmailRequest) error {
	return func(req *resend.SendEmailRequest) error {
		_, err := client.Emails.Send(req)
		return err
	}
}

func (m *ResendMailer) SendPasswordReset(ctx context.Context, email, pin string, resent bool) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	content := buildResetMessage(m.brand, pin, m.validFor, resent)
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: content.Subject,
		Html:    content.HTML,
		Text:    content.Text,
	}
	return sendWithContext(ctx, func() error { return m.send(req) })
}
