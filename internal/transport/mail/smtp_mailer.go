package mail

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Brand    string
	ValidFor time.Duration
}

type dialSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers password reset PINs over SMTP.
type SMTPMailer struct {
	from     string
	brand    string
	validFor time.Duration
	dialer   dialSender
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	host := strings.TrimSpace(cfg.Host)
	from := strings.TrimSpace(cfg.From)
	if host == "" || from == "" {
		return nil, errors.New("smtp mailer missing host or from address")
	}
	port, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || port <= 0 {
		port = 587
	}
	return &SMTPMailer{
		from:     from,
		brand:    cfg.Brand,
		validFor: cfg.ValidFor,
		dialer:   gomail.NewDialer(host, port, cfg.Username, cfg.Password),
	}, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, pin string, resent bool) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	content := buildResetMessage(m.brand, pin, m.validFor, resent)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", content.Subject)
	msg.SetBody("text/plain", content.Text)
	msg.AddAlternative("text/html", content.HTML)

	return sendWithContext(ctx, func() error { return m.dialer.DialAndSend(msg) })
}
