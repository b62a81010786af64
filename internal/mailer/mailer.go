// Package mailer sends outbound email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("email credentials are not configured")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(opts SMTPOptions) *SMTPSender {
	from := opts.From
	if from == "" {
		from = opts.User
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(opts.Host, opts.Port, opts.User, opts.Password),
		from:   from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.dialer.Username == "" || s.dialer.Password == "" {
		return ErrNotConfigured
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}

// Verify opens and closes an authenticated SMTP session.
func (s *SMTPSender) Verify() error {
	if s.dialer.Username == "" || s.dialer.Password == "" {
		return ErrNotConfigured
	}

	closer, err := s.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp connection failed: %w", err)
	}

	return closer.Close()
}
