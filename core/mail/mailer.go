// Package mail wraps the outbound email transport. The transport is an
// external collaborator; callers depend only on the Mailer interface.
package mail

import (
	"fmt"
	"net/smtp"

	"melodex/config"
	"melodex/logger"
)

// Mailer sends a plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer creates an SMTPMailer from config.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

// Send sends the message via SMTP.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer logs messages instead of sending them. Used when SMTP is
// not configured (development).
type LogMailer struct{}

// Send logs the message.
func (LogMailer) Send(to, subject, body string) error {
	logger.Info("smtp not configured, logging mail instead",
		logger.String("to", to),
		logger.String("subject", subject),
		logger.String("body", body))
	return nil
}

// FromConfig picks the SMTP mailer when a host is configured and the
// logging fallback otherwise.
func FromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
