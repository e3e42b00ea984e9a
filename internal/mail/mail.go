// Package mail delivers one-time codes to users.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer sends a one-time code to an email address. The purpose is either
// "verify" or "reset" and picks the message wording.
type Mailer interface {
	SendCode(ctx context.Context, to, purpose, code string) error
}

// LogMailer writes the code to the log instead of sending mail. Used in
// development and wherever no SMTP server is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendCode implements Mailer.
func (m *LogMailer) SendCode(_ context.Context, to, purpose, code string) error {
	m.logger.Info("one-time code issued", "to", to, "purpose", purpose, "code", code)
	return nil
}

// SMTPMailer sends codes through a plain SMTP relay.
type SMTPMailer struct {
	from   string
	server string
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer that sends through the given relay address
// (host:port).
func NewSMTPMailer(from, server string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{from: from, server: server, logger: logger}
}

// SendCode implements Mailer.
func (m *SMTPMailer) SendCode(_ context.Context, to, purpose, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires shortly.", code)
	if purpose == "reset" {
		subject = "Your password reset code"
		body = fmt.Sprintf("Your password reset code is %s. It expires shortly.", code)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)

	if err := smtp.SendMail(m.server, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Debug("code email sent", "to", to, "purpose", purpose)
	return nil
}
