// Package notify delivers outbound messages such as confirmation codes.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-mail/mail/v2"
)

// SMTPConfig describes the outgoing mail server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPChannel sends plain-text mail through an SMTP relay
type SMTPChannel struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
}

func NewSMTPChannel(cfg SMTPConfig) *SMTPChannel {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Username != "" {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return &SMTPChannel{cfg: cfg, dialer: d}
}

// Message builds the mail without sending it
func (s *SMTPChannel) Message(to, subject, body string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func (s *SMTPChannel) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.Message(to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogChannel writes messages to the log instead of delivering them
type LogChannel struct {
	from   string
	logger *slog.Logger
}

func NewLogChannel(from string, logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogChannel{from: from, logger: logger}
}

func (l *LogChannel) Send(ctx context.Context, to, subject, body string) error {
	l.logger.InfoContext(ctx, "mail_outbox",
		"from", l.from,
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
