// Package smtpmail sends HTML email over SMTP with implicit TLS.
package smtpmail

import (
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Config holds SMTP server credentials.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers messages through a single SMTP server.
type Sender struct {
	cfg Config
}

// NewSender creates a new Sender.
func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers an HTML message to a single recipient. Each call opens
// its own connection; mail volume here is one message per registration.
func (s *Sender) Send(to, subject, htmlBody string) error {
	msg, err := s.buildMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *Sender) buildMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", s.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}
