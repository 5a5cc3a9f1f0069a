package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"contactbook/pkg/mailqueue"
)

//go:embed templates/verification_email.html
var mailTemplates embed.FS

// EmailPublisher pushes a rendered email onto the outgoing mail queue.
type EmailPublisher interface {
	PublishEmail(msg mailqueue.EmailMessage) error
}

// MailService renders verification emails and hands them to the mail
// queue. Actual SMTP delivery happens in the queue consumer.
type MailService struct {
	publisher EmailPublisher
	baseURL   string
	tmpl      *template.Template
}

// NewMailService creates a new MailService. baseURL is the externally
// reachable address of this service, used to build verification links.
func NewMailService(publisher EmailPublisher, baseURL string) (*MailService, error) {
	tmpl, err := template.ParseFS(mailTemplates, "templates/verification_email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification email template: %w", err)
	}
	return &MailService{
		publisher: publisher,
		baseURL:   baseURL,
		tmpl:      tmpl,
	}, nil
}

// SendVerification renders the verification email for the address and
// publishes it to the mail queue.
func (s *MailService) SendVerification(email, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, url.QueryEscape(token))

	var body bytes.Buffer
	err := s.tmpl.Execute(&body, struct{ VerificationLink string }{VerificationLink: link})
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	return s.publisher.PublishEmail(mailqueue.EmailMessage{
		To:      email,
		Subject: "Email Verification",
		Body:    body.String(),
	})
}
