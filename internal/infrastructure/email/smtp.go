// Package email delivers notification mail over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/coachhub/coachhub/internal/shared/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/richtext"
)

// Message is a single outbound mail. Body is markdown; it is sent as the
// plain-text part and rendered into the HTML part.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	fromAddress string
	fromName    string
	dialer      sender
	renderer    richtext.Renderer
	logger      logger.Interface
}

func NewSMTPEmailService(cfg config.EmailConfig, log logger.Interface) *SMTPEmailService {
	return &SMTPEmailService{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		renderer:    richtext.NewRenderer(),
		logger:      log,
	}
}

var layout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, Helvetica, Arial, sans-serif; color: #1f2933;">
<h2>{{.Subject}}</h2>
{{.Body}}
<hr>
<p style="font-size: 12px; color: #7b8794;">{{.From}}</p>
</body>
</html>`))

func (s *SMTPEmailService) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Debugw("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// SendMail sends a markdown body to a single recipient.
func (s *SMTPEmailService) SendMail(ctx context.Context, to, toName, subject, body string) error {
	return s.Send(ctx, Message{To: to, ToName: toName, Subject: subject, Body: body})
}

func (s *SMTPEmailService) build(msg Message) (*gomail.Message, error) {
	body, err := s.renderer.Render(msg.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}
	var html bytes.Buffer
	err = layout.Execute(&html, struct {
		Subject string
		Body    template.HTML
		From    string
	}{msg.Subject, template.HTML(body), s.fromName})
	if err != nil {
		return nil, fmt.Errorf("failed to render email layout: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromAddress, s.fromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	m.AddAlternative("text/html", html.String())
	return m, nil
}
