package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"go-recruitment-crm/config"
)

var ErrNotConfigured = errors.New("email: SMTP is not configured")

type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends HTML mail through an authenticated SMTP relay.
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      sendFunc
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		send:      smtp.SendMail,
	}
}

func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked
// before dialing.
func (s *EmailService) Send(ctx context.Context, msg Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("email: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := s.buildMIME(msg)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, msg.To, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMIME(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

const layoutTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1E3A5F; color: white; padding: 16px 20px; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { padding: 16px 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>{{.Title}}</h2></div>
        <div class="content">{{.Body}}</div>
        {{if .Footer}}<div class="footer">{{.Footer}}</div>{{end}}
    </div>
</body>
</html>`

var layout = template.Must(template.New("layout").Parse(layoutTemplate))

// Render wraps already-sanitised HTML in the standard mail layout.
func Render(title string, bodyHTML template.HTML, footer string) (string, error) {
	var buf bytes.Buffer
	err := layout.Execute(&buf, struct {
		Title  string
		Body   template.HTML
		Footer string
	}{title, bodyHTML, footer})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
