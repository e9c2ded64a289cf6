// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// WorkspaceInviteData holds data for workspace invite emails
type WorkspaceInviteData struct {
	WorkspaceName string
	InviteURL     string
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	s.templates["workspace_invite"] = template.Must(template.New("workspace_invite").Parse(`
<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background-color: #f4f5f7; margin: 0; padding: 0; }
  .container { max-width: 600px; margin: 24px auto; background: #ffffff; border-radius: 8px; overflow: hidden; }
  .header { background: #1a7f64; color: #ffffff; padding: 24px 32px; }
  .header h1 { margin: 0; font-size: 20px; }
  .content { padding: 32px; color: #333333; line-height: 1.6; }
  .button { display: inline-block; background: #1a7f64; color: #ffffff !important; padding: 12px 28px; border-radius: 6px; text-decoration: none; font-weight: 600; }
  .footer { padding: 16px 32px; color: #8a8f98; font-size: 12px; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>FinTrack</h1></div>
    <div class="content">
      <p>You have been invited to join the workspace <strong>{{.WorkspaceName}}</strong> on FinTrack.</p>
      <p>Click the button below to accept the invitation and start sharing expenses with your group.</p>
      <p style="margin: 28px 0;"><a class="button" href="{{.InviteURL}}">Join Workspace</a></p>
      <p>If the button does not work, copy this link into your browser:<br>{{.InviteURL}}</p>
    </div>
    <div class="footer">If you were not expecting this invitation, you can safely ignore this email.</div>
  </div>
</body>
</html>
`))
}

// SendWorkspaceInvite sends a workspace invitation email
func (s *Service) SendWorkspaceInvite(workspaceName, to, inviteURL string) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[FinTrack] Invitation to join %s", workspaceName),
		"workspace_invite",
		WorkspaceInviteData{
			WorkspaceName: workspaceName,
			InviteURL:     inviteURL,
		},
	)
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("[Email] Not configured, skipping send")
		return nil
	}

	// Build message
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}
		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}
		for _, rcpt := range email.To {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}
		if _, err = w.Write(msg.Bytes()); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	return smtp.SendMail(addr, auth, s.config.From, email.To, msg.Bytes())
}
