package sender

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
)

const (
	TemplateForgotPassword    = "forgotPassword"
	TemplateInactivateAccount = "inactivateAccount"
	TemplateActivateAccount   = "activateAccount"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends one of the account templates.
type Mailer interface {
	Send(ctx context.Context, to, subject, templateName string, data map[string]interface{}) error
}

// TemplateMailer renders the embedded HTML templates and hands the result
// to an EmailSender.
type TemplateMailer struct {
	sender    EmailSender
	templates *template.Template
}

func NewTemplateMailer(sender EmailSender) (*TemplateMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &TemplateMailer{sender: sender, templates: tmpl}, nil
}

// Render executes templateName (without extension) against data.
func (m *TemplateMailer) Render(templateName string, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", fmt.Errorf("render %s: %w", templateName, err)
	}
	return buf.String(), nil
}

func (m *TemplateMailer) Send(ctx context.Context, to, subject, templateName string, data map[string]interface{}) error {
	body, err := m.Render(templateName, data)
	if err != nil {
		return err
	}
	if _, err := m.sender.SendEmail(ctx, to, subject, body); err != nil {
		return err
	}
	return nil
}
