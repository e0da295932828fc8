package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
	BaseURL        string
}

// EmailService sends mail through SendGrid. Without an API key it only logs
// what it would have sent.
type EmailService struct {
	config    *EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	svc := &EmailService{
		config:    config,
		logger:    logger,
		templates: templates,
	}
	if config.SendGridAPIKey != "" {
		svc.client = sendgrid.NewSendClient(config.SendGridAPIKey)
	} else if logger != nil {
		logger.Warn("SENDGRID_API_KEY not set; emails will be logged, not sent")
	}
	return svc, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(ctx context.Context, to, subject, htmlContent string) error {
	if e.client == nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email not sent: no mail provider configured")
		}
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("Failed to send email")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: provider returned status %d", response.StatusCode)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"to":          to,
			"subject":     subject,
			"status_code": response.StatusCode,
		}).Info("Email sent successfully")
	}
	return nil
}

func (e *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// WelcomeEmailData holds data for the welcome template
type WelcomeEmailData struct {
	CompanyName string
	UserName    string
	SiteURL     string
}

// SendWelcomeEmail greets a newly registered user.
func (e *EmailService) SendWelcomeEmail(ctx context.Context, email, userName string) error {
	htmlContent, err := e.renderTemplate("welcome.html", WelcomeEmailData{
		CompanyName: e.config.CompanyName,
		UserName:    userName,
		SiteURL:     e.config.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render welcome email template: %w", err)
	}

	subject := fmt.Sprintf("Welcome to %s", e.config.CompanyName)
	return e.sendEmail(ctx, email, subject, htmlContent)
}
