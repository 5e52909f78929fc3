package email

import (
	"credmatrix_backend/internal/logger"
)

// Provider определяет интерфейс для отправки email
type Provider interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data TemplateData) error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

// NoopProvider logs instead of sending. Used when e-mail is disabled.
type NoopProvider struct{}

func (NoopProvider) Send(email *Email) error {
	logger.Debug("email disabled, message dropped", "to", email.To, "subject", email.Subject)
	return nil
}

func (NoopProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	logger.Debug("email disabled, message dropped", "to", to, "template", templateName)
	return nil
}
