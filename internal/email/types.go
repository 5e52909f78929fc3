package email

// Attachment представляет вложение в email
type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

// Email представляет структуру email сообщения
type Email struct {
	To          []string
	Cc          []string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Template names known to the built in renderer.
const (
	TemplateWelcome            = "welcome"
	TemplateCredentialVerified = "credential_verified"
	TemplateCredentialRejected = "credential_rejected"
	TemplateJobInvitation      = "job_invitation"
	TemplateNewApplication     = "new_application"
)
