package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

var builtinTemplates = map[string]string{
	TemplateWelcome: `<p>Hello {{.Name}},</p>
<p>Your {{.Role}} account on CredMatrix is ready.</p>`,
	TemplateCredentialVerified: `<p>Hello {{.Name}},</p>
<p>Your credential <strong>{{.Title}}</strong> was verified by {{.Issuer}}.</p>`,
	TemplateCredentialRejected: `<p>Hello {{.Name}},</p>
<p>Your credential <strong>{{.Title}}</strong> was rejected.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`,
	TemplateJobInvitation: `<p>Hello {{.Name}},</p>
<p>{{.Company}} invited you to apply for <strong>{{.JobTitle}}</strong>.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}`,
	TemplateNewApplication: `<p>{{.LearnerName}} applied for <strong>{{.JobTitle}}</strong>.</p>`,
}

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager returns a manager preloaded with the built in templates.
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
