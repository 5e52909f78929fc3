package email

import (
	"time"

	"credmatrix_backend/internal/config"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func ConfigFrom(cfg *config.Config) *SMTPConfig {
	c := &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
		Timeout:   30 * time.Second,
	}
	if c.Port == 0 {
		c.Port = 587
	}
	if c.FromName == "" {
		c.FromName = "CredMatrix"
	}
	return c
}
