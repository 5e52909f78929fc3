package handlers

import (
	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	CredentialHandler   *CredentialHandler
	JobHandler          *JobHandler
	AIHandler           *AIHandler
	PortfolioHandler    *PortfolioHandler
	TalentPoolHandler   *TalentPoolHandler
	NotificationHandler *NotificationHandler
}

func NewAppHandlers(v *validator.Validator, s *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, s.Auth),
		UserHandler:         NewUserHandler(base, s.User),
		CredentialHandler:   NewCredentialHandler(base, s.Credential),
		JobHandler:          NewJobHandler(base, s.Job, s.Matching),
		AIHandler:           NewAIHandler(base, s.SkillGap),
		PortfolioHandler:    NewPortfolioHandler(base, s.Portfolio, s.Achievement),
		TalentPoolHandler:   NewTalentPoolHandler(base, s.TalentPool),
		NotificationHandler: NewNotificationHandler(base, s.Notification),
	}
}
