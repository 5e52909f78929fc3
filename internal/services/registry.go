package services

import (
	"time"

	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/storage"
)

// Deps are the collaborators built outside the service layer.
type Deps struct {
	Tokens     TokenIssuer
	RefreshTTL time.Duration
	Storage    storage.Storage
	Mailer     email.Provider
	Pusher     Pusher
	SkillAI    SkillAI
	Upload     UploadPolicy
	Portfolio  PortfolioOptions
	// UseSkillOracle asks the AI to judge each required skill in gap analysis.
	UseSkillOracle bool
}

// Repositories groups the stateless repositories shared by the services.
type Repositories struct {
	User         repositories.UserRepository
	Profile      repositories.ProfileRepository
	RefreshToken repositories.RefreshTokenRepository
	Credential   repositories.CredentialRepository
	Job          repositories.JobRepository
	TalentPool   repositories.TalentPoolRepository
	Portfolio    repositories.PortfolioRepository
	Achievement  repositories.AchievementRepository
	Notification repositories.NotificationRepository
	Stats        repositories.StatsRepository
}

func NewRepositories() *Repositories {
	credentials := repositories.NewCredentialRepository()
	jobs := repositories.NewJobRepository()
	return &Repositories{
		User:         repositories.NewUserRepository(),
		Profile:      repositories.NewProfileRepository(),
		RefreshToken: repositories.NewRefreshTokenRepository(),
		Credential:   credentials,
		Job:          jobs,
		TalentPool:   repositories.NewTalentPoolRepository(),
		Portfolio:    repositories.NewPortfolioRepository(),
		Achievement:  repositories.NewAchievementRepository(),
		Notification: repositories.NewNotificationRepository(),
		Stats:        repositories.NewStatsRepository(credentials, jobs),
	}
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	Auth         AuthService
	User         UserService
	Credential   CredentialService
	Job          JobService
	Matching     MatchingService
	SkillGap     SkillGapService
	Portfolio    PortfolioService
	TalentPool   TalentPoolService
	Achievement  AchievementService
	Notification NotificationService
}

func NewServiceContainer(repos *Repositories, deps Deps) *ServiceContainer {
	notifications := NewNotificationService(repos.Notification, deps.Pusher, deps.Mailer)
	matching := NewMatchingService(repos.Job, repos.Profile, repos.Credential)

	return &ServiceContainer{
		Auth: NewAuthService(repos.User, repos.Profile, repos.RefreshToken,
			deps.Tokens, deps.RefreshTTL, deps.Mailer),
		User: NewUserService(repos.User, repos.RefreshToken, repos.Stats),
		Credential: NewCredentialService(repos.Credential, repos.User, deps.Storage,
			deps.SkillAI, notifications, deps.Upload),
		Job:      NewJobService(repos.Job, repos.User, repos.Profile, notifications),
		Matching: matching,
		SkillGap: NewSkillGapService(matching, deps.SkillAI, deps.UseSkillOracle),
		Portfolio: NewPortfolioService(repos.Portfolio, repos.Profile, repos.Credential,
			repos.Achievement, deps.Portfolio),
		TalentPool:   NewTalentPoolService(repos.TalentPool, repos.User, repos.Profile),
		Achievement:  NewAchievementService(repos.Achievement),
		Notification: notifications,
	}
}
