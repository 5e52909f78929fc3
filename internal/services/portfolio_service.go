package services

import (
	"context"
	"errors"
	"strings"

	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	shareTokenBytes  = 32
	recentViewsLimit = 20
)

type PortfolioService interface {
	Get(ctx context.Context, db *gorm.DB, learnerID string) (*models.Portfolio, error)
	Update(ctx context.Context, db *gorm.DB, learnerID string, req *dto.UpdatePortfolioRequest) (*models.Portfolio, error)
	// Share issues a fresh token, replacing any previous one.
	Share(ctx context.Context, db *gorm.DB, learnerID string) (*dto.ShareResponse, error)
	Unshare(ctx context.Context, db *gorm.DB, learnerID string) (*models.Portfolio, error)
	// ViewByToken counts a view and returns the public payload.
	ViewByToken(ctx context.Context, db *gorm.DB, token, ip, userAgent string) (*dto.PublicPortfolioResponse, error)
	Analytics(ctx context.Context, db *gorm.DB, learnerID string) (*dto.PortfolioAnalytics, error)
}

type PortfolioOptions struct {
	PublicURL        string
	ViewHistoryLimit int
}

type portfolioService struct {
	portfolioRepo   repositories.PortfolioRepository
	profileRepo     repositories.ProfileRepository
	credentialRepo  repositories.CredentialRepository
	achievementRepo repositories.AchievementRepository
	opts            PortfolioOptions
	newToken        func(n int) (string, error)
	clock           clock
}

func NewPortfolioService(
	portfolioRepo repositories.PortfolioRepository,
	profileRepo repositories.ProfileRepository,
	credentialRepo repositories.CredentialRepository,
	achievementRepo repositories.AchievementRepository,
	opts PortfolioOptions,
) PortfolioService {
	if opts.ViewHistoryLimit <= 0 {
		opts.ViewHistoryLimit = repositories.DefaultViewHistoryLimit
	}
	return &portfolioService{
		portfolioRepo:   portfolioRepo,
		profileRepo:     profileRepo,
		credentialRepo:  credentialRepo,
		achievementRepo: achievementRepo,
		opts:            opts,
		newToken:        auth.GenerateOpaqueToken,
	}
}

func (s *portfolioService) Get(ctx context.Context, db *gorm.DB, learnerID string) (*models.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetOrCreate(db, learnerID)
	if err != nil {
		return nil, handlePortfolioError(err)
	}
	return portfolio, nil
}

func (s *portfolioService) Update(ctx context.Context, db *gorm.DB, learnerID string, req *dto.UpdatePortfolioRequest) (*models.Portfolio, error) {
	if _, err := s.portfolioRepo.GetOrCreate(db, learnerID); err != nil {
		return nil, handlePortfolioError(err)
	}

	settings := repositories.PortfolioSettings{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		settings.Title = &title
	}
	if req.Summary != nil {
		summary := strings.TrimSpace(*req.Summary)
		settings.Summary = &summary
	}

	portfolio, err := s.portfolioRepo.Update(db, learnerID, settings)
	if err != nil {
		return nil, handlePortfolioError(err)
	}
	return portfolio, nil
}

func (s *portfolioService) Share(ctx context.Context, db *gorm.DB, learnerID string) (*dto.ShareResponse, error) {
	if _, err := s.portfolioRepo.GetOrCreate(db, learnerID); err != nil {
		return nil, handlePortfolioError(err)
	}

	token, err := s.newToken(shareTokenBytes)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	portfolio, err := s.portfolioRepo.SetShareToken(db, learnerID, token, s.clock.now())
	if err != nil {
		return nil, handlePortfolioError(err)
	}

	logger.CtxInfo(ctx, "Portfolio shared", "portfolio_id", portfolio.ID)
	resp := &dto.ShareResponse{
		ShareToken: token,
		ShareURL:   strings.TrimRight(s.opts.PublicURL, "/") + "/" + token,
	}
	if portfolio.SharedAt != nil {
		resp.SharedAt = *portfolio.SharedAt
	}
	return resp, nil
}

func (s *portfolioService) Unshare(ctx context.Context, db *gorm.DB, learnerID string) (*models.Portfolio, error) {
	portfolio, err := s.portfolioRepo.ClearShareToken(db, learnerID)
	if err != nil {
		return nil, handlePortfolioError(err)
	}
	logger.CtxInfo(ctx, "Portfolio unshared", "portfolio_id", portfolio.ID)
	return portfolio, nil
}

func (s *portfolioService) ViewByToken(ctx context.Context, db *gorm.DB, token, ip, userAgent string) (*dto.PublicPortfolioResponse, error) {
	if token == "" {
		return nil, apperrors.ErrPortfolioNotFound
	}

	portfolio, err := s.portfolioRepo.RecordView(db, token, ip, userAgent, s.clock.now(), s.opts.ViewHistoryLimit)
	if err != nil {
		return nil, handlePortfolioError(err)
	}

	profile, err := s.profileRepo.FindLearnerByUserID(db, portfolio.LearnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	credentials, err := s.credentialRepo.ListPublicByLearner(db, portfolio.LearnerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	achievements, err := s.achievementRepo.ListByLearner(db, portfolio.LearnerID, true)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Contact details stay private.
	public := *profile
	public.Phone = ""

	return &dto.PublicPortfolioResponse{
		Title:        portfolio.Title,
		Summary:      portfolio.Summary,
		Learner:      &public,
		Credentials:  credentials,
		Achievements: achievements,
		ViewCount:    portfolio.ViewCount,
	}, nil
}

func (s *portfolioService) Analytics(ctx context.Context, db *gorm.DB, learnerID string) (*dto.PortfolioAnalytics, error) {
	portfolio, err := s.portfolioRepo.GetOrCreate(db, learnerID)
	if err != nil {
		return nil, handlePortfolioError(err)
	}
	views, err := s.portfolioRepo.RecentViews(db, portfolio.ID, recentViewsLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if views == nil {
		views = []models.PortfolioView{}
	}
	return &dto.PortfolioAnalytics{
		ViewCount:    portfolio.ViewCount,
		LastViewedAt: portfolio.LastViewedAt,
		IsPublic:     portfolio.IsPublic,
		RecentViews:  views,
	}, nil
}

func handlePortfolioError(err error) error {
	if errors.Is(err, repositories.ErrPortfolioNotFound) {
		return apperrors.ErrPortfolioNotFound
	}
	return apperrors.InternalError(err)
}
