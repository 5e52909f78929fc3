package dto

import (
	"time"

	"credmatrix_backend/internal/models"
)

type UpdatePortfolioRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Summary *string `json:"summary" validate:"omitempty,max=5000"`
}

type ShareResponse struct {
	ShareToken string    `json:"share_token"`
	ShareURL   string    `json:"share_url"`
	SharedAt   time.Time `json:"shared_at"`
}

type PortfolioAnalytics struct {
	ViewCount    int64                  `json:"view_count"`
	LastViewedAt *time.Time             `json:"last_viewed_at,omitempty"`
	IsPublic     bool                   `json:"is_public"`
	RecentViews  []models.PortfolioView `json:"recent_views"`
}

// PublicPortfolioResponse is what a share token reveals.
type PublicPortfolioResponse struct {
	Title        string                 `json:"title"`
	Summary      string                 `json:"summary"`
	Learner      *models.LearnerProfile `json:"learner"`
	Credentials  []models.Credential    `json:"credentials"`
	Achievements []models.Achievement   `json:"achievements"`
	ViewCount    int64                  `json:"view_count"`
}
