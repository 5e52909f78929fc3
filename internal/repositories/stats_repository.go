package repositories

import (
	"credmatrix_backend/internal/models"

	"gorm.io/gorm"
)

type PlatformStats struct {
	UsersByRole         map[models.UserRole]int64           `json:"users_by_role"`
	ActiveUsers         int64                               `json:"active_users"`
	CredentialsByStatus map[models.VerificationStatus]int64 `json:"credentials_by_status"`
	JobsByStatus        map[models.JobStatus]int64          `json:"jobs_by_status"`
	Applications        int64                               `json:"applications"`
	SharedPortfolios    int64                               `json:"shared_portfolios"`
	PortfolioViews      int64                               `json:"portfolio_views"`
}

type StatsRepository interface {
	PlatformStats(db *gorm.DB) (*PlatformStats, error)
}

type statsRepository struct {
	credentials CredentialRepository
	jobs        JobRepository
}

func NewStatsRepository(credentials CredentialRepository, jobs JobRepository) StatsRepository {
	return &statsRepository{credentials: credentials, jobs: jobs}
}

func (r *statsRepository) PlatformStats(db *gorm.DB) (*PlatformStats, error) {
	stats := &PlatformStats{}

	var roles []struct {
		Role  models.UserRole
		Count int64
	}
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error; err != nil {
		return nil, err
	}
	stats.UsersByRole = make(map[models.UserRole]int64, len(roles))
	for _, row := range roles {
		stats.UsersByRole[row.Role] = row.Count
	}

	if err := db.Model(&models.User{}).Where("is_active").Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	var err error
	if stats.CredentialsByStatus, err = r.credentials.CountByStatus(db); err != nil {
		return nil, err
	}
	if stats.JobsByStatus, err = r.jobs.CountByStatus(db); err != nil {
		return nil, err
	}

	if err := db.Model(&models.JobApplication{}).Count(&stats.Applications).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Portfolio{}).Where("is_public").Count(&stats.SharedPortfolios).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Portfolio{}).Select("COALESCE(SUM(view_count), 0)").Scan(&stats.PortfolioViews).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
