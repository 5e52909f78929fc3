package repositories

import (
	"time"

	"credmatrix_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultViewHistoryLimit caps stored portfolio views per portfolio.
const DefaultViewHistoryLimit = 500

type PortfolioSettings struct {
	Title   *string
	Summary *string
}

type PortfolioRepository interface {
	GetOrCreate(db *gorm.DB, learnerID string) (*models.Portfolio, error)
	FindByLearner(db *gorm.DB, learnerID string) (*models.Portfolio, error)
	Update(db *gorm.DB, learnerID string, settings PortfolioSettings) (*models.Portfolio, error)
	SetShareToken(db *gorm.DB, learnerID, token string, at time.Time) (*models.Portfolio, error)
	ClearShareToken(db *gorm.DB, learnerID string) (*models.Portfolio, error)
	// RecordView counts one view of a shared portfolio and appends it to the
	// history, keeping at most limit rows. Unknown or unshared tokens return
	// ErrPortfolioNotFound.
	RecordView(db *gorm.DB, token, ip, userAgent string, at time.Time, limit int) (*models.Portfolio, error)
	RecentViews(db *gorm.DB, portfolioID string, limit int) ([]models.PortfolioView, error)
	CountViews(db *gorm.DB, portfolioID string) (int64, error)
}

type portfolioRepository struct{}

func NewPortfolioRepository() PortfolioRepository {
	return &portfolioRepository{}
}

func (r *portfolioRepository) GetOrCreate(db *gorm.DB, learnerID string) (*models.Portfolio, error) {
	portfolio := &models.Portfolio{LearnerID: learnerID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}},
		DoNothing: true,
	}).Create(portfolio).Error
	if err != nil {
		return nil, err
	}
	return r.FindByLearner(db, learnerID)
}

func (r *portfolioRepository) FindByLearner(db *gorm.DB, learnerID string) (*models.Portfolio, error) {
	return first[models.Portfolio](db, ErrPortfolioNotFound, "learner_id = ?", learnerID)
}

func (r *portfolioRepository) Update(db *gorm.DB, learnerID string, settings PortfolioSettings) (*models.Portfolio, error) {
	updates := map[string]interface{}{}
	if settings.Title != nil {
		updates["title"] = *settings.Title
	}
	if settings.Summary != nil {
		updates["summary"] = *settings.Summary
	}
	if len(updates) > 0 {
		if err := r.update(db, learnerID, updates); err != nil {
			return nil, err
		}
	}
	return r.FindByLearner(db, learnerID)
}

// SetShareToken replaces any previous token.
func (r *portfolioRepository) SetShareToken(db *gorm.DB, learnerID, token string, at time.Time) (*models.Portfolio, error) {
	err := r.update(db, learnerID, map[string]interface{}{
		"share_token": token,
		"is_public":   true,
		"shared_at":   at,
	})
	if err != nil {
		return nil, err
	}
	return r.FindByLearner(db, learnerID)
}

func (r *portfolioRepository) ClearShareToken(db *gorm.DB, learnerID string) (*models.Portfolio, error) {
	err := r.update(db, learnerID, map[string]interface{}{
		"share_token": nil,
		"is_public":   false,
	})
	if err != nil {
		return nil, err
	}
	return r.FindByLearner(db, learnerID)
}

func (r *portfolioRepository) update(db *gorm.DB, learnerID string, updates map[string]interface{}) error {
	result := db.Model(&models.Portfolio{}).Where("learner_id = ?", learnerID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

func (r *portfolioRepository) RecordView(db *gorm.DB, token, ip, userAgent string, at time.Time, limit int) (*models.Portfolio, error) {
	if token == "" {
		return nil, ErrPortfolioNotFound
	}
	if limit <= 0 {
		limit = DefaultViewHistoryLimit
	}

	var portfolio models.Portfolio
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&portfolio).
			Clauses(clause.Returning{}).
			Where("share_token = ? AND is_public", token).
			Updates(map[string]interface{}{
				"view_count":     gorm.Expr("view_count + 1"),
				"last_viewed_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPortfolioNotFound
		}

		view := &models.PortfolioView{
			PortfolioID: portfolio.ID,
			IP:          ip,
			UserAgent:   userAgent,
			ViewedAt:    at,
		}
		if err := tx.Create(view).Error; err != nil {
			return err
		}

		return tx.Exec(`
			DELETE FROM portfolio_views
			WHERE portfolio_id = ? AND id NOT IN (
				SELECT id FROM portfolio_views
				WHERE portfolio_id = ?
				ORDER BY viewed_at DESC, id DESC
				LIMIT ?
			)`, portfolio.ID, portfolio.ID, limit).Error
	})
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) RecentViews(db *gorm.DB, portfolioID string, limit int) ([]models.PortfolioView, error) {
	var views []models.PortfolioView
	err := db.Where("portfolio_id = ?", portfolioID).
		Order("viewed_at DESC, id DESC").
		Limit(limit).
		Find(&views).Error
	return views, err
}

func (r *portfolioRepository) CountViews(db *gorm.DB, portfolioID string) (int64, error) {
	var count int64
	err := db.Model(&models.PortfolioView{}).Where("portfolio_id = ?", portfolioID).Count(&count).Error
	return count, err
}
