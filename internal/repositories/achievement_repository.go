package repositories

import (
	"credmatrix_backend/internal/models"

	"gorm.io/gorm"
)

type AchievementRepository interface {
	Create(db *gorm.DB, achievement *models.Achievement) error
	FindByID(db *gorm.DB, id string) (*models.Achievement, error)
	ListByLearner(db *gorm.DB, learnerID string, publicOnly bool) ([]models.Achievement, error)
	Update(db *gorm.DB, achievement *models.Achievement) error
	Delete(db *gorm.DB, id string) error
}

type achievementRepository struct{}

func NewAchievementRepository() AchievementRepository {
	return &achievementRepository{}
}

func (r *achievementRepository) Create(db *gorm.DB, achievement *models.Achievement) error {
	return db.Create(achievement).Error
}

func (r *achievementRepository) FindByID(db *gorm.DB, id string) (*models.Achievement, error) {
	return first[models.Achievement](db, ErrAchievementNotFound, "id = ?", id)
}

func (r *achievementRepository) ListByLearner(db *gorm.DB, learnerID string, publicOnly bool) ([]models.Achievement, error) {
	query := db.Where("learner_id = ?", learnerID)
	if publicOnly {
		query = query.Where("is_public")
	}
	var achievements []models.Achievement
	err := query.Order("date DESC, created_at DESC").Find(&achievements).Error
	return achievements, err
}

func (r *achievementRepository) Update(db *gorm.DB, achievement *models.Achievement) error {
	return db.Save(achievement).Error
}

func (r *achievementRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Achievement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAchievementNotFound
	}
	return nil
}
