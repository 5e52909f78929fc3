package repositories

import (
	"credmatrix_backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TalentPoolRepository interface {
	// GetOrCreate returns the employer's pool, creating it on first use.
	GetOrCreate(db *gorm.DB, employerID string) (*models.TalentPool, error)
	// AddEntry inserts atomically; an existing (pool, learner) pair returns
	// ErrTalentPoolEntryExists and leaves the row untouched.
	AddEntry(db *gorm.DB, entry *models.TalentPoolEntry) error
	FindEntry(db *gorm.DB, poolID, learnerID string) (*models.TalentPoolEntry, error)
	UpdateEntry(db *gorm.DB, poolID, learnerID string, notes *string, tags []string, rating *int) (*models.TalentPoolEntry, error)
	RemoveEntry(db *gorm.DB, poolID, learnerID string) error
	ListEntries(db *gorm.DB, poolID string, page Page) ([]models.TalentPoolEntry, int64, error)
}

type talentPoolRepository struct{}

func NewTalentPoolRepository() TalentPoolRepository {
	return &talentPoolRepository{}
}

func (r *talentPoolRepository) GetOrCreate(db *gorm.DB, employerID string) (*models.TalentPool, error) {
	pool := &models.TalentPool{EmployerID: employerID}
	err := db.Omit("Entries").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employer_id"}},
		DoNothing: true,
	}).Create(pool).Error
	if err != nil {
		return nil, err
	}
	return first[models.TalentPool](db, ErrTalentPoolEntryNotFound, "employer_id = ?", employerID)
}

func (r *talentPoolRepository) AddEntry(db *gorm.DB, entry *models.TalentPoolEntry) error {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "talent_pool_id"}, {Name: "learner_id"}},
		DoNothing: true,
	}).Create(entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentPoolEntryExists
	}
	return nil
}

func (r *talentPoolRepository) FindEntry(db *gorm.DB, poolID, learnerID string) (*models.TalentPoolEntry, error) {
	return first[models.TalentPoolEntry](db, ErrTalentPoolEntryNotFound,
		"talent_pool_id = ? AND learner_id = ?", poolID, learnerID)
}

// UpdateEntry changes only the non nil fields.
func (r *talentPoolRepository) UpdateEntry(db *gorm.DB, poolID, learnerID string, notes *string, tags []string, rating *int) (*models.TalentPoolEntry, error) {
	updates := map[string]interface{}{}
	if notes != nil {
		updates["notes"] = *notes
	}
	if tags != nil {
		updates["tags"] = pq.StringArray(tags)
	}
	if rating != nil {
		updates["rating"] = *rating
	}

	if len(updates) > 0 {
		result := db.Model(&models.TalentPoolEntry{}).
			Where("talent_pool_id = ? AND learner_id = ?", poolID, learnerID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrTalentPoolEntryNotFound
		}
	}
	return r.FindEntry(db, poolID, learnerID)
}

func (r *talentPoolRepository) RemoveEntry(db *gorm.DB, poolID, learnerID string) error {
	result := db.Where("talent_pool_id = ? AND learner_id = ?", poolID, learnerID).Delete(&models.TalentPoolEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentPoolEntryNotFound
	}
	return nil
}

func (r *talentPoolRepository) ListEntries(db *gorm.DB, poolID string, page Page) ([]models.TalentPoolEntry, int64, error) {
	query := db.Model(&models.TalentPoolEntry{}).Where("talent_pool_id = ?", poolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TalentPoolEntry
	err := query.Order("rating DESC, created_at DESC").Scopes(paginate(page)).Find(&entries).Error
	return entries, total, err
}
