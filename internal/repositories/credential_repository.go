package repositories

import (
	"errors"
	"strings"
	"time"

	"credmatrix_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialFilter struct {
	Status models.VerificationStatus
	Type   models.CredentialType
	Search string
	Page
}

// StatusChange is a conditional status transition.
type StatusChange struct {
	From            models.VerificationStatus
	To              models.VerificationStatus
	VerifiedBy      *string
	RejectionReason string
	At              time.Time
}

type CredentialRepository interface {
	Create(db *gorm.DB, credential *models.Credential) error
	FindByID(db *gorm.DB, id string) (*models.Credential, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Credential, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Credential, error)
	FindByNumber(db *gorm.DB, number string) (*models.Credential, error)
	FindByFileHash(db *gorm.DB, hash string) ([]models.Credential, error)
	ListByLearner(db *gorm.DB, learnerID string, filter CredentialFilter) ([]models.Credential, int64, error)
	ListByInstitution(db *gorm.DB, institutionID string, filter CredentialFilter) ([]models.Credential, int64, error)
	ListPublicByLearner(db *gorm.DB, learnerID string) ([]models.Credential, error)
	// ListProfileCredentials returns the credentials that count toward a
	// learner's skills and level, keyed by learner id.
	ListProfileCredentials(db *gorm.DB, learnerIDs []string) (map[string][]models.Credential, error)
	Update(db *gorm.DB, credential *models.Credential) error
	ChangeStatus(db *gorm.DB, id string, change StatusChange) error
	Delete(db *gorm.DB, id string) error
	CountByStatus(db *gorm.DB) (map[models.VerificationStatus]int64, error)
}

type credentialRepository struct{}

func NewCredentialRepository() CredentialRepository {
	return &credentialRepository{}
}

func (r *credentialRepository) Create(db *gorm.DB, credential *models.Credential) error {
	if err := db.Create(credential).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCredentialNumberTaken
		}
		return err
	}
	return nil
}

func (r *credentialRepository) FindByID(db *gorm.DB, id string) (*models.Credential, error) {
	return first[models.Credential](db, ErrCredentialNotFound, "id = ?", id)
}

func (r *credentialRepository) FindByIDForUpdate(db *gorm.DB, id string) (*models.Credential, error) {
	return first[models.Credential](db.Clauses(clause.Locking{Strength: "UPDATE"}), ErrCredentialNotFound, "id = ?", id)
}

func (r *credentialRepository) FindByIDs(db *gorm.DB, ids []string) ([]models.Credential, error) {
	var credentials []models.Credential
	if len(ids) == 0 {
		return credentials, nil
	}
	err := db.Where("id IN ?", ids).Find(&credentials).Error
	return credentials, err
}

func (r *credentialRepository) FindByNumber(db *gorm.DB, number string) (*models.Credential, error) {
	return first[models.Credential](db, ErrCredentialNotFound, "credential_number = ?", strings.TrimSpace(number))
}

func (r *credentialRepository) FindByFileHash(db *gorm.DB, hash string) ([]models.Credential, error) {
	var credentials []models.Credential
	err := db.Where("file_hash = ?", strings.ToLower(hash)).
		Order("created_at").
		Find(&credentials).Error
	return credentials, err
}

func (r *credentialRepository) ListByLearner(db *gorm.DB, learnerID string, filter CredentialFilter) ([]models.Credential, int64, error) {
	return r.list(db.Where("learner_id = ?", learnerID), filter)
}

func (r *credentialRepository) ListByInstitution(db *gorm.DB, institutionID string, filter CredentialFilter) ([]models.Credential, int64, error) {
	return r.list(db.Where("institution_id = ?", institutionID), filter)
}

func (r *credentialRepository) list(query *gorm.DB, filter CredentialFilter) ([]models.Credential, int64, error) {
	query = query.Model(&models.Credential{})
	if filter.Status != "" {
		query = query.Where("verification_status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("title ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var credentials []models.Credential
	err := query.Order("created_at DESC").Scopes(paginate(filter.Page)).Find(&credentials).Error
	return credentials, total, err
}

func (r *credentialRepository) ListPublicByLearner(db *gorm.DB, learnerID string) ([]models.Credential, error) {
	var credentials []models.Credential
	err := db.Where("learner_id = ? AND verification_status = ?", learnerID, models.VerificationVerified).
		Order("issue_date DESC NULLS LAST, created_at DESC").
		Find(&credentials).Error
	return credentials, err
}

func (r *credentialRepository) ListProfileCredentials(db *gorm.DB, learnerIDs []string) (map[string][]models.Credential, error) {
	byLearner := make(map[string][]models.Credential, len(learnerIDs))
	if len(learnerIDs) == 0 {
		return byLearner, nil
	}

	var credentials []models.Credential
	err := db.Where("learner_id IN ? AND verification_status IN ?", learnerIDs,
		[]models.VerificationStatus{models.VerificationPending, models.VerificationVerified}).
		Order("created_at").
		Find(&credentials).Error
	if err != nil {
		return nil, err
	}
	for _, c := range credentials {
		byLearner[c.LearnerID] = append(byLearner[c.LearnerID], c)
	}
	return byLearner, nil
}

func (r *credentialRepository) Update(db *gorm.DB, credential *models.Credential) error {
	if err := db.Omit(clause.Associations).Save(credential).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCredentialNumberTaken
		}
		return err
	}
	return nil
}

// ChangeStatus applies the transition only while the row is still in
// change.From. A lost race returns ErrCredentialStatusChanged.
func (r *credentialRepository) ChangeStatus(db *gorm.DB, id string, change StatusChange) error {
	updates := map[string]interface{}{
		"verification_status": change.To,
		"updated_at":          change.At,
	}
	switch change.To {
	case models.VerificationVerified:
		updates["verified_by"] = change.VerifiedBy
		updates["verified_at"] = change.At
	case models.VerificationRejected:
		updates["verified_by"] = change.VerifiedBy
		updates["rejection_reason"] = change.RejectionReason
	}

	result := db.Model(&models.Credential{}).
		Where("id = ? AND verification_status = ?", id, change.From).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialStatusChanged
	}
	return nil
}

func (r *credentialRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Credential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

func (r *credentialRepository) CountByStatus(db *gorm.DB) (map[models.VerificationStatus]int64, error) {
	var rows []struct {
		Status models.VerificationStatus
		Count  int64
	}
	err := db.Model(&models.Credential{}).
		Select("verification_status AS status, COUNT(*) AS count").
		Group("verification_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.VerificationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
