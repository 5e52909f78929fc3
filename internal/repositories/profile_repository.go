package repositories

import (
	"errors"

	"credmatrix_backend/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	// Create stores whichever role variant p is.
	Create(db *gorm.DB, p models.RoleProfile) error
	Save(db *gorm.DB, p models.RoleProfile) error

	FindLearnerByUserID(db *gorm.DB, userID string) (*models.LearnerProfile, error)
	FindInstitutionByUserID(db *gorm.DB, userID string) (*models.InstitutionProfile, error)
	FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error)
	FindInstitutionByCode(db *gorm.DB, code string) (*models.InstitutionProfile, error)
	InstitutionCodeTaken(db *gorm.DB, code string) (bool, error)

	FindLearnersByUserIDs(db *gorm.DB, userIDs []string) ([]models.LearnerProfile, error)
	ListActiveLearners(db *gorm.DB) ([]models.LearnerProfile, error)
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(db *gorm.DB, p models.RoleProfile) error {
	switch v := p.(type) {
	case *models.LearnerProfile:
		return db.Create(v).Error
	case *models.InstitutionProfile:
		if err := db.Create(v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return nil
	case *models.EmployerProfile:
		return db.Create(v).Error
	case *models.AdminProfile:
		return nil
	default:
		return errors.New("unknown profile variant")
	}
}

func (r *profileRepository) Save(db *gorm.DB, p models.RoleProfile) error {
	switch v := p.(type) {
	case *models.LearnerProfile:
		return db.Save(v).Error
	case *models.InstitutionProfile:
		return db.Save(v).Error
	case *models.EmployerProfile:
		return db.Save(v).Error
	case *models.AdminProfile:
		return nil
	default:
		return errors.New("unknown profile variant")
	}
}

func (r *profileRepository) FindLearnerByUserID(db *gorm.DB, userID string) (*models.LearnerProfile, error) {
	return first[models.LearnerProfile](db, ErrProfileNotFound, "user_id = ?", userID)
}

func (r *profileRepository) FindInstitutionByUserID(db *gorm.DB, userID string) (*models.InstitutionProfile, error) {
	return first[models.InstitutionProfile](db, ErrProfileNotFound, "user_id = ?", userID)
}

func (r *profileRepository) FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error) {
	return first[models.EmployerProfile](db, ErrProfileNotFound, "user_id = ?", userID)
}

func (r *profileRepository) FindInstitutionByCode(db *gorm.DB, code string) (*models.InstitutionProfile, error) {
	return first[models.InstitutionProfile](db, ErrProfileNotFound, "code = ?", code)
}

func (r *profileRepository) InstitutionCodeTaken(db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.Model(&models.InstitutionProfile{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) FindLearnersByUserIDs(db *gorm.DB, userIDs []string) ([]models.LearnerProfile, error) {
	var profiles []models.LearnerProfile
	if len(userIDs) == 0 {
		return profiles, nil
	}
	err := db.Where("user_id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

// ListActiveLearners returns the profiles of every active learner account.
func (r *profileRepository) ListActiveLearners(db *gorm.DB) ([]models.LearnerProfile, error) {
	var profiles []models.LearnerProfile
	err := db.Joins("JOIN users ON users.id = learner_profiles.user_id").
		Where("users.is_active = ? AND users.role = ?", true, models.UserRoleLearner).
		Order("learner_profiles.user_id").
		Find(&profiles).Error
	return profiles, err
}
