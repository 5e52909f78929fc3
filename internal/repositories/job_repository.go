package repositories

import (
	"strings"
	"time"

	"credmatrix_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobFilter struct {
	Status   models.JobStatus
	Search   string
	Location string
	Page
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	Update(db *gorm.DB, job *models.Job) error
	UpdateStatus(db *gorm.DB, id string, status models.JobStatus) error
	Delete(db *gorm.DB, id string) error
	ListByEmployer(db *gorm.DB, employerID string, filter JobFilter) ([]models.Job, int64, error)
	ListActive(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	AllActive(db *gorm.DB) ([]models.Job, error)
	// CloseExpired closes active jobs whose deadline is before now.
	CloseExpired(db *gorm.DB, now time.Time) (int64, error)
	CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error)

	CreateApplication(db *gorm.DB, application *models.JobApplication) error
	ListApplications(db *gorm.DB, jobID string) ([]models.JobApplication, error)
	ListApplicationsByLearner(db *gorm.DB, learnerID string) ([]models.JobApplication, error)

	CreateInvitation(db *gorm.DB, invitation *models.JobInvitation) error
	ListInvitationsByLearner(db *gorm.DB, learnerID string) ([]models.JobInvitation, error)
}

type jobRepository struct{}

func NewJobRepository() JobRepository {
	return &jobRepository{}
}

func (r *jobRepository) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *jobRepository) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	return first[models.Job](db, ErrJobNotFound, "id = ?", id)
}

func (r *jobRepository) Update(db *gorm.DB, job *models.Job) error {
	return db.Omit(clause.Associations).Save(job).Error
}

func (r *jobRepository) UpdateStatus(db *gorm.DB, id string, status models.JobStatus) error {
	result := db.Model(&models.Job{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Delete removes the job together with its applications and invitations.
func (r *jobRepository) Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.JobInvitation{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Job{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}

func (r *jobRepository) ListByEmployer(db *gorm.DB, employerID string, filter JobFilter) ([]models.Job, int64, error) {
	return r.list(db.Where("employer_id = ?", employerID), filter)
}

func (r *jobRepository) ListActive(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	filter.Status = models.JobStatusActive
	return r.list(db, filter)
}

func (r *jobRepository) list(query *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	query = query.Model(&models.Job{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		query = query.Where("location ILIKE ?", "%"+l+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := query.Order("created_at DESC").Scopes(paginate(filter.Page)).Find(&jobs).Error
	return jobs, total, err
}

func (r *jobRepository) AllActive(db *gorm.DB) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("status = ?", models.JobStatusActive).Order("id").Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) CloseExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.JobStatusActive, now).
		Update("status", models.JobStatusClosed)
	return result.RowsAffected, result.Error
}

func (r *jobRepository) CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	err := db.Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CreateApplication relies on the (job_id, learner_id) unique index.
func (r *jobRepository) CreateApplication(db *gorm.DB, application *models.JobApplication) error {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "learner_id"}},
		DoNothing: true,
	}).Create(application)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationExists
	}
	return nil
}

func (r *jobRepository) ListApplications(db *gorm.DB, jobID string) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := db.Where("job_id = ?", jobID).Order("created_at").Find(&applications).Error
	return applications, err
}

func (r *jobRepository) ListApplicationsByLearner(db *gorm.DB, learnerID string) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := db.Where("learner_id = ?", learnerID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

func (r *jobRepository) CreateInvitation(db *gorm.DB, invitation *models.JobInvitation) error {
	result := db.Omit("Job").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "learner_id"}},
		DoNothing: true,
	}).Create(invitation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationExists
	}
	return nil
}

func (r *jobRepository) ListInvitationsByLearner(db *gorm.DB, learnerID string) ([]models.JobInvitation, error) {
	var invitations []models.JobInvitation
	err := db.Preload("Job").Where("learner_id = ?", learnerID).Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}
