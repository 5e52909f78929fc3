package services

import (
	"context"
	"errors"
	"strings"

	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	Create(ctx context.Context, db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*models.Job, error)
	// Get returns any job to its owner and admins, and only active jobs to others.
	Get(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string) (*models.Job, error)
	Update(ctx context.Context, db *gorm.DB, employerID, id string, req *dto.UpdateJobRequest) (*models.Job, error)
	ChangeStatus(ctx context.Context, db *gorm.DB, employerID, id string, status models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, db *gorm.DB, employerID, id string) error
	ListMine(ctx context.Context, db *gorm.DB, employerID string, q *dto.JobListQuery) (*dto.ListResponse[models.Job], error)
	ListActive(ctx context.Context, db *gorm.DB, q *dto.JobListQuery) (*dto.ListResponse[models.Job], error)

	Apply(ctx context.Context, db *gorm.DB, learnerID, jobID string, req *dto.ApplyRequest) (*models.JobApplication, error)
	ListApplicants(ctx context.Context, db *gorm.DB, employerID, jobID string) ([]dto.ApplicantResponse, error)
	ListMyApplications(ctx context.Context, db *gorm.DB, learnerID string) ([]models.JobApplication, error)
	Invite(ctx context.Context, db *gorm.DB, employerID, jobID string, req *dto.InviteRequest) (*models.JobInvitation, error)
	ListInvitations(ctx context.Context, db *gorm.DB, learnerID string) ([]models.JobInvitation, error)
}

type jobService struct {
	jobRepo     repositories.JobRepository
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	notifier    NotificationService
	clock       clock
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	notifier NotificationService,
) JobService {
	return &jobService{
		jobRepo:     jobRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
	}
}

func (s *jobService) Create(ctx context.Context, db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*models.Job, error) {
	job := &models.Job{
		EmployerID:     employerID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: strings.TrimSpace(req.EmploymentType),
		RequiredSkills: requiredSkills(req.RequiredSkills),
		MinNSQFLevel:   req.MinNSQFLevel,
		Status:         req.Status,
		Deadline:       req.Deadline,
	}
	if job.Status == "" {
		job.Status = models.JobStatusDraft
	}
	if job.Status == models.JobStatusActive && s.deadlinePassed(job) {
		return nil, apperrors.ValidationError(map[string]string{"deadline": "must be in the future for an active job"})
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "status", job.Status)
	return job, nil
}

func requiredSkills(in []dto.RequiredSkillRequest) []models.RequiredSkill {
	out := make([]models.RequiredSkill, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		name := strings.TrimSpace(r.Name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, models.RequiredSkill{
			Name:      name,
			Level:     strings.TrimSpace(r.Level),
			Mandatory: r.Mandatory,
		})
	}
	return out
}

func (s *jobService) deadlinePassed(job *models.Job) bool {
	return job.Deadline != nil && job.Deadline.Before(s.clock.now())
}

func (s *jobService) Get(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, id)
	if err != nil {
		return nil, handleJobError(err)
	}
	if role == models.UserRoleAdmin || job.EmployerID == userID {
		return job, nil
	}
	if job.Status != models.JobStatusActive {
		return nil, apperrors.ErrJobNotFound
	}
	return job, nil
}

func (s *jobService) ownJob(db *gorm.DB, employerID, id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, id)
	if err != nil {
		return nil, handleJobError(err)
	}
	if job.EmployerID != employerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, db *gorm.DB, employerID, id string, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, err := s.ownJob(db, employerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.EmploymentType != nil {
		job.EmploymentType = strings.TrimSpace(*req.EmploymentType)
	}
	if req.RequiredSkills != nil {
		job.RequiredSkills = requiredSkills(req.RequiredSkills)
	}
	if req.MinNSQFLevel != nil {
		job.MinNSQFLevel = *req.MinNSQFLevel
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func (s *jobService) ChangeStatus(ctx context.Context, db *gorm.DB, employerID, id string, status models.JobStatus) (*models.Job, error) {
	if !status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "must be one of draft, active, closed"})
	}
	job, err := s.ownJob(db, employerID, id)
	if err != nil {
		return nil, err
	}
	if status == models.JobStatusActive && s.deadlinePassed(job) {
		return nil, apperrors.ErrInvalidStatus("job", "Cannot activate a job whose deadline has passed")
	}

	if err := s.jobRepo.UpdateStatus(db, id, status); err != nil {
		return nil, handleJobError(err)
	}
	job.Status = status
	logger.CtxInfo(ctx, "Job status changed", "job_id", id, "status", status)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, db *gorm.DB, employerID, id string) error {
	if _, err := s.ownJob(db, employerID, id); err != nil {
		return err
	}
	return handleJobError(s.jobRepo.Delete(db, id))
}

func (s *jobService) ListMine(ctx context.Context, db *gorm.DB, employerID string, q *dto.JobListQuery) (*dto.ListResponse[models.Job], error) {
	filter := jobFilter(q)
	items, total, err := s.jobRepo.ListByEmployer(db, employerID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewListResponse(items, total, filter.Page), nil
}

func (s *jobService) ListActive(ctx context.Context, db *gorm.DB, q *dto.JobListQuery) (*dto.ListResponse[models.Job], error) {
	filter := jobFilter(q)
	items, total, err := s.jobRepo.ListActive(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewListResponse(items, total, filter.Page), nil
}

func jobFilter(q *dto.JobListQuery) repositories.JobFilter {
	return repositories.JobFilter{
		Status:   q.Status,
		Search:   q.Search,
		Location: q.Location,
		Page:     q.ToPage(),
	}
}

func (s *jobService) Apply(ctx context.Context, db *gorm.DB, learnerID, jobID string, req *dto.ApplyRequest) (*models.JobApplication, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if job.Status != models.JobStatusActive || s.deadlinePassed(job) {
		return nil, apperrors.ErrJobNotActive
	}

	application := &models.JobApplication{
		JobID:       jobID,
		LearnerID:   learnerID,
		CoverLetter: strings.TrimSpace(req.CoverLetter),
		Status:      models.ApplicationStatusApplied,
	}
	if err := s.jobRepo.CreateApplication(db, application); err != nil {
		return nil, handleJobError(err)
	}

	s.notifyApplication(ctx, db, job, learnerID)
	return application, nil
}

func (s *jobService) notifyApplication(ctx context.Context, db *gorm.DB, job *models.Job, learnerID string) {
	if s.notifier == nil {
		return
	}
	users, err := s.userRepo.FindByIDs(db, []string{job.EmployerID, learnerID})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load users for notification", err, "job_id", job.ID)
		return
	}
	var employer, learner *models.User
	for i := range users {
		switch users[i].ID {
		case job.EmployerID:
			employer = &users[i]
		case learnerID:
			learner = &users[i]
		}
	}
	if employer == nil || learner == nil {
		return
	}

	s.notifier.Notify(ctx, db, Notice{
		UserID:  employer.ID,
		Type:    models.NotificationNewApplication,
		Title:   "New application",
		Message: learner.DisplayName() + " applied for " + job.Title,
		Data:    map[string]any{"job_id": job.ID, "learner_id": learnerID},
		Mail: &Mail{
			To:       employer.Email,
			Subject:  "New application for " + job.Title,
			Template: email.TemplateNewApplication,
			Data:     email.TemplateData{"LearnerName": learner.DisplayName(), "JobTitle": job.Title},
		},
	})
}

func (s *jobService) ListApplicants(ctx context.Context, db *gorm.DB, employerID, jobID string) ([]dto.ApplicantResponse, error) {
	if _, err := s.ownJob(db, employerID, jobID); err != nil {
		return nil, err
	}

	applications, err := s.jobRepo.ListApplications(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	ids := make([]string, 0, len(applications))
	for _, a := range applications {
		ids = append(ids, a.LearnerID)
	}
	profiles, err := s.profileRepo.FindLearnersByUserIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byUser := make(map[string]*models.LearnerProfile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}

	out := make([]dto.ApplicantResponse, 0, len(applications))
	for _, a := range applications {
		row := dto.ApplicantResponse{
			ApplicationID: a.ID,
			LearnerID:     a.LearnerID,
			CoverLetter:   a.CoverLetter,
			Status:        a.Status,
			AppliedAt:     a.CreatedAt,
		}
		if p, ok := byUser[a.LearnerID]; ok {
			row.FullName = p.FullName
			row.Headline = p.Headline
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *jobService) ListMyApplications(ctx context.Context, db *gorm.DB, learnerID string) ([]models.JobApplication, error) {
	applications, err := s.jobRepo.ListApplicationsByLearner(db, learnerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return applications, nil
}

func (s *jobService) Invite(ctx context.Context, db *gorm.DB, employerID, jobID string, req *dto.InviteRequest) (*models.JobInvitation, error) {
	job, err := s.ownJob(db, employerID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed {
		return nil, apperrors.ErrJobNotActive
	}

	learner, err := s.userRepo.FindByID(db, req.LearnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrLearnerNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if learner.Role != models.UserRoleLearner {
		return nil, apperrors.ErrLearnerNotFound
	}

	invitation := &models.JobInvitation{
		JobID:     jobID,
		LearnerID: learner.ID,
		Message:   strings.TrimSpace(req.Message),
	}
	if err := s.jobRepo.CreateInvitation(db, invitation); err != nil {
		return nil, handleJobError(err)
	}

	if s.notifier != nil {
		company := "An employer"
		if employer, err := s.userRepo.FindByID(db, employerID); err == nil {
			company = employer.DisplayName()
		}
		s.notifier.Notify(ctx, db, Notice{
			UserID:  learner.ID,
			Type:    models.NotificationJobInvitation,
			Title:   "Job invitation",
			Message: company + " invited you to apply for " + job.Title,
			Data:    map[string]any{"job_id": job.ID, "invitation_id": invitation.ID},
			Mail: &Mail{
				To:       learner.Email,
				Subject:  "You are invited to apply for " + job.Title,
				Template: email.TemplateJobInvitation,
				Data: email.TemplateData{
					"Name":     learner.DisplayName(),
					"Company":  company,
					"JobTitle": job.Title,
					"Message":  invitation.Message,
				},
			},
		})
	}
	return invitation, nil
}

func (s *jobService) ListInvitations(ctx context.Context, db *gorm.DB, learnerID string) ([]models.JobInvitation, error) {
	invitations, err := s.jobRepo.ListInvitationsByLearner(db, learnerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invitations, nil
}

func handleJobError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrJobNotFound):
		return apperrors.ErrJobNotFound
	case errors.Is(err, repositories.ErrApplicationExists):
		return apperrors.ErrAlreadyApplied
	case errors.Is(err, repositories.ErrInvitationExists):
		return apperrors.ErrAlreadyInvited
	}
	return apperrors.InternalError(err)
}
