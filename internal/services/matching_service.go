package services

import (
	"context"
	"errors"

	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MatchingService interface {
	// MatchLearnersForJob ranks active learners against a job and keeps the
	// best algorithms.MaxLearnersPerJob.
	MatchLearnersForJob(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, jobID string) ([]dto.LearnerMatch, error)
	// RecommendJobsForLearner ranks every active job for a learner.
	RecommendJobsForLearner(ctx context.Context, db *gorm.DB, learnerID string) ([]dto.JobMatch, error)
	// LearnerSkills returns the learner's merged skill set and max NSQF level.
	LearnerSkills(ctx context.Context, db *gorm.DB, learnerID string) ([]string, int, error)
}

type matchingService struct {
	jobRepo        repositories.JobRepository
	profileRepo    repositories.ProfileRepository
	credentialRepo repositories.CredentialRepository
}

func NewMatchingService(
	jobRepo repositories.JobRepository,
	profileRepo repositories.ProfileRepository,
	credentialRepo repositories.CredentialRepository,
) MatchingService {
	return &matchingService{
		jobRepo:        jobRepo,
		profileRepo:    profileRepo,
		credentialRepo: credentialRepo,
	}
}

func (s *matchingService) MatchLearnersForJob(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, jobID string) ([]dto.LearnerMatch, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if role != models.UserRoleAdmin && job.EmployerID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	profiles, err := s.profileRepo.ListActiveLearners(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	credentials, err := s.credentialRepo.ListProfileCredentials(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	required := job.RequiredSkillNames()
	byID := make(map[string]*models.LearnerProfile, len(profiles))
	levels := make(map[string]int, len(profiles))
	candidates := make([]algorithms.Ranked, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		skills, level := learnerSkillSet(p, credentials[p.UserID])
		byID[p.UserID] = p
		levels[p.UserID] = level
		candidates = append(candidates, algorithms.Ranked{
			ID: p.UserID,
			Match: algorithms.ComputeMatch(algorithms.MatchInput{
				LearnerSkills:  skills,
				RequiredSkills: required,
				LearnerLevel:   level,
				MinNSQFLevel:   job.MinNSQFLevel,
			}),
		})
	}

	ranked := algorithms.Rank(candidates, algorithms.MaxLearnersPerJob)
	out := make([]dto.LearnerMatch, 0, len(ranked))
	for _, r := range ranked {
		p := byID[r.ID]
		out = append(out, dto.LearnerMatch{
			LearnerID:   r.ID,
			FullName:    p.FullName,
			Headline:    p.Headline,
			MaxLevel:    levels[r.ID],
			MatchResult: r.Match,
		})
	}

	logger.CtxDebug(ctx, "Matched learners for job", "job_id", jobID, "candidates", len(candidates), "kept", len(out))
	return out, nil
}

func (s *matchingService) RecommendJobsForLearner(ctx context.Context, db *gorm.DB, learnerID string) ([]dto.JobMatch, error) {
	skills, level, err := s.LearnerSkills(ctx, db, learnerID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.AllActive(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	byID := make(map[string]*models.Job, len(jobs))
	candidates := make([]algorithms.Ranked, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		byID[job.ID] = job
		candidates = append(candidates, algorithms.Ranked{
			ID: job.ID,
			Match: algorithms.ComputeMatch(algorithms.MatchInput{
				LearnerSkills:  skills,
				RequiredSkills: job.RequiredSkillNames(),
				LearnerLevel:   level,
				MinNSQFLevel:   job.MinNSQFLevel,
			}),
		})
	}

	ranked := algorithms.Rank(candidates, 0)
	out := make([]dto.JobMatch, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, dto.JobMatch{Job: byID[r.ID], MatchResult: r.Match})
	}
	return out, nil
}

func (s *matchingService) LearnerSkills(ctx context.Context, db *gorm.DB, learnerID string) ([]string, int, error) {
	profile, err := s.profileRepo.FindLearnerByUserID(db, learnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, 0, apperrors.ErrLearnerNotFound
		}
		return nil, 0, apperrors.InternalError(err)
	}
	credentials, err := s.credentialRepo.ListProfileCredentials(db, []string{learnerID})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	skills, level := learnerSkillSet(profile, credentials[learnerID])
	return skills, level, nil
}
