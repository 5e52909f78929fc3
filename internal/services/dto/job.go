package dto

import (
	"time"

	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/models"
)

type RequiredSkillRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Level     string `json:"level" validate:"max=50"`
	Mandatory bool   `json:"mandatory"`
}

type CreateJobRequest struct {
	Title          string                 `json:"title" validate:"required,max=300"`
	Description    string                 `json:"description" validate:"max=10000"`
	Location       string                 `json:"location" validate:"max=200"`
	EmploymentType string                 `json:"employment_type" validate:"max=50"`
	RequiredSkills []RequiredSkillRequest `json:"required_skills" validate:"omitempty,max=50,dive"`
	MinNSQFLevel   int                    `json:"min_nsqf_level" validate:"nsqf-level"`
	Status         models.JobStatus       `json:"status" validate:"omitempty,job-status"`
	Deadline       *time.Time             `json:"deadline"`
}

type UpdateJobRequest struct {
	Title          *string                `json:"title" validate:"omitempty,min=1,max=300"`
	Description    *string                `json:"description" validate:"omitempty,max=10000"`
	Location       *string                `json:"location" validate:"omitempty,max=200"`
	EmploymentType *string                `json:"employment_type" validate:"omitempty,max=50"`
	RequiredSkills []RequiredSkillRequest `json:"required_skills" validate:"omitempty,max=50,dive"`
	MinNSQFLevel   *int                   `json:"min_nsqf_level" validate:"omitempty,nsqf-level"`
	Deadline       *time.Time             `json:"deadline"`
}

type JobStatusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,job-status"`
}

type JobListQuery struct {
	Status   models.JobStatus `form:"status" validate:"omitempty,job-status"`
	Search   string           `form:"search" validate:"max=100"`
	Location string           `form:"location" validate:"max=100"`
	PageQuery
}

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter" validate:"max=5000"`
}

type InviteRequest struct {
	LearnerID string `json:"learner_id" validate:"required,uuid"`
	Message   string `json:"message" validate:"max=2000"`
}

type ApplicantResponse struct {
	ApplicationID string                   `json:"application_id"`
	LearnerID     string                   `json:"learner_id"`
	FullName      string                   `json:"full_name"`
	Headline      string                   `json:"headline"`
	CoverLetter   string                   `json:"cover_letter"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedAt     time.Time                `json:"applied_at"`
}

// LearnerMatch is one learner ranked against a job.
type LearnerMatch struct {
	LearnerID string `json:"learner_id"`
	FullName  string `json:"full_name"`
	Headline  string `json:"headline"`
	MaxLevel  int    `json:"max_nsqf_level"`
	algorithms.MatchResult
}

// JobMatch is one job ranked for a learner.
type JobMatch struct {
	Job *models.Job `json:"job"`
	algorithms.MatchResult
}
