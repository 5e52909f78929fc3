package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	EmployerID     string                             `gorm:"type:uuid;not null;index" json:"employer_id"`
	Title          string                             `gorm:"not null" json:"title"`
	Description    string                             `json:"description"`
	Location       string                             `json:"location"`
	EmploymentType string                             `json:"employment_type"`
	RequiredSkills datatypes.JSONSlice[RequiredSkill] `gorm:"type:jsonb" json:"required_skills"`
	MinNSQFLevel   int                                `gorm:"column:min_nsqf_level;default:0" json:"min_nsqf_level"`
	Status         JobStatus                          `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`
	Deadline       *time.Time                         `json:"deadline,omitempty"`

	Applications []JobApplication `gorm:"foreignKey:JobID" json:"-"`
	Invitations  []JobInvitation  `gorm:"foreignKey:JobID" json:"-"`
}

// RequiredSkillNames returns the names of every required skill.
func (j *Job) RequiredSkillNames() []string {
	names := make([]string, 0, len(j.RequiredSkills))
	for _, s := range j.RequiredSkills {
		names = append(names, s.Name)
	}
	return names
}

type JobApplication struct {
	BaseModel
	JobID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_job_application,priority:1" json:"job_id"`
	LearnerID   string            `gorm:"type:uuid;not null;uniqueIndex:idx_job_application,priority:2;index" json:"learner_id"`
	CoverLetter string            `json:"cover_letter"`
	Status      ApplicationStatus `gorm:"type:varchar(16);not null;default:'applied'" json:"status"`
}

type JobInvitation struct {
	BaseModel
	JobID     string `gorm:"type:uuid;not null;uniqueIndex:idx_job_invitation,priority:1" json:"job_id"`
	LearnerID string `gorm:"type:uuid;not null;uniqueIndex:idx_job_invitation,priority:2;index" json:"learner_id"`
	Message   string `json:"message"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
