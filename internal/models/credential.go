package models

import (
	"time"

	"gorm.io/datatypes"
)

type Credential struct {
	BaseModel
	LearnerID        string                        `gorm:"type:uuid;not null;index:idx_credential_learner_institution,priority:1" json:"learner_id"`
	InstitutionID    *string                       `gorm:"type:uuid;index:idx_credential_learner_institution,priority:2" json:"institution_id,omitempty"`
	Title            string                        `gorm:"not null" json:"title"`
	Type             CredentialType                `gorm:"type:varchar(32);not null" json:"type"`
	Category         string                        `json:"category"`
	Description      string                        `json:"description"`
	CredentialNumber *string                       `gorm:"uniqueIndex" json:"credential_number,omitempty"`
	NSQFLevel        int                           `gorm:"column:nsqf_level;not null;default:1" json:"nsqf_level"`
	Skills           datatypes.JSONSlice[SkillTag] `gorm:"type:jsonb" json:"skills"`
	SkillsSource     DataSource                    `gorm:"type:varchar(16)" json:"skills_source"`
	LevelSource      DataSource                    `gorm:"type:varchar(16)" json:"level_source"`
	Status           VerificationStatus            `gorm:"column:verification_status;type:varchar(16);not null;default:'pending';index" json:"verification_status"`
	VerifiedBy       *string                       `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt       *time.Time                    `json:"verified_at,omitempty"`
	RejectionReason  string                        `json:"rejection_reason,omitempty"`
	IssueDate        *time.Time                    `json:"issue_date,omitempty"`
	ExpiryDate       *time.Time                    `json:"expiry_date,omitempty"`
	File             CredentialFile                `gorm:"embedded;embeddedPrefix:file_" json:"file"`

	Learner     *User `gorm:"foreignKey:LearnerID" json:"-"`
	Institution *User `gorm:"foreignKey:InstitutionID" json:"-"`
}

// CredentialFile describes the stored document. Path doubles as the storage
// deletion identifier.
type CredentialFile struct {
	Path     string `json:"-"`
	URL      string `json:"url"`
	Hash     string `gorm:"index" json:"hash"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Name     string `json:"name"`

	PreviewPath string `json:"-"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// SkillNames returns the credential skill names in stored order.
func (c *Credential) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		names = append(names, s.Name)
	}
	return names
}
