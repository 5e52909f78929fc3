package dto

import (
	"time"

	"credmatrix_backend/internal/models"
)

// CreateCredentialRequest is the multipart form sent with the file.
type CreateCredentialRequest struct {
	Title            string                `form:"title" validate:"required,max=300"`
	Type             models.CredentialType `form:"type" validate:"required,credential-type"`
	Category         string                `form:"category" validate:"max=100"`
	Description      string                `form:"description" validate:"max=5000"`
	CredentialNumber string                `form:"credential_number" validate:"max=100"`
	NSQFLevel        int                   `form:"nsqf_level" validate:"nsqf-level"`
	Skills           []string              `form:"skills" validate:"omitempty,max=50,dive,min=1,max=100"`
	IssueDate        *time.Time            `form:"issue_date" time_format:"2006-01-02"`
	ExpiryDate       *time.Time            `form:"expiry_date" time_format:"2006-01-02"`

	// Set by learners to name the issuer, by institutions to name the learner.
	InstitutionID string `form:"institution_id" validate:"omitempty,uuid"`
	LearnerID     string `form:"learner_id" validate:"omitempty,uuid"`
}

type UpdateCredentialRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Category    *string    `json:"category" validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	NSQFLevel   *int       `json:"nsqf_level" validate:"omitempty,nsqf-level"`
	Skills      []string   `json:"skills" validate:"omitempty,max=50,dive,min=1,max=100"`
	IssueDate   *time.Time `json:"issue_date"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

type CredentialListQuery struct {
	Status models.VerificationStatus `form:"status" validate:"omitempty,verification-status"`
	Type   models.CredentialType     `form:"type" validate:"omitempty,credential-type"`
	Search string                    `form:"search" validate:"max=100"`
	PageQuery
}

type RejectCredentialRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type BulkVerifyRequest struct {
	CredentialIDs []string `json:"credential_ids" validate:"required,min=1,max=100,dive,uuid"`
}

// Bulk verification outcomes.
const (
	BulkNotFound        = "not_found"
	BulkVerified        = "verified"
	BulkAlreadyVerified = "already_verified"
	BulkForbidden       = "forbidden"
	BulkNotPending      = "not_pending"
	BulkFailed          = "failed"
)

type BulkVerifyItem struct {
	CredentialID string `json:"credential_id"`
	Found        bool   `json:"found"`
	Verified     bool   `json:"verified"`
	Status       string `json:"status"`
}

type BulkVerifyResponse struct {
	Results  []BulkVerifyItem `json:"results"`
	Verified int              `json:"verified"`
	Failed   int              `json:"failed"`
}

// PublicCredentialResponse is what anyone can see when verifying a
// credential by number or file.
type PublicCredentialResponse struct {
	ID               string                    `json:"id"`
	Title            string                    `json:"title"`
	Type             models.CredentialType     `json:"type"`
	CredentialNumber *string                   `json:"credential_number,omitempty"`
	NSQFLevel        int                       `json:"nsqf_level"`
	Status           models.VerificationStatus `json:"verification_status"`
	Issuer           string                    `json:"issuer,omitempty"`
	LearnerName      string                    `json:"learner_name"`
	IssueDate        *time.Time                `json:"issue_date,omitempty"`
	VerifiedAt       *time.Time                `json:"verified_at,omitempty"`
}

type VerifyByNumberQuery struct {
	Number string `form:"number" validate:"required,max=100"`
}

type AIPredictLevelRequest struct {
	Title       string                `json:"title" validate:"required,max=300"`
	Type        models.CredentialType `json:"type" validate:"required,credential-type"`
	Category    string                `json:"category" validate:"max=100"`
	Description string                `json:"description" validate:"max=5000"`
	Skills      []string              `json:"skills" validate:"omitempty,max=50"`
}

type AIExtractSkillsRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

type AIResult[T any] struct {
	Value  T                 `json:"value"`
	Source models.DataSource `json:"source"`
}
