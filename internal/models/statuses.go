package models

type UserRole string
type VerificationStatus string
type CredentialType string
type JobStatus string
type ApplicationStatus string
type DataSource string

const (
	UserRoleLearner     UserRole = "learner"
	UserRoleInstitution UserRole = "institution"
	UserRoleEmployer    UserRole = "employer"
	UserRoleAdmin       UserRole = "admin"

	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
	VerificationExpired  VerificationStatus = "expired"

	CredentialTypeCertificate     CredentialType = "certificate"
	CredentialTypeDiploma         CredentialType = "diploma"
	CredentialTypeDegree          CredentialType = "degree"
	CredentialTypeMicroCredential CredentialType = "micro-credential"
	CredentialTypeBadge           CredentialType = "badge"
	CredentialTypeOther           CredentialType = "other"

	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"

	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"

	// Provenance of AI derived fields.
	SourceAI       DataSource = "ai"
	SourceFallback DataSource = "fallback"
	SourceManual   DataSource = "manual"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleLearner, UserRoleInstitution, UserRoleEmployer, UserRoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role can be chosen at sign up.
func (r UserRole) SelfRegistrable() bool {
	return r.IsValid() && r != UserRoleAdmin
}

func (t CredentialType) IsValid() bool {
	switch t {
	case CredentialTypeCertificate, CredentialTypeDiploma, CredentialTypeDegree,
		CredentialTypeMicroCredential, CredentialTypeBadge, CredentialTypeOther:
		return true
	}
	return false
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusClosed:
		return true
	}
	return false
}

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected, VerificationExpired:
		return true
	}
	return false
}

// CanTransitionTo encodes pending->verified, pending->rejected and any->expired.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	switch next {
	case VerificationExpired:
		return s != VerificationExpired
	case VerificationVerified, VerificationRejected:
		return s == VerificationPending
	}
	return false
}

// CountsTowardProfile reports whether a credential in this status feeds matching.
func (s VerificationStatus) CountsTowardProfile() bool {
	return s == VerificationPending || s == VerificationVerified
}
