package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// RoleProfile is the role specific half of a user. The set of variants is
// closed: LearnerProfile, InstitutionProfile, EmployerProfile, AdminProfile.
type RoleProfile interface {
	Role() UserRole
	isRoleProfile()
}

type LearnerProfile struct {
	BaseModel
	UserID    string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName  string         `gorm:"not null" json:"full_name"`
	Headline  string         `json:"headline"`
	Bio       string         `json:"bio"`
	Location  string         `json:"location"`
	Phone     string         `json:"phone"`
	Skills    pq.StringArray `gorm:"type:text[]" json:"skills"`
	Education datatypes.JSON `gorm:"type:jsonb" json:"education,omitempty"`
}

type InstitutionProfile struct {
	BaseModel
	UserID        string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name          string `gorm:"not null" json:"name"`
	Code          string `gorm:"uniqueIndex" json:"code"`
	Accreditation string `json:"accreditation"`
	Website       string `json:"website"`
	Address       string `json:"address"`
	IsVerified    bool   `gorm:"default:false" json:"is_verified"`
}

type EmployerProfile struct {
	BaseModel
	UserID      string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CompanyName string `gorm:"not null" json:"company_name"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// AdminProfile has no stored payload.
type AdminProfile struct {
	UserID string `json:"user_id"`
}

func (LearnerProfile) Role() UserRole     { return UserRoleLearner }
func (InstitutionProfile) Role() UserRole { return UserRoleInstitution }
func (EmployerProfile) Role() UserRole    { return UserRoleEmployer }
func (AdminProfile) Role() UserRole       { return UserRoleAdmin }

func (LearnerProfile) isRoleProfile()     {}
func (InstitutionProfile) isRoleProfile() {}
func (EmployerProfile) isRoleProfile()    {}
func (AdminProfile) isRoleProfile()       {}

// Profile returns the variant matching u.Role, or nil when it was not loaded.
func (u *User) Profile() RoleProfile {
	switch u.Role {
	case UserRoleLearner:
		if u.LearnerProfile != nil {
			return u.LearnerProfile
		}
	case UserRoleInstitution:
		if u.InstitutionProfile != nil {
			return u.InstitutionProfile
		}
	case UserRoleEmployer:
		if u.EmployerProfile != nil {
			return u.EmployerProfile
		}
	case UserRoleAdmin:
		return &AdminProfile{UserID: u.ID}
	}
	return nil
}

// DisplayName picks the best human readable name for any role.
func (u *User) DisplayName() string {
	switch p := u.Profile().(type) {
	case *LearnerProfile:
		return p.FullName
	case *InstitutionProfile:
		return p.Name
	case *EmployerProfile:
		return p.CompanyName
	}
	return u.Email
}
