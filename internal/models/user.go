package models

import "time"

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;index" json:"role"`
	TenantID     *string    `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Role variants, at most one is loaded.
	LearnerProfile     *LearnerProfile     `gorm:"foreignKey:UserID" json:"-"`
	InstitutionProfile *InstitutionProfile `gorm:"foreignKey:UserID" json:"-"`
	EmployerProfile    *EmployerProfile    `gorm:"foreignKey:UserID" json:"-"`
	RefreshTokens      []RefreshToken      `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
