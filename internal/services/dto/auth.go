package dto

import (
	"encoding/json"
	"time"

	"credmatrix_backend/internal/models"
)

// RegisterRequest creates a user and the profile of its role.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Role     models.UserRole `json:"role" validate:"required,self-role"`

	// learner
	FullName        string `json:"full_name" validate:"required_if=Role learner,max=200"`
	InstitutionCode string `json:"institution_code" validate:"max=50"`

	// institution
	InstitutionName string `json:"institution_name" validate:"required_if=Role institution,max=200"`
	Code            string `json:"code" validate:"required_if=Role institution,max=50"`
	Accreditation   string `json:"accreditation" validate:"max=200"`

	// employer
	CompanyName string `json:"company_name" validate:"required_if=Role employer,max=200"`
	Industry    string `json:"industry" validate:"max=100"`

	Website  string `json:"website" validate:"omitempty,url"`
	Location string `json:"location" validate:"max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresAt    time.Time     `json:"expires_at"`
	User         *UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Role        models.UserRole    `json:"role"`
	TenantID    *string            `json:"tenant_id,omitempty"`
	IsActive    bool               `json:"is_active"`
	DisplayName string             `json:"display_name"`
	LastLoginAt *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Profile     models.RoleProfile `json:"profile,omitempty"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		TenantID:    u.TenantID,
		IsActive:    u.IsActive,
		DisplayName: u.DisplayName(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		Profile:     u.Profile(),
	}
}

// UpdateProfileRequest carries the editable fields of every role variant.
// Fields that do not belong to the caller's role are ignored.
type UpdateProfileRequest struct {
	FullName  *string         `json:"full_name" validate:"omitempty,min=1,max=200"`
	Headline  *string         `json:"headline" validate:"omitempty,max=200"`
	Bio       *string         `json:"bio" validate:"omitempty,max=2000"`
	Phone     *string         `json:"phone" validate:"omitempty,max=30"`
	Skills    []string        `json:"skills" validate:"omitempty,max=100,dive,min=1,max=100"`
	Education json.RawMessage `json:"education"`

	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Accreditation *string `json:"accreditation" validate:"omitempty,max=200"`
	Address       *string `json:"address" validate:"omitempty,max=500"`

	CompanyName *string `json:"company_name" validate:"omitempty,min=1,max=200"`
	Industry    *string `json:"industry" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`

	Website  *string `json:"website" validate:"omitempty,url"`
	Location *string `json:"location" validate:"omitempty,max=200"`
}
