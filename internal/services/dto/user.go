package dto

import "credmatrix_backend/internal/models"

type UserListQuery struct {
	Role     models.UserRole `form:"role" validate:"omitempty,user-role"`
	IsActive *bool           `form:"is_active"`
	Search   string          `form:"search" validate:"max=100"`
	PageQuery
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
