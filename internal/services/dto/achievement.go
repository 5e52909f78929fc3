package dto

import "time"

type CreateAchievementRequest struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=5000"`
	Type        string    `json:"type" validate:"omitempty,oneof=award project competition publication other"`
	Date        time.Time `json:"date" validate:"required"`
	IsPublic    *bool     `json:"is_public"`
}

type UpdateAchievementRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Type        *string    `json:"type" validate:"omitempty,oneof=award project competition publication other"`
	Date        *time.Time `json:"date"`
	IsPublic    *bool      `json:"is_public"`
}
