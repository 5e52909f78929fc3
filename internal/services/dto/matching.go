package dto

import "credmatrix_backend/internal/algorithms"

type SkillGapRequest struct {
	TargetRole    string   `json:"target_role" validate:"required,max=100"`
	CurrentSkills []string `json:"current_skills" validate:"omitempty,max=200"`
}

type CareerRecommendationsResponse struct {
	CurrentLevel    int                               `json:"current_level"`
	Skills          []string                          `json:"skills"`
	Recommendations []algorithms.CareerRecommendation `json:"recommendations"`
}
