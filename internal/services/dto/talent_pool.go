package dto

import "time"

type AddToTalentPoolRequest struct {
	LearnerID string   `json:"learner_id" validate:"required,uuid"`
	Notes     string   `json:"notes" validate:"max=2000"`
	Tags      []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Rating    int      `json:"rating" validate:"min=0,max=5"`
}

type UpdateTalentPoolEntryRequest struct {
	Notes  *string  `json:"notes" validate:"omitempty,max=2000"`
	Tags   []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Rating *int     `json:"rating" validate:"omitempty,min=0,max=5"`
}

type TalentPoolEntryResponse struct {
	LearnerID string    `json:"learner_id"`
	FullName  string    `json:"full_name"`
	Headline  string    `json:"headline"`
	Skills    []string  `json:"skills"`
	Notes     string    `json:"notes"`
	Tags      []string  `json:"tags"`
	Rating    int       `json:"rating"`
	AddedAt   time.Time `json:"added_at"`
}

type TalentPoolResponse struct {
	ID         string                                 `json:"id"`
	EmployerID string                                 `json:"employer_id"`
	Entries    *ListResponse[TalentPoolEntryResponse] `json:"entries"`
}
