package models

import "time"

type Achievement struct {
	BaseModel
	LearnerID   string    `gorm:"type:uuid;not null;index" json:"learner_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Type        string    `gorm:"type:varchar(32)" json:"type"` // award, project, competition, publication, other
	Date        time.Time `json:"date"`
	IsPublic    bool      `gorm:"not null" json:"is_public"`
}
