package models

import "github.com/lib/pq"

type TalentPool struct {
	BaseModel
	EmployerID string            `gorm:"type:uuid;not null;uniqueIndex" json:"employer_id"`
	Entries    []TalentPoolEntry `gorm:"foreignKey:TalentPoolID" json:"entries"`
}

type TalentPoolEntry struct {
	BaseModel
	TalentPoolID string         `gorm:"type:uuid;not null;uniqueIndex:idx_talent_pool_learner,priority:1" json:"talent_pool_id"`
	LearnerID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_talent_pool_learner,priority:2" json:"learner_id"`
	Notes        string         `json:"notes"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	Rating       int            `gorm:"default:0" json:"rating"`
}
