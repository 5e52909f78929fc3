package models

import "time"

type Portfolio struct {
	BaseModel
	LearnerID    string     `gorm:"type:uuid;not null;uniqueIndex" json:"learner_id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	ShareToken   *string    `gorm:"uniqueIndex" json:"share_token,omitempty"`
	IsPublic     bool       `gorm:"default:false" json:"is_public"`
	SharedAt     *time.Time `json:"shared_at,omitempty"`
	ViewCount    int64      `gorm:"default:0" json:"view_count"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
}

type PortfolioView struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PortfolioID string    `gorm:"type:uuid;not null;index:idx_portfolio_view_time,priority:1" json:"-"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	ViewedAt    time.Time `gorm:"not null;index:idx_portfolio_view_time,priority:2" json:"viewed_at"`
}
