package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationCredentialVerified = "credential_verified"
	NotificationCredentialRejected = "credential_rejected"
	NotificationJobInvitation      = "job_invitation"
	NotificationNewApplication     = "new_application"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"`
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead  bool           `gorm:"default:false" json:"is_read"`
	ReadAt  *time.Time     `json:"read_at,omitempty"`
}
