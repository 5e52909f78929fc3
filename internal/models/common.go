package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate fills the id client side so callers can use it before commit.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// SkillTag is one extracted or declared skill.
type SkillTag struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// RequiredSkill is a skill a job asks for.
type RequiredSkill struct {
	Name      string `json:"name"`
	Level     string `json:"level,omitempty"`
	Mandatory bool   `json:"mandatory"`
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&LearnerProfile{},
		&InstitutionProfile{},
		&EmployerProfile{},
		&RefreshToken{},
		&Credential{},
		&Job{},
		&JobApplication{},
		&JobInvitation{},
		&TalentPool{},
		&TalentPoolEntry{},
		&Portfolio{},
		&PortfolioView{},
		&Achievement{},
		&Notification{},
	}
}
