package services

import (
	"context"
	"time"

	"credmatrix_backend/internal/ai"
	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// SkillAI is the part of the AI adapter the services use.
type SkillAI interface {
	ExtractSkills(ctx context.Context, text string) ai.Result[[]models.SkillTag]
	PredictLevel(ctx context.Context, data ai.CredentialData) ai.Result[int]
	MatchSkill(ctx context.Context, current []string, required string) (matched bool, ok bool)
}

// Pusher delivers live messages to connected users.
type Pusher interface {
	SendToUser(userID string, msg any) bool
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// learnerSkillSet merges profile skills with the skills of credentials that
// still count toward the profile and returns them with the highest NSQF level.
func learnerSkillSet(profile *models.LearnerProfile, credentials []models.Credential) ([]string, int) {
	seen := make(map[string]struct{})
	var skills []string
	add := func(name string) {
		key := algorithms.NormalizeSkills([]string{name})
		if len(key) == 0 {
			return
		}
		if _, ok := seen[key[0]]; ok {
			return
		}
		seen[key[0]] = struct{}{}
		skills = append(skills, name)
	}

	if profile != nil {
		for _, s := range profile.Skills {
			add(s)
		}
	}

	levels := make([]int, 0, len(credentials))
	for _, c := range credentials {
		if !c.Status.CountsTowardProfile() {
			continue
		}
		for _, s := range c.Skills {
			add(s.Name)
		}
		levels = append(levels, c.NSQFLevel)
	}
	return skills, algorithms.MaxLevel(levels)
}

// beginTx starts a transaction or returns an internal error.
func beginTx(db *gorm.DB) (*gorm.DB, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	return tx, nil
}

func commit(tx *gorm.DB) error {
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
