package services

import (
	"context"
	"errors"
	"strings"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AchievementService interface {
	Create(ctx context.Context, db *gorm.DB, learnerID string, req *dto.CreateAchievementRequest) (*models.Achievement, error)
	ListMine(ctx context.Context, db *gorm.DB, learnerID string) ([]models.Achievement, error)
	Update(ctx context.Context, db *gorm.DB, learnerID, id string, req *dto.UpdateAchievementRequest) (*models.Achievement, error)
	Delete(ctx context.Context, db *gorm.DB, learnerID, id string) error
}

type achievementService struct {
	achievementRepo repositories.AchievementRepository
}

func NewAchievementService(achievementRepo repositories.AchievementRepository) AchievementService {
	return &achievementService{achievementRepo: achievementRepo}
}

func (s *achievementService) Create(ctx context.Context, db *gorm.DB, learnerID string, req *dto.CreateAchievementRequest) (*models.Achievement, error) {
	achievement := &models.Achievement{
		LearnerID:   learnerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Date:        req.Date,
		IsPublic:    true,
	}
	if achievement.Type == "" {
		achievement.Type = "other"
	}
	if req.IsPublic != nil {
		achievement.IsPublic = *req.IsPublic
	}

	if err := s.achievementRepo.Create(db, achievement); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return achievement, nil
}

func (s *achievementService) ListMine(ctx context.Context, db *gorm.DB, learnerID string) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.ListByLearner(db, learnerID, false)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return achievements, nil
}

func (s *achievementService) own(db *gorm.DB, learnerID, id string) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.FindByID(db, id)
	if err != nil {
		return nil, handleAchievementError(err)
	}
	// Someone else's achievement is reported as missing.
	if achievement.LearnerID != learnerID {
		return nil, apperrors.ErrAchievementNotFound
	}
	return achievement, nil
}

func (s *achievementService) Update(ctx context.Context, db *gorm.DB, learnerID, id string, req *dto.UpdateAchievementRequest) (*models.Achievement, error) {
	achievement, err := s.own(db, learnerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		achievement.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		achievement.Description = strings.TrimSpace(*req.Description)
	}
	if req.Type != nil {
		achievement.Type = *req.Type
	}
	if req.Date != nil {
		achievement.Date = *req.Date
	}
	if req.IsPublic != nil {
		achievement.IsPublic = *req.IsPublic
	}

	if err := s.achievementRepo.Update(db, achievement); err != nil {
		return nil, handleAchievementError(err)
	}
	return achievement, nil
}

func (s *achievementService) Delete(ctx context.Context, db *gorm.DB, learnerID, id string) error {
	if _, err := s.own(db, learnerID, id); err != nil {
		return err
	}
	return handleAchievementError(s.achievementRepo.Delete(db, id))
}

func handleAchievementError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrAchievementNotFound):
		return apperrors.ErrAchievementNotFound
	}
	return apperrors.InternalError(err)
}
