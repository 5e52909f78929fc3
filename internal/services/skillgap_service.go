package services

import (
	"context"

	"credmatrix_backend/internal/ai"
	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/services/dto"

	"gorm.io/gorm"
)

// CareerRecommendationLimit is how many catalog roles a learner is offered.
const CareerRecommendationLimit = 5

type SkillGapService interface {
	// Analyze compares skills against a target role. When the request carries
	// no skills and the caller is a learner, their profile skills are used.
	Analyze(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, req *dto.SkillGapRequest) (*algorithms.GapAnalysis, error)
	CareerRecommendations(ctx context.Context, db *gorm.DB, learnerID string) (*dto.CareerRecommendationsResponse, error)
	ExtractSkills(ctx context.Context, req *dto.AIExtractSkillsRequest) *dto.AIResult[[]models.SkillTag]
	PredictLevel(ctx context.Context, req *dto.AIPredictLevelRequest) *dto.AIResult[int]
}

type skillGapService struct {
	matching  MatchingService
	skillAI   SkillAI
	useOracle bool
}

func NewSkillGapService(matching MatchingService, skillAI SkillAI, useOracle bool) SkillGapService {
	return &skillGapService{
		matching:  matching,
		skillAI:   skillAI,
		useOracle: useOracle,
	}
}

func (s *skillGapService) Analyze(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, req *dto.SkillGapRequest) (*algorithms.GapAnalysis, error) {
	current := req.CurrentSkills
	if len(current) == 0 && role == models.UserRoleLearner {
		skills, _, err := s.matching.LearnerSkills(ctx, db, userID)
		if err != nil {
			return nil, err
		}
		current = skills
	}

	var judge algorithms.SkillJudge
	if s.useOracle && s.skillAI != nil {
		judge = s.skillAI.MatchSkill
	}

	analysis := algorithms.AnalyzeGap(ctx, current, req.TargetRole, judge)
	logger.CtxDebug(ctx, "Skill gap analysed",
		"target_role", analysis.TargetRole,
		"role_found", analysis.RoleFound,
		"match_percentage", analysis.MatchPercentage,
	)
	return &analysis, nil
}

func (s *skillGapService) CareerRecommendations(ctx context.Context, db *gorm.DB, learnerID string) (*dto.CareerRecommendationsResponse, error) {
	skills, level, err := s.matching.LearnerSkills(ctx, db, learnerID)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	return &dto.CareerRecommendationsResponse{
		CurrentLevel:    level,
		Skills:          skills,
		Recommendations: algorithms.RecommendCareers(skills, level, CareerRecommendationLimit),
	}, nil
}

func (s *skillGapService) ExtractSkills(ctx context.Context, req *dto.AIExtractSkillsRequest) *dto.AIResult[[]models.SkillTag] {
	res := s.skillAI.ExtractSkills(ctx, req.Text)
	skills := res.Value
	if skills == nil {
		skills = []models.SkillTag{}
	}
	return &dto.AIResult[[]models.SkillTag]{Value: skills, Source: res.Source}
}

func (s *skillGapService) PredictLevel(ctx context.Context, req *dto.AIPredictLevelRequest) *dto.AIResult[int] {
	res := s.skillAI.PredictLevel(ctx, ai.CredentialData{
		Title:       req.Title,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Skills:      req.Skills,
	})
	return &dto.AIResult[int]{Value: res.Value, Source: res.Source}
}
