package services

import (
	"context"
	"errors"
	"strings"

	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type TalentPoolService interface {
	Get(ctx context.Context, db *gorm.DB, employerID string, q *dto.PageQuery) (*dto.TalentPoolResponse, error)
	Add(ctx context.Context, db *gorm.DB, employerID string, req *dto.AddToTalentPoolRequest) (*dto.TalentPoolEntryResponse, error)
	UpdateEntry(ctx context.Context, db *gorm.DB, employerID, learnerID string, req *dto.UpdateTalentPoolEntryRequest) (*dto.TalentPoolEntryResponse, error)
	Remove(ctx context.Context, db *gorm.DB, employerID, learnerID string) error
}

type talentPoolService struct {
	poolRepo    repositories.TalentPoolRepository
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewTalentPoolService(
	poolRepo repositories.TalentPoolRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
) TalentPoolService {
	return &talentPoolService{
		poolRepo:    poolRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *talentPoolService) Get(ctx context.Context, db *gorm.DB, employerID string, q *dto.PageQuery) (*dto.TalentPoolResponse, error) {
	pool, err := s.poolRepo.GetOrCreate(db, employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := q.ToPage()
	entries, total, err := s.poolRepo.ListEntries(db, pool.ID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	rows, err := s.entryResponses(db, entries)
	if err != nil {
		return nil, err
	}

	return &dto.TalentPoolResponse{
		ID:         pool.ID,
		EmployerID: pool.EmployerID,
		Entries:    dto.NewListResponse(rows, total, page),
	}, nil
}

func (s *talentPoolService) Add(ctx context.Context, db *gorm.DB, employerID string, req *dto.AddToTalentPoolRequest) (*dto.TalentPoolEntryResponse, error) {
	learner, err := s.userRepo.FindByID(db, req.LearnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrLearnerNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if learner.Role != models.UserRoleLearner {
		return nil, apperrors.ErrLearnerNotFound
	}

	pool, err := s.poolRepo.GetOrCreate(db, employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	entry := &models.TalentPoolEntry{
		TalentPoolID: pool.ID,
		LearnerID:    learner.ID,
		Notes:        strings.TrimSpace(req.Notes),
		Tags:         cleanTags(req.Tags),
		Rating:       req.Rating,
	}
	if err := s.poolRepo.AddEntry(db, entry); err != nil {
		return nil, handleTalentPoolError(err)
	}

	logger.CtxInfo(ctx, "Learner added to talent pool", "pool_id", pool.ID, "learner_id", learner.ID)
	rows, err := s.entryResponses(db, []models.TalentPoolEntry{*entry})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *talentPoolService) UpdateEntry(ctx context.Context, db *gorm.DB, employerID, learnerID string, req *dto.UpdateTalentPoolEntryRequest) (*dto.TalentPoolEntryResponse, error) {
	pool, err := s.poolRepo.GetOrCreate(db, employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var notes *string
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		notes = &trimmed
	}
	var tags []string
	if req.Tags != nil {
		tags = cleanTags(req.Tags)
	}

	entry, err := s.poolRepo.UpdateEntry(db, pool.ID, learnerID, notes, tags, req.Rating)
	if err != nil {
		return nil, handleTalentPoolError(err)
	}
	rows, err := s.entryResponses(db, []models.TalentPoolEntry{*entry})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *talentPoolService) Remove(ctx context.Context, db *gorm.DB, employerID, learnerID string) error {
	pool, err := s.poolRepo.GetOrCreate(db, employerID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	return handleTalentPoolError(s.poolRepo.RemoveEntry(db, pool.ID, learnerID))
}

func (s *talentPoolService) entryResponses(db *gorm.DB, entries []models.TalentPoolEntry) ([]dto.TalentPoolEntryResponse, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.LearnerID)
	}
	profiles, err := s.profileRepo.FindLearnersByUserIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byUser := make(map[string]*models.LearnerProfile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}

	out := make([]dto.TalentPoolEntryResponse, 0, len(entries))
	for _, e := range entries {
		row := dto.TalentPoolEntryResponse{
			LearnerID: e.LearnerID,
			Notes:     e.Notes,
			Tags:      []string(e.Tags),
			Rating:    e.Rating,
			AddedAt:   e.CreatedAt,
			Skills:    []string{},
		}
		if row.Tags == nil {
			row.Tags = []string{}
		}
		if p, ok := byUser[e.LearnerID]; ok {
			row.FullName = p.FullName
			row.Headline = p.Headline
			if p.Skills != nil {
				row.Skills = []string(p.Skills)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// cleanTags trims, lower cases and dedupes tags in first seen order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func handleTalentPoolError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTalentPoolEntryExists):
		return apperrors.ErrAlreadyInTalentPool
	case errors.Is(err, repositories.ErrTalentPoolEntryNotFound):
		return apperrors.ErrTalentPoolEntryNotFound
	}
	return apperrors.InternalError(err)
}
