package services

import (
	"context"

	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserService holds the admin side of account management.
type UserService interface {
	List(ctx context.Context, db *gorm.DB, q *dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error)
	Get(ctx context.Context, db *gorm.DB, id string) (*dto.UserResponse, error)
	// SetActive toggles an account. Deactivation also revokes its refresh tokens.
	SetActive(ctx context.Context, db *gorm.DB, adminID, userID string, active bool) (*dto.UserResponse, error)
	Stats(ctx context.Context, db *gorm.DB) (*repositories.PlatformStats, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	statsRepo   repositories.StatsRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	refreshRepo repositories.RefreshTokenRepository,
	statsRepo repositories.StatsRepository,
) UserService {
	return &userService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		statsRepo:   statsRepo,
	}
}

func (s *userService) List(ctx context.Context, db *gorm.DB, q *dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	filter := repositories.UserFilter{
		Role:     q.Role,
		IsActive: q.IsActive,
		Search:   q.Search,
		Page:     q.ToPage(),
	}
	users, total, err := s.userRepo.List(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *dto.NewUserResponse(&users[i]))
	}
	return dto.NewListResponse(items, total, filter.Page), nil
}

func (s *userService) Get(ctx context.Context, db *gorm.DB, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) SetActive(ctx context.Context, db *gorm.DB, adminID, userID string, active bool) (*dto.UserResponse, error) {
	if adminID == userID {
		return nil, apperrors.ErrCannotModifySelf
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.userRepo.SetActive(tx, userID, active); err != nil {
		return nil, handleUserError(err)
	}
	if !active {
		if err := s.refreshRepo.DeleteByUserID(tx, userID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "User activation changed", "target_user_id", userID, "active", active)
	return s.Get(ctx, db, userID)
}

func (s *userService) Stats(ctx context.Context, db *gorm.DB) (*repositories.PlatformStats, error) {
	stats, err := s.statsRepo.PlatformStats(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}
