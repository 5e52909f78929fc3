package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, time.Time, error)
}

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
	Me(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	// EnsureAdmin creates the configured admin account when it is missing.
	EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) error
}

type authService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	refreshRepo repositories.RefreshTokenRepository
	tokens      TokenIssuer
	refreshTTL  time.Duration
	mailer      email.Provider
	clock       clock
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshRepo repositories.RefreshTokenRepository,
	tokens TokenIssuer,
	refreshTTL time.Duration,
	mailer email.Provider,
) AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if mailer == nil {
		mailer = email.NoopProvider{}
	}
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		refreshRepo: refreshRepo,
		tokens:      tokens,
		refreshTTL:  refreshTTL,
		mailer:      mailer,
	}
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}
	if !req.Role.SelfRegistrable() {
		return nil, apperrors.ErrInvalidOperation("auth", "This role cannot be registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	exists, err := s.userRepo.ExistsByEmail(tx, req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	user := &models.User{
		BaseModel:    models.BaseModel{ID: uuid.NewString()},
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}

	profile, tenantID, err := s.buildProfile(tx, user.ID, req)
	if err != nil {
		return nil, err
	}
	user.TenantID = tenantID

	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleUserError(err)
	}
	if err := s.profileRepo.Create(tx, profile); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrConflict(err, "auth", "Institution code is already registered")
		}
		return nil, apperrors.InternalError(err)
	}
	attachProfile(user, profile)

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	s.sendWelcome(ctx, user)
	return resp, nil
}

// buildProfile returns the role variant for a new user and its tenant.
// Institutions and employers are their own tenant; learners join the tenant of
// the institution whose code they give.
func (s *authService) buildProfile(tx *gorm.DB, userID string, req *dto.RegisterRequest) (models.RoleProfile, *string, error) {
	switch req.Role {
	case models.UserRoleLearner:
		var tenant *string
		if code := strings.TrimSpace(req.InstitutionCode); code != "" {
			inst, err := s.profileRepo.FindInstitutionByCode(tx, code)
			if err != nil {
				if errors.Is(err, repositories.ErrProfileNotFound) {
					return nil, nil, apperrors.NewNotFoundError("institution", "Institution code not found")
				}
				return nil, nil, apperrors.InternalError(err)
			}
			tenant = &inst.UserID
		}
		return &models.LearnerProfile{
			UserID:   userID,
			FullName: req.FullName,
			Location: req.Location,
			Skills:   pq.StringArray{},
		}, tenant, nil

	case models.UserRoleInstitution:
		code := strings.ToUpper(strings.TrimSpace(req.Code))
		taken, err := s.profileRepo.InstitutionCodeTaken(tx, code)
		if err != nil {
			return nil, nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, nil, apperrors.ErrConflict(nil, "auth", "Institution code is already registered")
		}
		return &models.InstitutionProfile{
			UserID:        userID,
			Name:          req.InstitutionName,
			Code:          code,
			Accreditation: req.Accreditation,
			Website:       req.Website,
			Address:       req.Location,
		}, &userID, nil

	case models.UserRoleEmployer:
		return &models.EmployerProfile{
			UserID:      userID,
			CompanyName: req.CompanyName,
			Industry:    req.Industry,
			Website:     req.Website,
			Location:    req.Location,
		}, &userID, nil
	}
	return nil, nil, apperrors.ErrInvalidOperation("auth", "This role cannot be registered")
}

func attachProfile(user *models.User, p models.RoleProfile) {
	switch v := p.(type) {
	case *models.LearnerProfile:
		user.LearnerProfile = v
	case *models.InstitutionProfile:
		user.InstitutionProfile = v
	case *models.EmployerProfile:
		user.EmployerProfile = v
	}
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Failed login attempt", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := s.clock.now()
	if err := s.userRepo.UpdateLastLogin(tx, user.ID, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.LastLoginAt = &now

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return resp, nil
}

// Refresh rotates the refresh token: the presented one is consumed.
func (s *authService) Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	token, err := s.refreshRepo.FindByToken(tx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.refreshRepo.DeleteByToken(tx, refreshToken); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !token.ExpiresAt.After(s.clock.now()) {
		if err := commit(tx); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(tx, token.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	err := s.refreshRepo.DeleteByToken(db, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	profile := user.Profile()
	if profile == nil {
		return nil, apperrors.NewNotFoundError("profile", "Profile not found")
	}
	if err := applyProfileUpdate(profile, req); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(tx, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func applyProfileUpdate(p models.RoleProfile, req *dto.UpdateProfileRequest) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}

	switch v := p.(type) {
	case *models.LearnerProfile:
		set(&v.FullName, req.FullName)
		set(&v.Headline, req.Headline)
		set(&v.Bio, req.Bio)
		set(&v.Phone, req.Phone)
		set(&v.Location, req.Location)
		if req.Skills != nil {
			v.Skills = pq.StringArray(dedupeSkills(req.Skills))
		}
		if len(req.Education) > 0 {
			if !json.Valid(req.Education) {
				return apperrors.ValidationError(map[string]string{"education": "must be valid JSON"})
			}
			v.Education = datatypes.JSON(req.Education)
		}
	case *models.InstitutionProfile:
		set(&v.Name, req.Name)
		set(&v.Accreditation, req.Accreditation)
		set(&v.Website, req.Website)
		set(&v.Address, req.Address)
	case *models.EmployerProfile:
		set(&v.CompanyName, req.CompanyName)
		set(&v.Industry, req.Industry)
		set(&v.Website, req.Website)
		set(&v.Location, req.Location)
		set(&v.Description, req.Description)
	case *models.AdminProfile:
		return apperrors.ErrInvalidOperation("profile", "Admin accounts have no editable profile")
	}
	return nil
}

// dedupeSkills trims names and drops case insensitive duplicates.
func dedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (s *authService) EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}

	exists, err := s.userRepo.ExistsByEmail(db, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(db, admin); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil
		}
		return err
	}
	logger.CtxInfo(ctx, "Admin account created", "user_id", admin.ID)
	return nil
}

func (s *authService) issueTokens(tx *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	access, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh, err := auth.GenerateOpaqueToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: s.clock.now().Add(s.refreshTTL),
	}
	if err := s.refreshRepo.Create(tx, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *authService) sendWelcome(ctx context.Context, user *models.User) {
	data := email.TemplateData{
		"Name": user.DisplayName(),
		"Role": string(user.Role),
	}
	go func() {
		if err := s.mailer.SendTemplate([]string{user.Email}, "Welcome to CredMatrix", email.TemplateWelcome, data); err != nil {
			logger.WithError(err).Warn("Failed to send welcome email", "user_id", user.ID)
		}
	}()
}

func handleUserError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.NewNotFoundError("profile", "Profile not found")
	}
	return apperrors.InternalError(err)
}
