package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrCredentialNotFound      = errors.New("credential not found")
	ErrCredentialNumberTaken   = errors.New("credential number already exists")
	ErrCredentialStatusChanged = errors.New("credential status changed concurrently")

	ErrJobNotFound             = errors.New("job not found")
	ErrApplicationExists       = errors.New("application already exists")
	ErrInvitationExists        = errors.New("invitation already exists")
	ErrTalentPoolEntryExists   = errors.New("learner already in talent pool")
	ErrTalentPoolEntryNotFound = errors.New("talent pool entry not found")

	ErrPortfolioNotFound    = errors.New("portfolio not found")
	ErrAchievementNotFound  = errors.New("achievement not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// first loads one row matching query or returns sentinel when none does.
func first[T any](db *gorm.DB, sentinel error, query string, args ...any) (*T, error) {
	var v T
	if err := db.Where(query, args...).First(&v).Error; err != nil {
		return nil, notFound(err, sentinel)
	}
	return &v, nil
}

// notFound maps gorm.ErrRecordNotFound to sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
