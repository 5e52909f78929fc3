package services

import (
	"context"
	"testing"
	"time"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAchievementCreate_Defaults(t *testing.T) {
	repo := &mockAchievementRepo{}
	repo.On("Create", mock.Anything).Return(nil)
	svc := NewAchievementService(repo)

	private := false
	date := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)

	a, err := svc.Create(context.Background(), nil, "l1", &dto.CreateAchievementRequest{Title: " Hackathon ", Date: date})
	require.NoError(t, err)
	assert.Equal(t, "Hackathon", a.Title)
	assert.Equal(t, "other", a.Type)
	assert.True(t, a.IsPublic)

	a, err = svc.Create(context.Background(), nil, "l1", &dto.CreateAchievementRequest{Title: "Paper", Type: "publication", Date: date, IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, a.IsPublic)
}

func TestAchievementUpdate_ForeignIsNotFound(t *testing.T) {
	repo := &mockAchievementRepo{}
	repo.On("FindByID", "a1").Return(&models.Achievement{BaseModel: models.BaseModel{ID: "a1"}, LearnerID: "owner"}, nil)
	repo.On("FindByID", "gone").Return(nil, repositories.ErrAchievementNotFound)
	svc := NewAchievementService(repo)

	title := "Mine now"
	_, err := svc.Update(context.Background(), nil, "intruder", "a1", &dto.UpdateAchievementRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrAchievementNotFound)

	err = svc.Delete(context.Background(), nil, "owner", "gone")
	assert.ErrorIs(t, err, apperrors.ErrAchievementNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestAchievementUpdate_AppliesChanges(t *testing.T) {
	repo := &mockAchievementRepo{}
	repo.On("FindByID", "a1").Return(&models.Achievement{BaseModel: models.BaseModel{ID: "a1"}, LearnerID: "l1", IsPublic: true}, nil)
	repo.On("Update", mock.Anything).Return(nil)
	svc := NewAchievementService(repo)

	hidden := false
	kind := "award"
	a, err := svc.Update(context.Background(), nil, "l1", "a1", &dto.UpdateAchievementRequest{IsPublic: &hidden, Type: &kind})
	require.NoError(t, err)
	assert.False(t, a.IsPublic)
	assert.Equal(t, "award", a.Type)
}
