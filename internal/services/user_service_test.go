package services

import (
	"context"
	"testing"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserSetActive_AdminCannotTouchSelf(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, nil, nil)

	_, err := svc.SetActive(context.Background(), nil, "admin", "admin", false)
	assert.ErrorIs(t, err, apperrors.ErrCannotModifySelf)
	users.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
}

func TestUserList_MapsFilter(t *testing.T) {
	users := &mockUserRepo{}
	active := true
	users.On("List", repositories.UserFilter{
		Role:     models.UserRoleInstitution,
		IsActive: &active,
		Page:     repositories.Page{Page: 1, PageSize: 10},
	}).Return([]models.User{
		{BaseModel: models.BaseModel{ID: "i1"}, Email: "iti@example.com", Role: models.UserRoleInstitution,
			InstitutionProfile: &models.InstitutionProfile{Name: "Govt ITI"}},
	}, int64(1), nil)
	svc := NewUserService(users, nil, nil)

	out, err := svc.List(context.Background(), nil, &dto.UserListQuery{
		Role:      models.UserRoleInstitution,
		IsActive:  &active,
		PageQuery: dto.PageQuery{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Govt ITI", out.Items[0].DisplayName)
	assert.Equal(t, int64(1), out.Total)
}
