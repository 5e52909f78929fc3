package services

import (
	"context"
	"testing"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTalentPoolFixture() (*talentPoolService, *mockTalentPoolRepo, *mockUserRepo, *mockProfileRepo) {
	pools := &mockTalentPoolRepo{}
	users := &mockUserRepo{}
	profiles := &mockProfileRepo{}
	pools.On("GetOrCreate", "emp").Return(&models.TalentPool{BaseModel: models.BaseModel{ID: "pool"}, EmployerID: "emp"}, nil)
	return NewTalentPoolService(pools, users, profiles).(*talentPoolService), pools, users, profiles
}

func TestTalentPoolAdd_CleansTagsAndReportsDuplicates(t *testing.T) {
	svc, pools, users, profiles := newTalentPoolFixture()
	users.On("FindByID", "l1").Return(&models.User{BaseModel: models.BaseModel{ID: "l1"}, Role: models.UserRoleLearner}, nil)
	profiles.On("FindLearnersByUserIDs", []string{"l1"}).Return([]models.LearnerProfile{
		{UserID: "l1", FullName: "Meera", Skills: pq.StringArray{"CNC"}},
	}, nil)
	pools.On("AddEntry", mock.MatchedBy(func(e *models.TalentPoolEntry) bool {
		return e.TalentPoolID == "pool" && e.LearnerID == "l1"
	})).Return(nil).Once()
	pools.On("AddEntry", mock.Anything).Return(repositories.ErrTalentPoolEntryExists)

	req := &dto.AddToTalentPoolRequest{LearnerID: "l1", Tags: []string{"Shortlist", " shortlist", "", "CNC "}, Rating: 4}
	entry, err := svc.Add(context.Background(), nil, "emp", req)
	require.NoError(t, err)

	assert.Equal(t, []string{"shortlist", "cnc"}, entry.Tags)
	assert.Equal(t, "Meera", entry.FullName)
	assert.Equal(t, []string{"CNC"}, entry.Skills)
	assert.Equal(t, 4, entry.Rating)

	_, err = svc.Add(context.Background(), nil, "emp", req)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyInTalentPool)
}

func TestTalentPoolAdd_RejectsNonLearner(t *testing.T) {
	svc, pools, users, _ := newTalentPoolFixture()
	users.On("FindByID", "inst").Return(&models.User{BaseModel: models.BaseModel{ID: "inst"}, Role: models.UserRoleInstitution}, nil)

	_, err := svc.Add(context.Background(), nil, "emp", &dto.AddToTalentPoolRequest{LearnerID: "inst"})
	assert.ErrorIs(t, err, apperrors.ErrLearnerNotFound)
	pools.AssertNotCalled(t, "AddEntry", mock.Anything)
}

func TestTalentPoolUpdateAndRemove_MissingEntry(t *testing.T) {
	svc, pools, _, _ := newTalentPoolFixture()
	rating := 5
	pools.On("UpdateEntry", "pool", "l9", (*string)(nil), []string(nil), &rating).Return(nil, repositories.ErrTalentPoolEntryNotFound)
	pools.On("RemoveEntry", "pool", "l9").Return(repositories.ErrTalentPoolEntryNotFound)

	_, err := svc.UpdateEntry(context.Background(), nil, "emp", "l9", &dto.UpdateTalentPoolEntryRequest{Rating: &rating})
	assert.ErrorIs(t, err, apperrors.ErrTalentPoolEntryNotFound)

	err = svc.Remove(context.Background(), nil, "emp", "l9")
	assert.ErrorIs(t, err, apperrors.ErrTalentPoolEntryNotFound)
}

func TestTalentPoolGet_Paginates(t *testing.T) {
	svc, pools, _, profiles := newTalentPoolFixture()
	page := repositories.Page{Page: 2, PageSize: 1}
	pools.On("ListEntries", "pool", page).Return([]models.TalentPoolEntry{{LearnerID: "l2", Rating: 3}}, int64(2), nil)
	profiles.On("FindLearnersByUserIDs", []string{"l2"}).Return([]models.LearnerProfile{}, nil)

	out, err := svc.Get(context.Background(), nil, "emp", &dto.PageQuery{Page: 2, PageSize: 1})
	require.NoError(t, err)

	assert.Equal(t, "pool", out.ID)
	assert.Equal(t, int64(2), out.Entries.Total)
	require.Len(t, out.Entries.Items, 1)
	assert.Equal(t, []string{}, out.Entries.Items[0].Tags)
}
