package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"credmatrix_backend/internal/ai"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingAIClient struct{}

func (failingAIClient) Generate(context.Context, string) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingAIClient) Classify(context.Context, string, []string) (map[string]float64, error) {
	return nil, errors.New("model unavailable")
}

type credentialFixture struct {
	svc   *credentialService
	creds *mockCredentialRepo
	users *mockUserRepo
	store *mockStorage
}

func newCredentialFixture(skillAI SkillAI) *credentialFixture {
	f := &credentialFixture{
		creds: &mockCredentialRepo{},
		users: &mockUserRepo{},
		store: &mockStorage{},
	}
	policy := UploadPolicy{MaxSize: 1 << 20, AllowedTypes: []string{"application/pdf", "image/png"}}
	f.svc = NewCredentialService(f.creds, f.users, f.store, skillAI, nil, policy).(*credentialService)
	f.svc.clock = fixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return f
}

func TestCredentialCreate_DiplomaDefaultsToLevelSixWhenAIFails(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(failingAIClient{}, time.Second))

	var savedPath string
	f.store.On("Save", mock.Anything, "application/pdf").
		Run(func(args mock.Arguments) { savedPath = args.String(0) }).
		Return(nil)
	f.store.On("GetURL", mock.Anything).Return("/files/cert.pdf", nil)
	f.creds.On("Create", mock.AnythingOfType("*models.Credential")).Return(nil)

	req := &dto.CreateCredentialRequest{
		Title: "Electrical Wiring Program",
		Type:  models.CredentialTypeDiploma,
	}
	file := newFileHeader(t, "cert.pdf", "application/pdf", []byte("%PDF-1.4 test"))

	c, err := f.svc.Create(context.Background(), nil, "learner-1", models.UserRoleLearner, req, file)
	require.NoError(t, err)

	assert.Equal(t, 6, c.NSQFLevel)
	assert.Equal(t, models.SourceFallback, c.LevelSource)
	assert.Equal(t, models.SourceFallback, c.SkillsSource)
	assert.Equal(t, models.VerificationPending, c.Status)
	assert.Equal(t, "learner-1", c.LearnerID)
	assert.Equal(t, savedPath, c.File.Path)
	assert.True(t, strings.HasPrefix(c.File.Path, "credentials/learner-1/"))
	assert.Len(t, c.File.Hash, 64)
	f.store.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestCredentialCreate_ManualSkillsAndLevelSkipAI(t *testing.T) {
	skillAI := &mockSkillAI{}
	f := newCredentialFixture(skillAI)

	f.store.On("Save", mock.Anything, "image/png").Return(nil)
	f.store.On("GetURL", mock.Anything).Return("/files/badge.png", nil)
	f.creds.On("Create", mock.Anything).Return(nil)

	req := &dto.CreateCredentialRequest{
		Title:     "Cloud Badge",
		Type:      models.CredentialTypeBadge,
		NSQFLevel: 4,
		Skills:    []string{"AWS", "aws", " Terraform "},
	}
	file := newFileHeader(t, "badge.png", "image/png", []byte{0x89, 'P', 'N', 'G'})

	c, err := f.svc.Create(context.Background(), nil, "learner-1", models.UserRoleLearner, req, file)
	require.NoError(t, err)

	assert.Equal(t, 4, c.NSQFLevel)
	assert.Equal(t, models.SourceManual, c.LevelSource)
	assert.Equal(t, models.SourceManual, c.SkillsSource)
	assert.Equal(t, []string{"AWS", "Terraform"}, c.SkillNames())
	skillAI.AssertNotCalled(t, "ExtractSkills", mock.Anything)
	skillAI.AssertNotCalled(t, "PredictLevel", mock.Anything)
}

func TestCredentialCreate_StoresPreviewForImages(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))

	var paths []string
	f.store.On("Save", mock.Anything, "image/png").
		Run(func(args mock.Arguments) { paths = append(paths, args.String(0)) }).
		Return(nil)
	f.store.On("GetURL", mock.Anything).Return("/files/scan.png", nil)
	f.creds.On("Create", mock.Anything).Return(nil)

	var scan bytes.Buffer
	require.NoError(t, png.Encode(&scan, image.NewRGBA(image.Rect(0, 0, 1600, 1200))))
	req := &dto.CreateCredentialRequest{Title: "Scanned Certificate", Type: models.CredentialTypeCertificate, NSQFLevel: 3}
	file := newFileHeader(t, "scan.png", "image/png", scan.Bytes())

	c, err := f.svc.Create(context.Background(), nil, "learner-1", models.UserRoleLearner, req, file)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, paths[0], c.File.Path)
	assert.Equal(t, paths[1], c.File.PreviewPath)
	assert.True(t, strings.HasPrefix(c.File.PreviewPath, "credentials/learner-1/previews/"))
	assert.NotEmpty(t, c.File.PreviewURL)
}

func TestCredentialCreate_DeletesStoredFileWhenInsertFails(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))

	var savedPath string
	f.store.On("Save", mock.Anything, "application/pdf").
		Run(func(args mock.Arguments) { savedPath = args.String(0) }).
		Return(nil)
	f.store.On("GetURL", mock.Anything).Return("/files/x.pdf", nil)
	f.store.On("Delete", mock.Anything).Return(errors.New("bucket offline"))
	f.creds.On("Create", mock.Anything).Return(errors.New("connection reset"))

	req := &dto.CreateCredentialRequest{Title: "Welding", Type: models.CredentialTypeCertificate}
	file := newFileHeader(t, "x.pdf", "application/pdf", []byte("%PDF"))

	_, err := f.svc.Create(context.Background(), nil, "learner-1", models.UserRoleLearner, req, file)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HTTPCode)
	f.store.AssertCalled(t, "Delete", savedPath)
}

func TestCredentialCreate_RejectsDisallowedType(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))

	req := &dto.CreateCredentialRequest{Title: "Script", Type: models.CredentialTypeOther}
	file := newFileHeader(t, "run.sh", "text/x-shellscript", []byte("#!/bin/sh"))

	_, err := f.svc.Create(context.Background(), nil, "learner-1", models.UserRoleLearner, req, file)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCredentialCreate_InstitutionIssueStartsVerified(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))

	f.users.On("FindByID", "learner-1").Return(&models.User{
		BaseModel: models.BaseModel{ID: "learner-1"},
		Role:      models.UserRoleLearner,
		IsActive:  true,
	}, nil)
	f.store.On("Save", mock.Anything, "application/pdf").Return(nil)
	f.store.On("GetURL", mock.Anything).Return("/files/d.pdf", nil)
	f.creds.On("Create", mock.Anything).Return(nil)

	req := &dto.CreateCredentialRequest{
		Title:     "Bachelor of Technology",
		Type:      models.CredentialTypeDegree,
		LearnerID: "learner-1",
	}
	file := newFileHeader(t, "d.pdf", "application/pdf", []byte("%PDF"))

	c, err := f.svc.Create(context.Background(), nil, "inst-1", models.UserRoleInstitution, req, file)
	require.NoError(t, err)

	assert.Equal(t, models.VerificationVerified, c.Status)
	require.NotNil(t, c.InstitutionID)
	assert.Equal(t, "inst-1", *c.InstitutionID)
	require.NotNil(t, c.VerifiedBy)
	assert.Equal(t, "inst-1", *c.VerifiedBy)
	assert.Equal(t, 7, c.NSQFLevel)
}

func TestCredentialCreate_InstitutionMustNameLearner(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))

	req := &dto.CreateCredentialRequest{Title: "Diploma", Type: models.CredentialTypeDiploma}
	file := newFileHeader(t, "d.pdf", "application/pdf", []byte("%PDF"))

	_, err := f.svc.Create(context.Background(), nil, "inst-1", models.UserRoleInstitution, req, file)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestCredentialBulkVerify_ReportsEveryItem(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))

	inst := "inst-1"
	other := "inst-2"
	found := []models.Credential{
		{BaseModel: models.BaseModel{ID: "pending"}, LearnerID: "l1", InstitutionID: &inst, Status: models.VerificationPending},
		{BaseModel: models.BaseModel{ID: "done"}, LearnerID: "l1", InstitutionID: &inst, Status: models.VerificationVerified},
		{BaseModel: models.BaseModel{ID: "foreign"}, LearnerID: "l2", InstitutionID: &other, Status: models.VerificationPending},
		{BaseModel: models.BaseModel{ID: "raced"}, LearnerID: "l3", InstitutionID: &inst, Status: models.VerificationPending},
	}
	ids := []string{"pending", "done", "foreign", "missing", "raced", "pending"}

	f.creds.On("FindByIDs", []string{"pending", "done", "foreign", "missing", "raced"}).Return(found, nil)
	f.creds.On("ChangeStatus", "pending", mock.Anything).Return(nil)
	f.creds.On("ChangeStatus", "raced", mock.Anything).Return(repositories.ErrCredentialStatusChanged)

	resp, err := f.svc.BulkVerify(context.Background(), nil, inst, models.UserRoleInstitution, ids)
	require.NoError(t, err)

	statuses := map[string]string{}
	for _, r := range resp.Results {
		statuses[r.CredentialID] = r.Status
	}
	assert.Equal(t, map[string]string{
		"pending": dto.BulkVerified,
		"done":    dto.BulkAlreadyVerified,
		"foreign": dto.BulkForbidden,
		"missing": dto.BulkNotFound,
		"raced":   dto.BulkNotPending,
	}, statuses)
	assert.Len(t, resp.Results, 5)
	assert.Equal(t, 1, resp.Verified)
	assert.Equal(t, 4, resp.Failed)

	for _, r := range resp.Results {
		if r.CredentialID == "missing" {
			assert.False(t, r.Found)
		} else {
			assert.True(t, r.Found)
		}
	}
	f.creds.AssertNotCalled(t, "ChangeStatus", "foreign", mock.Anything)
}

func TestCredentialVerify_NotifiesLearner(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))
	notifications := &mockNotificationRepo{}
	pusher := &mockPusher{}
	mailer := &mockMailer{}
	f.svc.notifier = newSyncNotifier(notifications, pusher, mailer)

	inst := "inst-1"
	f.creds.On("FindByID", "c1").Return(&models.Credential{
		BaseModel:     models.BaseModel{ID: "c1"},
		Title:         "Solar PV Installer",
		LearnerID:     "l1",
		InstitutionID: &inst,
		Status:        models.VerificationPending,
	}, nil)
	f.creds.On("ChangeStatus", "c1", mock.MatchedBy(func(c repositories.StatusChange) bool {
		return c.From == models.VerificationPending && c.To == models.VerificationVerified
	})).Return(nil)
	f.users.On("FindByIDs", []string{"l1", inst}).Return([]models.User{
		{BaseModel: models.BaseModel{ID: "l1"}, Email: "asha@example.com", Role: models.UserRoleLearner,
			LearnerProfile: &models.LearnerProfile{FullName: "Asha"}},
		{BaseModel: models.BaseModel{ID: inst}, Email: "iti@example.com", Role: models.UserRoleInstitution,
			InstitutionProfile: &models.InstitutionProfile{Name: "Govt ITI Pune"}},
	}, nil)
	notifications.On("Create", mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "l1" && n.Type == models.NotificationCredentialVerified
	})).Return(nil)
	pusher.On("SendToUser", "l1", mock.Anything).Return(true)
	mailer.On("SendTemplate", []string{"asha@example.com"}, mock.Anything, "credential_verified", mock.Anything).Return(nil)

	c, err := f.svc.Verify(context.Background(), nil, inst, models.UserRoleInstitution, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, c.Status)

	notifications.AssertExpectations(t)
	pusher.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestCredentialGet_EmployerSeesOnlyVerified(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))
	f.creds.On("FindByID", "p").Return(&models.Credential{BaseModel: models.BaseModel{ID: "p"}, Status: models.VerificationPending}, nil)
	f.creds.On("FindByID", "v").Return(&models.Credential{BaseModel: models.BaseModel{ID: "v"}, Status: models.VerificationVerified}, nil)

	_, err := f.svc.Get(context.Background(), nil, "emp", models.UserRoleEmployer, "p")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	c, err := f.svc.Get(context.Background(), nil, "emp", models.UserRoleEmployer, "v")
	require.NoError(t, err)
	assert.Equal(t, "v", c.ID)
}

func TestCredentialExpire_RejectsAlreadyExpired(t *testing.T) {
	f := newCredentialFixture(ai.NewAdapter(nil, time.Second))
	f.creds.On("FindByID", "e").Return(&models.Credential{BaseModel: models.BaseModel{ID: "e"}, Status: models.VerificationExpired}, nil)

	_, err := f.svc.Expire(context.Background(), nil, "e")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
	f.creds.AssertNotCalled(t, "ChangeStatus", mock.Anything, mock.Anything)
}
