package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"credmatrix_backend/internal/ai"
	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mocks record calls without the *gorm.DB argument; none of these tests open a database.

type mockCredentialRepo struct{ mock.Mock }

func (m *mockCredentialRepo) Create(_ *gorm.DB, c *models.Credential) error {
	return m.Called(c).Error(0)
}

func (m *mockCredentialRepo) FindByID(_ *gorm.DB, id string) (*models.Credential, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) FindByIDForUpdate(_ *gorm.DB, id string) (*models.Credential, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) FindByIDs(_ *gorm.DB, ids []string) ([]models.Credential, error) {
	args := m.Called(ids)
	c, _ := args.Get(0).([]models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) FindByNumber(_ *gorm.DB, number string) (*models.Credential, error) {
	args := m.Called(number)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) FindByFileHash(_ *gorm.DB, hash string) ([]models.Credential, error) {
	args := m.Called(hash)
	c, _ := args.Get(0).([]models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) ListByLearner(_ *gorm.DB, learnerID string, f repositories.CredentialFilter) ([]models.Credential, int64, error) {
	args := m.Called(learnerID, f)
	c, _ := args.Get(0).([]models.Credential)
	return c, args.Get(1).(int64), args.Error(2)
}

func (m *mockCredentialRepo) ListByInstitution(_ *gorm.DB, institutionID string, f repositories.CredentialFilter) ([]models.Credential, int64, error) {
	args := m.Called(institutionID, f)
	c, _ := args.Get(0).([]models.Credential)
	return c, args.Get(1).(int64), args.Error(2)
}

func (m *mockCredentialRepo) ListPublicByLearner(_ *gorm.DB, learnerID string) ([]models.Credential, error) {
	args := m.Called(learnerID)
	c, _ := args.Get(0).([]models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) ListProfileCredentials(_ *gorm.DB, learnerIDs []string) (map[string][]models.Credential, error) {
	args := m.Called(learnerIDs)
	c, _ := args.Get(0).(map[string][]models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialRepo) Update(_ *gorm.DB, c *models.Credential) error {
	return m.Called(c).Error(0)
}

func (m *mockCredentialRepo) ChangeStatus(_ *gorm.DB, id string, change repositories.StatusChange) error {
	return m.Called(id, change).Error(0)
}

func (m *mockCredentialRepo) Delete(_ *gorm.DB, id string) error {
	return m.Called(id).Error(0)
}

func (m *mockCredentialRepo) CountByStatus(_ *gorm.DB) (map[models.VerificationStatus]int64, error) {
	args := m.Called()
	c, _ := args.Get(0).(map[models.VerificationStatus]int64)
	return c, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(_ *gorm.DB, u *models.User) error { return m.Called(u).Error(0) }

func (m *mockUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(_ *gorm.DB, address string) (*models.User, error) {
	args := m.Called(address)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByIDs(_ *gorm.DB, ids []string) ([]models.User, error) {
	args := m.Called(ids)
	u, _ := args.Get(0).([]models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(_ *gorm.DB, address string) (bool, error) {
	args := m.Called(address)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateLastLogin(_ *gorm.DB, userID string, at time.Time) error {
	return m.Called(userID).Error(0)
}

func (m *mockUserRepo) SetActive(_ *gorm.DB, userID string, active bool) error {
	return m.Called(userID, active).Error(0)
}

func (m *mockUserRepo) List(_ *gorm.DB, f repositories.UserFilter) ([]models.User, int64, error) {
	args := m.Called(f)
	u, _ := args.Get(0).([]models.User)
	return u, args.Get(1).(int64), args.Error(2)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) Create(_ *gorm.DB, p models.RoleProfile) error { return m.Called(p).Error(0) }
func (m *mockProfileRepo) Save(_ *gorm.DB, p models.RoleProfile) error   { return m.Called(p).Error(0) }

func (m *mockProfileRepo) FindLearnerByUserID(_ *gorm.DB, userID string) (*models.LearnerProfile, error) {
	args := m.Called(userID)
	p, _ := args.Get(0).(*models.LearnerProfile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) FindInstitutionByUserID(_ *gorm.DB, userID string) (*models.InstitutionProfile, error) {
	args := m.Called(userID)
	p, _ := args.Get(0).(*models.InstitutionProfile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) FindEmployerByUserID(_ *gorm.DB, userID string) (*models.EmployerProfile, error) {
	args := m.Called(userID)
	p, _ := args.Get(0).(*models.EmployerProfile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) FindInstitutionByCode(_ *gorm.DB, code string) (*models.InstitutionProfile, error) {
	args := m.Called(code)
	p, _ := args.Get(0).(*models.InstitutionProfile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) InstitutionCodeTaken(_ *gorm.DB, code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *mockProfileRepo) FindLearnersByUserIDs(_ *gorm.DB, ids []string) ([]models.LearnerProfile, error) {
	args := m.Called(ids)
	p, _ := args.Get(0).([]models.LearnerProfile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) ListActiveLearners(_ *gorm.DB) ([]models.LearnerProfile, error) {
	args := m.Called()
	p, _ := args.Get(0).([]models.LearnerProfile)
	return p, args.Error(1)
}

type mockJobRepo struct{ mock.Mock }

func (m *mockJobRepo) Create(_ *gorm.DB, j *models.Job) error { return m.Called(j).Error(0) }

func (m *mockJobRepo) FindByID(_ *gorm.DB, id string) (*models.Job, error) {
	args := m.Called(id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobRepo) Update(_ *gorm.DB, j *models.Job) error { return m.Called(j).Error(0) }

func (m *mockJobRepo) UpdateStatus(_ *gorm.DB, id string, status models.JobStatus) error {
	return m.Called(id, status).Error(0)
}

func (m *mockJobRepo) Delete(_ *gorm.DB, id string) error { return m.Called(id).Error(0) }

func (m *mockJobRepo) ListByEmployer(_ *gorm.DB, employerID string, f repositories.JobFilter) ([]models.Job, int64, error) {
	args := m.Called(employerID, f)
	j, _ := args.Get(0).([]models.Job)
	return j, args.Get(1).(int64), args.Error(2)
}

func (m *mockJobRepo) ListActive(_ *gorm.DB, f repositories.JobFilter) ([]models.Job, int64, error) {
	args := m.Called(f)
	j, _ := args.Get(0).([]models.Job)
	return j, args.Get(1).(int64), args.Error(2)
}

func (m *mockJobRepo) AllActive(_ *gorm.DB) ([]models.Job, error) {
	args := m.Called()
	j, _ := args.Get(0).([]models.Job)
	return j, args.Error(1)
}

func (m *mockJobRepo) CloseExpired(_ *gorm.DB, now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobRepo) CountByStatus(_ *gorm.DB) (map[models.JobStatus]int64, error) {
	args := m.Called()
	c, _ := args.Get(0).(map[models.JobStatus]int64)
	return c, args.Error(1)
}

func (m *mockJobRepo) CreateApplication(_ *gorm.DB, a *models.JobApplication) error {
	return m.Called(a).Error(0)
}

func (m *mockJobRepo) ListApplications(_ *gorm.DB, jobID string) ([]models.JobApplication, error) {
	args := m.Called(jobID)
	a, _ := args.Get(0).([]models.JobApplication)
	return a, args.Error(1)
}

func (m *mockJobRepo) ListApplicationsByLearner(_ *gorm.DB, learnerID string) ([]models.JobApplication, error) {
	args := m.Called(learnerID)
	a, _ := args.Get(0).([]models.JobApplication)
	return a, args.Error(1)
}

func (m *mockJobRepo) CreateInvitation(_ *gorm.DB, inv *models.JobInvitation) error {
	return m.Called(inv).Error(0)
}

func (m *mockJobRepo) ListInvitationsByLearner(_ *gorm.DB, learnerID string) ([]models.JobInvitation, error) {
	args := m.Called(learnerID)
	i, _ := args.Get(0).([]models.JobInvitation)
	return i, args.Error(1)
}

type mockTalentPoolRepo struct{ mock.Mock }

func (m *mockTalentPoolRepo) GetOrCreate(_ *gorm.DB, employerID string) (*models.TalentPool, error) {
	args := m.Called(employerID)
	p, _ := args.Get(0).(*models.TalentPool)
	return p, args.Error(1)
}

func (m *mockTalentPoolRepo) AddEntry(_ *gorm.DB, e *models.TalentPoolEntry) error {
	return m.Called(e).Error(0)
}

func (m *mockTalentPoolRepo) FindEntry(_ *gorm.DB, poolID, learnerID string) (*models.TalentPoolEntry, error) {
	args := m.Called(poolID, learnerID)
	e, _ := args.Get(0).(*models.TalentPoolEntry)
	return e, args.Error(1)
}

func (m *mockTalentPoolRepo) UpdateEntry(_ *gorm.DB, poolID, learnerID string, notes *string, tags []string, rating *int) (*models.TalentPoolEntry, error) {
	args := m.Called(poolID, learnerID, notes, tags, rating)
	e, _ := args.Get(0).(*models.TalentPoolEntry)
	return e, args.Error(1)
}

func (m *mockTalentPoolRepo) RemoveEntry(_ *gorm.DB, poolID, learnerID string) error {
	return m.Called(poolID, learnerID).Error(0)
}

func (m *mockTalentPoolRepo) ListEntries(_ *gorm.DB, poolID string, page repositories.Page) ([]models.TalentPoolEntry, int64, error) {
	args := m.Called(poolID, page)
	e, _ := args.Get(0).([]models.TalentPoolEntry)
	return e, args.Get(1).(int64), args.Error(2)
}

type mockPortfolioRepo struct{ mock.Mock }

func (m *mockPortfolioRepo) GetOrCreate(_ *gorm.DB, learnerID string) (*models.Portfolio, error) {
	args := m.Called(learnerID)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioRepo) FindByLearner(_ *gorm.DB, learnerID string) (*models.Portfolio, error) {
	args := m.Called(learnerID)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioRepo) Update(_ *gorm.DB, learnerID string, s repositories.PortfolioSettings) (*models.Portfolio, error) {
	args := m.Called(learnerID, s)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioRepo) SetShareToken(_ *gorm.DB, learnerID, token string, at time.Time) (*models.Portfolio, error) {
	args := m.Called(learnerID, token, at)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioRepo) ClearShareToken(_ *gorm.DB, learnerID string) (*models.Portfolio, error) {
	args := m.Called(learnerID)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioRepo) RecordView(_ *gorm.DB, token, ip, ua string, at time.Time, limit int) (*models.Portfolio, error) {
	args := m.Called(token, ip, ua, at, limit)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioRepo) RecentViews(_ *gorm.DB, portfolioID string, limit int) ([]models.PortfolioView, error) {
	args := m.Called(portfolioID, limit)
	v, _ := args.Get(0).([]models.PortfolioView)
	return v, args.Error(1)
}

func (m *mockPortfolioRepo) CountViews(_ *gorm.DB, portfolioID string) (int64, error) {
	args := m.Called(portfolioID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAchievementRepo struct{ mock.Mock }

func (m *mockAchievementRepo) Create(_ *gorm.DB, a *models.Achievement) error {
	return m.Called(a).Error(0)
}

func (m *mockAchievementRepo) FindByID(_ *gorm.DB, id string) (*models.Achievement, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*models.Achievement)
	return a, args.Error(1)
}

func (m *mockAchievementRepo) ListByLearner(_ *gorm.DB, learnerID string, publicOnly bool) ([]models.Achievement, error) {
	args := m.Called(learnerID, publicOnly)
	a, _ := args.Get(0).([]models.Achievement)
	return a, args.Error(1)
}

func (m *mockAchievementRepo) Update(_ *gorm.DB, a *models.Achievement) error {
	return m.Called(a).Error(0)
}

func (m *mockAchievementRepo) Delete(_ *gorm.DB, id string) error { return m.Called(id).Error(0) }

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(_ *gorm.DB, n *models.Notification) error {
	return m.Called(n).Error(0)
}

func (m *mockNotificationRepo) FindByID(_ *gorm.DB, id string) (*models.Notification, error) {
	args := m.Called(id)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationRepo) ListByUser(_ *gorm.DB, userID string, f repositories.NotificationFilter) ([]models.Notification, int64, error) {
	args := m.Called(userID, f)
	n, _ := args.Get(0).([]models.Notification)
	return n, args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepo) MarkRead(_ *gorm.DB, userID, id string, at time.Time) error {
	return m.Called(userID, id).Error(0)
}

func (m *mockNotificationRepo) MarkAllRead(_ *gorm.DB, userID string, at time.Time) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) CountUnread(_ *gorm.DB, userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) Delete(_ *gorm.DB, userID, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *mockNotificationRepo) DeleteReadOlderThan(_ *gorm.DB, before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Save(_ context.Context, path string, r io.Reader, contentType string) error {
	// Drain the reader so hashing through the tee completes.
	_, _ = io.Copy(io.Discard, r)
	return m.Called(path, contentType).Error(0)
}

func (m *mockStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(path)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *mockStorage) Delete(_ context.Context, path string) error { return m.Called(path).Error(0) }

func (m *mockStorage) Exists(_ context.Context, path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func (m *mockStorage) GetURL(_ context.Context, path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) GetSignedURL(_ context.Context, path string, expiry time.Duration) (string, error) {
	args := m.Called(path, expiry)
	return args.String(0), args.Error(1)
}

type mockSkillAI struct{ mock.Mock }

func (m *mockSkillAI) ExtractSkills(_ context.Context, text string) ai.Result[[]models.SkillTag] {
	return m.Called(text).Get(0).(ai.Result[[]models.SkillTag])
}

func (m *mockSkillAI) PredictLevel(_ context.Context, data ai.CredentialData) ai.Result[int] {
	return m.Called(data).Get(0).(ai.Result[int])
}

func (m *mockSkillAI) MatchSkill(_ context.Context, current []string, required string) (bool, bool) {
	args := m.Called(current, required)
	return args.Bool(0), args.Bool(1)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) SendToUser(userID string, msg any) bool {
	return m.Called(userID, msg).Bool(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(e *email.Email) error { return m.Called(e).Error(0) }

func (m *mockMailer) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	return m.Called(to, subject, templateName, data).Error(0)
}

// newSyncNotifier returns a notification service that sends mail inline.
func newSyncNotifier(repo repositories.NotificationRepository, pusher Pusher, mailer email.Provider) NotificationService {
	svc := NewNotificationService(repo, pusher, mailer).(*notificationService)
	svc.dispatch = func(f func()) { f() }
	return svc
}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

// newFileHeader builds a real multipart file header the way gin would hand it over.
func newFileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}
