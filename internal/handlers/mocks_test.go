package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/internal/validator"
	"credmatrix_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter returns an engine whose requests carry a nil db and, when
// userID is set, an authenticated caller.
func newRouter(userID string, role models.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), (*gorm.DB)(nil))
		if userID != "" {
			c.Set(contextkeys.UserIDKey, userID)
			c.Set(contextkeys.RoleKey, role)
		}
		c.Next()
	})
	return r
}

func newBase() *BaseHandler {
	return NewBaseHandler(validator.New())
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", "application/pdf")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorReply struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// --- credential service ---

type mockCredentialService struct{ mock.Mock }

var _ services.CredentialService = (*mockCredentialService)(nil)

func (m *mockCredentialService) Create(_ context.Context, _ *gorm.DB, uploaderID string, role models.UserRole, req *dto.CreateCredentialRequest, file *multipart.FileHeader) (*models.Credential, error) {
	args := m.Called(uploaderID, role, req, file.Filename)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialService) Get(_ context.Context, _ *gorm.DB, userID string, role models.UserRole, id string) (*models.Credential, error) {
	args := m.Called(userID, role, id)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialService) ListMine(_ context.Context, _ *gorm.DB, learnerID string, q *dto.CredentialListQuery) (*dto.ListResponse[models.Credential], error) {
	args := m.Called(learnerID, q)
	l, _ := args.Get(0).(*dto.ListResponse[models.Credential])
	return l, args.Error(1)
}

func (m *mockCredentialService) ListIssued(_ context.Context, _ *gorm.DB, institutionID string, q *dto.CredentialListQuery) (*dto.ListResponse[models.Credential], error) {
	args := m.Called(institutionID, q)
	l, _ := args.Get(0).(*dto.ListResponse[models.Credential])
	return l, args.Error(1)
}

func (m *mockCredentialService) Update(_ context.Context, _ *gorm.DB, learnerID, id string, req *dto.UpdateCredentialRequest) (*models.Credential, error) {
	args := m.Called(learnerID, id, req)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialService) Delete(_ context.Context, _ *gorm.DB, learnerID, id string) error {
	return m.Called(learnerID, id).Error(0)
}

func (m *mockCredentialService) Verify(_ context.Context, _ *gorm.DB, verifierID string, role models.UserRole, id string) (*models.Credential, error) {
	args := m.Called(verifierID, role, id)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialService) Reject(_ context.Context, _ *gorm.DB, verifierID string, role models.UserRole, id, reason string) (*models.Credential, error) {
	args := m.Called(verifierID, role, id, reason)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialService) BulkVerify(_ context.Context, _ *gorm.DB, verifierID string, role models.UserRole, ids []string) (*dto.BulkVerifyResponse, error) {
	args := m.Called(verifierID, role, ids)
	r, _ := args.Get(0).(*dto.BulkVerifyResponse)
	return r, args.Error(1)
}

func (m *mockCredentialService) Expire(_ context.Context, _ *gorm.DB, id string) (*models.Credential, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *mockCredentialService) VerifyByNumber(_ context.Context, _ *gorm.DB, number string) (*dto.PublicCredentialResponse, error) {
	args := m.Called(number)
	r, _ := args.Get(0).(*dto.PublicCredentialResponse)
	return r, args.Error(1)
}

func (m *mockCredentialService) VerifyByFile(_ context.Context, _ *gorm.DB, file *multipart.FileHeader) ([]dto.PublicCredentialResponse, error) {
	args := m.Called(file.Filename)
	r, _ := args.Get(0).([]dto.PublicCredentialResponse)
	return r, args.Error(1)
}

// --- job service ---

type mockJobService struct{ mock.Mock }

var _ services.JobService = (*mockJobService)(nil)

func (m *mockJobService) Create(_ context.Context, _ *gorm.DB, employerID string, req *dto.CreateJobRequest) (*models.Job, error) {
	args := m.Called(employerID, req)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) Get(_ context.Context, _ *gorm.DB, userID string, role models.UserRole, id string) (*models.Job, error) {
	args := m.Called(userID, role, id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) Update(_ context.Context, _ *gorm.DB, employerID, id string, req *dto.UpdateJobRequest) (*models.Job, error) {
	args := m.Called(employerID, id, req)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) ChangeStatus(_ context.Context, _ *gorm.DB, employerID, id string, status models.JobStatus) (*models.Job, error) {
	args := m.Called(employerID, id, status)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobService) Delete(_ context.Context, _ *gorm.DB, employerID, id string) error {
	return m.Called(employerID, id).Error(0)
}

func (m *mockJobService) ListMine(_ context.Context, _ *gorm.DB, employerID string, q *dto.JobListQuery) (*dto.ListResponse[models.Job], error) {
	args := m.Called(employerID, q)
	l, _ := args.Get(0).(*dto.ListResponse[models.Job])
	return l, args.Error(1)
}

func (m *mockJobService) ListActive(_ context.Context, _ *gorm.DB, q *dto.JobListQuery) (*dto.ListResponse[models.Job], error) {
	args := m.Called(q)
	l, _ := args.Get(0).(*dto.ListResponse[models.Job])
	return l, args.Error(1)
}

func (m *mockJobService) Apply(_ context.Context, _ *gorm.DB, learnerID, jobID string, req *dto.ApplyRequest) (*models.JobApplication, error) {
	args := m.Called(learnerID, jobID, req)
	a, _ := args.Get(0).(*models.JobApplication)
	return a, args.Error(1)
}

func (m *mockJobService) ListApplicants(_ context.Context, _ *gorm.DB, employerID, jobID string) ([]dto.ApplicantResponse, error) {
	args := m.Called(employerID, jobID)
	a, _ := args.Get(0).([]dto.ApplicantResponse)
	return a, args.Error(1)
}

func (m *mockJobService) ListMyApplications(_ context.Context, _ *gorm.DB, learnerID string) ([]models.JobApplication, error) {
	args := m.Called(learnerID)
	a, _ := args.Get(0).([]models.JobApplication)
	return a, args.Error(1)
}

func (m *mockJobService) Invite(_ context.Context, _ *gorm.DB, employerID, jobID string, req *dto.InviteRequest) (*models.JobInvitation, error) {
	args := m.Called(employerID, jobID, req)
	i, _ := args.Get(0).(*models.JobInvitation)
	return i, args.Error(1)
}

func (m *mockJobService) ListInvitations(_ context.Context, _ *gorm.DB, learnerID string) ([]models.JobInvitation, error) {
	args := m.Called(learnerID)
	i, _ := args.Get(0).([]models.JobInvitation)
	return i, args.Error(1)
}

// --- matching service ---

type mockMatchingService struct{ mock.Mock }

var _ services.MatchingService = (*mockMatchingService)(nil)

func (m *mockMatchingService) MatchLearnersForJob(_ context.Context, _ *gorm.DB, userID string, role models.UserRole, jobID string) ([]dto.LearnerMatch, error) {
	args := m.Called(userID, role, jobID)
	r, _ := args.Get(0).([]dto.LearnerMatch)
	return r, args.Error(1)
}

func (m *mockMatchingService) RecommendJobsForLearner(_ context.Context, _ *gorm.DB, learnerID string) ([]dto.JobMatch, error) {
	args := m.Called(learnerID)
	r, _ := args.Get(0).([]dto.JobMatch)
	return r, args.Error(1)
}

func (m *mockMatchingService) LearnerSkills(_ context.Context, _ *gorm.DB, learnerID string) ([]string, int, error) {
	args := m.Called(learnerID)
	s, _ := args.Get(0).([]string)
	return s, args.Int(1), args.Error(2)
}

// --- portfolio service ---

type mockPortfolioService struct{ mock.Mock }

var _ services.PortfolioService = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) Get(_ context.Context, _ *gorm.DB, learnerID string) (*models.Portfolio, error) {
	args := m.Called(learnerID)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioService) Update(_ context.Context, _ *gorm.DB, learnerID string, req *dto.UpdatePortfolioRequest) (*models.Portfolio, error) {
	args := m.Called(learnerID, req)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioService) Share(_ context.Context, _ *gorm.DB, learnerID string) (*dto.ShareResponse, error) {
	args := m.Called(learnerID)
	s, _ := args.Get(0).(*dto.ShareResponse)
	return s, args.Error(1)
}

func (m *mockPortfolioService) Unshare(_ context.Context, _ *gorm.DB, learnerID string) (*models.Portfolio, error) {
	args := m.Called(learnerID)
	p, _ := args.Get(0).(*models.Portfolio)
	return p, args.Error(1)
}

func (m *mockPortfolioService) ViewByToken(_ context.Context, _ *gorm.DB, token, ip, userAgent string) (*dto.PublicPortfolioResponse, error) {
	args := m.Called(token, ip, userAgent)
	p, _ := args.Get(0).(*dto.PublicPortfolioResponse)
	return p, args.Error(1)
}

func (m *mockPortfolioService) Analytics(_ context.Context, _ *gorm.DB, learnerID string) (*dto.PortfolioAnalytics, error) {
	args := m.Called(learnerID)
	a, _ := args.Get(0).(*dto.PortfolioAnalytics)
	return a, args.Error(1)
}

// --- skill gap service ---

type mockSkillGapService struct{ mock.Mock }

var _ services.SkillGapService = (*mockSkillGapService)(nil)

func (m *mockSkillGapService) Analyze(_ context.Context, _ *gorm.DB, userID string, role models.UserRole, req *dto.SkillGapRequest) (*algorithms.GapAnalysis, error) {
	args := m.Called(userID, role, req)
	g, _ := args.Get(0).(*algorithms.GapAnalysis)
	return g, args.Error(1)
}

func (m *mockSkillGapService) CareerRecommendations(_ context.Context, _ *gorm.DB, learnerID string) (*dto.CareerRecommendationsResponse, error) {
	args := m.Called(learnerID)
	r, _ := args.Get(0).(*dto.CareerRecommendationsResponse)
	return r, args.Error(1)
}

func (m *mockSkillGapService) ExtractSkills(_ context.Context, req *dto.AIExtractSkillsRequest) *dto.AIResult[[]models.SkillTag] {
	r, _ := m.Called(req).Get(0).(*dto.AIResult[[]models.SkillTag])
	return r
}

func (m *mockSkillGapService) PredictLevel(_ context.Context, req *dto.AIPredictLevelRequest) *dto.AIResult[int] {
	r, _ := m.Called(req).Get(0).(*dto.AIResult[int])
	return r
}

// --- talent pool service ---

type mockTalentPoolService struct{ mock.Mock }

var _ services.TalentPoolService = (*mockTalentPoolService)(nil)

func (m *mockTalentPoolService) Get(_ context.Context, _ *gorm.DB, employerID string, q *dto.PageQuery) (*dto.TalentPoolResponse, error) {
	args := m.Called(employerID, q)
	r, _ := args.Get(0).(*dto.TalentPoolResponse)
	return r, args.Error(1)
}

func (m *mockTalentPoolService) Add(_ context.Context, _ *gorm.DB, employerID string, req *dto.AddToTalentPoolRequest) (*dto.TalentPoolEntryResponse, error) {
	args := m.Called(employerID, req)
	r, _ := args.Get(0).(*dto.TalentPoolEntryResponse)
	return r, args.Error(1)
}

func (m *mockTalentPoolService) UpdateEntry(_ context.Context, _ *gorm.DB, employerID, learnerID string, req *dto.UpdateTalentPoolEntryRequest) (*dto.TalentPoolEntryResponse, error) {
	args := m.Called(employerID, learnerID, req)
	r, _ := args.Get(0).(*dto.TalentPoolEntryResponse)
	return r, args.Error(1)
}

func (m *mockTalentPoolService) Remove(_ context.Context, _ *gorm.DB, employerID, learnerID string) error {
	return m.Called(employerID, learnerID).Error(0)
}
