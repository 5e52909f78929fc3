package helpers

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

	"credmatrix_backend/internal/app"
	"credmatrix_backend/internal/config"
	"credmatrix_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer is the full application served by httptest on a disposable
// database.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	App    *app.App
	cancel context.CancelFunc
}

// TestConfig is the configuration used by integration tests: local storage
// in dir, no mail, no AI key and no rate limiting.
func TestConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "integration-test-secret-0123456789abcdef"
	cfg.JWT.TTL = 15
	cfg.JWT.RefreshTTLHrs = 24
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = dir
	cfg.Storage.BaseURL = "/files"
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.AllowedTypes = []string{"application/pdf", "image/png"}
	cfg.AI.TimeoutSeconds = 1
	cfg.Portfolio.ViewHistoryLimit = 10
	cfg.Portfolio.PublicURL = "http://portfolio.test/p"
	return cfg
}

// NewTestServer builds the application on p and starts the hub and workers.
func NewTestServer(t *testing.T, p *PostgresDB) *TestServer {
	t.Helper()

	application, err := app.New(TestConfig(t.TempDir()), p.DB)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	application.Start(ctx)

	ts := &TestServer{
		Server: httptest.NewServer(application.Router),
		DB:     p.DB,
		App:    application,
		cancel: cancel,
	}
	t.Cleanup(ts.Close)
	return ts
}

// Close stops the server and the background loops. The database is owned
// by the PostgresDB.
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.cancel()
}

// SendRequest sends body as JSON and returns the response and its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

// SendMultipart posts fields plus one "file" part.
func (ts *TestServer) SendMultipart(t *testing.T, path, token string, fields map[string]string, filename, contentType string, content []byte) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ts.do(t, req, token)
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(resBody)
}

// DecodeJSON unmarshals body into a new T.
func DecodeJSON[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}

// Login returns an access token for a user created with CreateUser.
func (ts *TestServer) Login(t *testing.T, email string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": TestPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	return DecodeJSON[struct {
		AccessToken string `json:"access_token"`
	}](t, body).AccessToken
}

// CreateAndLogin inserts a user of role and returns it with a token.
func (ts *TestServer) CreateAndLogin(t *testing.T, role models.UserRole, email string) (*models.User, string) {
	t.Helper()
	user := CreateUser(t, ts.DB, role, email)
	return user, ts.Login(t, email)
}
