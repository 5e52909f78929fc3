package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	return tm
}

func tokenFor(t *testing.T, tm *auth.TokenManager, role models.UserRole) string {
	t.Helper()
	u := &models.User{Role: role}
	u.ID = "user-" + string(role)
	token, _, err := tm.GenerateToken(u)
	require.NoError(t, err)
	return token
}

func protectedRouter(tm *auth.TokenManager, handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(tm)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": role})
	})
	r.GET("/x", chain...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := newTokenManager(t)
	r := protectedRouter(tm)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tokenFor(t, tm, models.UserRoleLearner), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"user-learner","role":"learner"}`, w.Body.String())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tm := newTokenManager(t)
	r := protectedRouter(tm, RequireRoles(models.UserRoleInstitution, models.UserRoleAdmin))

	for role, want := range map[models.UserRole]int{
		models.UserRoleInstitution: http.StatusOK,
		models.UserRoleAdmin:       http.StatusOK,
		models.UserRoleLearner:     http.StatusForbidden,
		models.UserRoleEmployer:    http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestRequirePermission(t *testing.T) {
	tm := newTokenManager(t)
	r := protectedRouter(tm, RequirePermission(auth.PermTalentPool))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.UserRoleEmployer))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.UserRoleLearner))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestRateLimit_Memory(t *testing.T) {
	limiter := NewMemoryLimiter(0.001, 2)
	r := gin.New()
	r.GET("/x", RateLimit(limiter, "api"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	l := NewMemoryLimiter(1, 1)
	l.idleTTL = time.Millisecond
	l.Allow("a")
	l.Allow("b")
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 2, l.Cleanup())
	assert.Empty(t, l.visitors)
}

func TestRedisLimiter_NilClientAllows(t *testing.T) {
	var l *RedisLimiter = NewRedisLimiter(nil, 1, time.Minute)
	assert.True(t, l.Allow("k"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
