package integration_test

import (
	"net/http"
	"testing"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string          `json:"id"`
		Email string          `json:"email"`
		Role  models.UserRole `json:"role"`
	} `json:"user"`
}

func TestAuthFlow(t *testing.T) {
	ts := newServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     "Asha@Example.com",
		"password":  "Password123",
		"role":      "learner",
		"full_name": "Asha Rao",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	registered := helpers.DecodeJSON[authBody](t, body)
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.Equal(t, models.UserRoleLearner, registered.User.Role)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", registered.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Asha Rao")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	refreshed := helpers.DecodeJSON[authBody](t, body)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// rotated token cannot be reused
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": registered.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	ts := newServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"admin is not self registrable", map[string]any{"email": "a@x.io", "password": "Password123", "role": "admin"}, http.StatusBadRequest},
		{"learner needs a name", map[string]any{"email": "b@x.io", "password": "Password123", "role": "learner"}, http.StatusBadRequest},
		{"short password", map[string]any{"email": "c@x.io", "password": "short", "role": "employer", "company_name": "Acme"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, tt.want, res.StatusCode, body)
		})
	}
}

func TestRoleGates(t *testing.T) {
	ts := newServer(t)
	_, learnerToken := ts.CreateAndLogin(t, models.UserRoleLearner, "lee@test.io")

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/employer/jobs", learnerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/stats", learnerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/learner/credentials", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
