package integration_test

import (
	"net/http"
	"testing"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioShareViewUnshare(t *testing.T) {
	ts := newServer(t)
	learner, token := ts.CreateAndLogin(t, models.UserRoleLearner, "learner@test.io")
	helpers.CreateCredential(t, ts.DB, learner.ID, models.VerificationVerified, 6, "Go")
	helpers.CreateCredential(t, ts.DB, learner.ID, models.VerificationPending, 4, "Rust")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/learner/achievements", token, map[string]any{
		"title": "Hackathon winner",
		"date":  "2026-01-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/learner/portfolio/share", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	share := helpers.DecodeJSON[struct {
		ShareToken string `json:"share_token"`
		ShareURL   string `json:"share_url"`
	}](t, body)
	require.Len(t, share.ShareToken, 64)
	assert.Equal(t, "http://portfolio.test/p/"+share.ShareToken, share.ShareURL)

	for i := 0; i < 2; i++ {
		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/public/portfolio/"+share.ShareToken, "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}
	public := helpers.DecodeJSON[struct {
		Credentials  []map[string]any `json:"credentials"`
		Achievements []map[string]any `json:"achievements"`
		ViewCount    int64            `json:"view_count"`
	}](t, body)
	assert.Len(t, public.Credentials, 1, "only verified credentials are public")
	assert.Len(t, public.Achievements, 1)
	assert.Equal(t, int64(2), public.ViewCount)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/learner/portfolio/analytics", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"view_count":2`)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/learner/portfolio/share", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/public/portfolio/"+share.ShareToken, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
