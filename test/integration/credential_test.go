package integration_test

import (
	"net/http"
	"testing"

	"credmatrix_backend/internal/models"
	"credmatrix_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdf = []byte("%PDF-1.4 test credential")

type credentialBody struct {
	ID          string                    `json:"id"`
	NSQFLevel   int                       `json:"nsqf_level"`
	LevelSource models.DataSource         `json:"level_source"`
	Status      models.VerificationStatus `json:"verification_status"`
}

func TestCredentialUploadAndVerify(t *testing.T) {
	ts := newServer(t)
	learner, learnerToken := ts.CreateAndLogin(t, models.UserRoleLearner, "learner@test.io")
	institution, institutionToken := ts.CreateAndLogin(t, models.UserRoleInstitution, "inst@test.io")
	_, employerToken := ts.CreateAndLogin(t, models.UserRoleEmployer, "emp@test.io")

	res, body := ts.SendMultipart(t, "/api/v1/learner/credentials", learnerToken, map[string]string{
		"title":             "Diploma in Mechanical Engineering",
		"type":              "diploma",
		"credential_number": "DIP-001",
		"institution_id":    institution.ID,
	}, "diploma.pdf", "application/pdf", pdf)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	created := helpers.DecodeJSON[credentialBody](t, body)
	assert.Equal(t, models.VerificationPending, created.Status)
	assert.Equal(t, 6, created.NSQFLevel, "diploma default without an AI key")
	assert.Equal(t, models.SourceFallback, created.LevelSource)

	// employers only see verified credentials
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/employer/credentials/"+created.ID, employerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/institution/credentials/"+created.ID+"/verify", institutionToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, models.VerificationVerified, helpers.DecodeJSON[credentialBody](t, body).Status)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/employer/credentials/"+created.ID, employerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/public/credentials/verify?number=DIP-001", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"verification_status":"verified"`)

	res, body = ts.SendMultipart(t, "/api/v1/public/credentials/verify", "", nil, "copy.pdf", "application/pdf", pdf)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, created.ID)

	var unread int64
	require.NoError(t, ts.DB.Model(&models.Notification{}).Where("user_id = ?", learner.ID).Count(&unread).Error)
	assert.Equal(t, int64(1), unread)
}

func TestCredentialUpload_Rejections(t *testing.T) {
	ts := newServer(t)
	_, learnerToken := ts.CreateAndLogin(t, models.UserRoleLearner, "learner@test.io")

	res, _ := ts.SendMultipart(t, "/api/v1/learner/credentials", learnerToken, map[string]string{
		"title": "No file", "type": "certificate",
	}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendMultipart(t, "/api/v1/learner/credentials", learnerToken, map[string]string{
		"title": "Script", "type": "certificate",
	}, "x.sh", "text/x-shellscript", []byte("#!/bin/sh"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendMultipart(t, "/api/v1/learner/credentials", learnerToken, map[string]string{
		"title": "Level", "type": "certificate", "nsqf_level": "11",
	}, "c.pdf", "application/pdf", pdf)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBulkVerify(t *testing.T) {
	ts := newServer(t)
	learner, _ := ts.CreateAndLogin(t, models.UserRoleLearner, "learner@test.io")
	institution, token := ts.CreateAndLogin(t, models.UserRoleInstitution, "inst@test.io")

	pending := helpers.CreateCredential(t, ts.DB, learner.ID, models.VerificationPending, 5, "Go")
	require.NoError(t, ts.DB.Model(pending).Update("institution_id", institution.ID).Error)
	foreign := helpers.CreateCredential(t, ts.DB, learner.ID, models.VerificationPending, 5)
	missing := "00000000-0000-4000-8000-000000000000"

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/institution/credentials/bulk-verify", token, map[string]any{
		"credential_ids": []string{pending.ID, foreign.ID, missing},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	result := helpers.DecodeJSON[struct {
		Results []struct {
			CredentialID string `json:"credential_id"`
			Status       string `json:"status"`
		} `json:"results"`
		Verified int `json:"verified"`
	}](t, body)
	assert.Equal(t, 1, result.Verified)

	statuses := map[string]string{}
	for _, r := range result.Results {
		statuses[r.CredentialID] = r.Status
	}
	assert.Equal(t, "verified", statuses[pending.ID])
	assert.Equal(t, "forbidden", statuses[foreign.ID])
	assert.Equal(t, "not_found", statuses[missing])
}
