package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	"github.com/cassiomorais/credits/internal/service"
	"github.com/cassiomorais/credits/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionController() (*SessionController, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	svc := service.NewSessionService(repo)
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	return NewSessionController(svc, metrics), repo
}

func TestCreateSession_Created(t *testing.T) {
	h, repo := setupSessionController()

	body := `{"auth_token": "bearer-abc", "credits": 250, "email": "a@b.com"}`
	req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)

	stored := repo.Stored(resp.SessionID)
	require.NotNil(t, stored)
	assert.Equal(t, transaction.StatusPending, stored.Status)
	assert.Equal(t, 250, stored.Credits)
}

func TestCreateSession_TokenNeverInResponse(t *testing.T) {
	h, _ := setupSessionController()

	body := `{"auth_token": "super-secret-token", "credits": 250, "email": "a@b.com"}`
	req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret-token")
}

func TestCreateSession_EmptyFieldsAccepted(t *testing.T) {
	h, repo := setupSessionController()

	req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, repo.Stored(resp.SessionID))
}

func TestCreateSession_MalformedJSON(t *testing.T) {
	h, _ := setupSessionController()

	req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(`{broken`))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Code)
}

func TestCreateSession_NegativeCredits(t *testing.T) {
	h, _ := setupSessionController()

	body := `{"auth_token": "tok", "credits": -5, "email": "a@b.com"}`
	req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
