package controller

import (
	"encoding/json"
	"net/http"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	"github.com/cassiomorais/credits/internal/service"
)

// SessionController handles purchase-session registration.
type SessionController struct {
	sessionService *service.SessionService
	metrics        *observability.Metrics
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessionService *service.SessionService, metrics *observability.Metrics) *SessionController {
	return &SessionController{sessionService: sessionService, metrics: metrics}
}

// CreateSession handles POST /api/v1/sessions.
//
// The request fields are accepted without format validation. Only the JSON
// itself must parse; a malformed body is rejected, anything else is stored
// as given and checked later during reconciliation.
func (h *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domainErrors.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}

	sessionID, err := h.sessionService.CreateSession(r.Context(), req.AuthToken, req.Credits, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.SessionsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: sessionID})
}
