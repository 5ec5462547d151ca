package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func TestWriteError_SentinelMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"transaction not found", domainErrors.ErrTransactionNotFound, http.StatusNotFound, "not_found"},
		{"payment not found", domainErrors.ErrPaymentNotFound, http.StatusNotFound, "not_found"},
		{"duplicate session", domainErrors.ErrDuplicateSession, http.StatusConflict, "duplicate_session"},
		{"provider unavailable", domainErrors.ErrProviderUnavailable, http.StatusServiceUnavailable, "provider_unavailable"},
		{"provider rejected", domainErrors.ErrProviderRejected, http.StatusBadGateway, "provider_rejected"},
		{"ledger unavailable", domainErrors.ErrLedgerUnavailable, http.StatusServiceUnavailable, "ledger_unavailable"},
		{"invalid input", domainErrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.Join(errors.New("context"), domainErrors.ErrTransactionNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteError_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, domainErrors.NewValidationError("credits", "must not be negative"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Code)
}

func TestWriteError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, &domainErrors.DomainError{Code: "credits_exhausted", Message: "no credits left"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "credits_exhausted", resp.Code)
}

func TestWriteError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("something exploded"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal_error", resp.Code)
	// Internal details never leak to the client.
	assert.Equal(t, "internal server error", resp.Error)
}

func TestDecodeAndValidate_EmptyBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", jsonBody(""))

	var dst CreatePreferenceRequest
	err := decodeAndValidate(req, &dst)
	assert.Error(t, err)
}

func TestDecodeAndValidate_MissingItems(t *testing.T) {
	req := httptest.NewRequest("POST", "/", jsonBody(`{"items": []}`))

	var dst CreatePreferenceRequest
	err := decodeAndValidate(req, &dst)

	var validationErr *domainErrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestDecodeAndValidate_InvalidItem(t *testing.T) {
	req := httptest.NewRequest("POST", "/", jsonBody(`{"items": [{"title": "x", "quantity": 0, "unit_price": 5}]}`))

	var dst CreatePreferenceRequest
	err := decodeAndValidate(req, &dst)
	assert.Error(t, err)
}

func TestDecodeAndValidate_Valid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", jsonBody(`{"items": [{"title": "250 credits", "quantity": 1, "unit_price": 5}]}`))

	var dst CreatePreferenceRequest
	require.NoError(t, decodeAndValidate(req, &dst))
	assert.Len(t, dst.Items, 1)
}
