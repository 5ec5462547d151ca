package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	"github.com/cassiomorais/credits/internal/provider"
	"github.com/cassiomorais/credits/internal/service"
	"github.com/cassiomorais/credits/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopNotifier satisfies service.Notifier without side effects.
type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, event service.StatusEvent) error { return nil }

func setupWebhookController() (*WebhookController, *testutil.MockTransactionRepository, *provider.MockClient) {
	transactionRepo := testutil.NewMockTransactionRepository()
	outboxRepo := testutil.NewMockOutboxRepository()
	txManager := testutil.NewMockTransactionManager()
	providerClient := provider.NewMockClient()
	notifier := noopNotifier{}

	svc := service.NewWebhookService(transactionRepo, outboxRepo, txManager, providerClient, notifier, zerolog.Nop())
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	h := NewWebhookController(svc, metrics, zerolog.Nop())
	return h, transactionRepo, providerClient
}

func postWebhook(t *testing.T, h *WebhookController, body []byte) (*httptest.ResponseRecorder, WebhookAckResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhooks/mercadopago", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleMercadoPago(w, req)

	var ack WebhookAckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	return w, ack
}

func TestHandleMercadoPago_Approved(t *testing.T) {
	h, transactionRepo, providerClient := setupWebhookController()

	transactionRepo.Seed(testutil.NewTestTransaction("session-1", "a@b.com", 250))
	providerClient.AddPayment(testutil.NewTestPayment("pay-1", "approved", "session-1", 250, "a@b.com"))

	w, ack := postWebhook(t, h, []byte(`{"type": "payment", "data": {"id": "pay-1"}}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", ack.Status)
	assert.Empty(t, ack.Detail)
}

func TestHandleMercadoPago_Always200(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{"malformed body", `{{{not json`, "ok"},
		{"non-payment event", `{"type": "plan", "data": {"id": "x"}}`, "ok"},
		{"missing payment id", `{"type": "payment", "data": {}}`, "error"},
		{"unknown payment", `{"type": "payment", "data": {"id": "ghost"}}`, "error"},
		{"empty body", ``, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := setupWebhookController()

			w, ack := postWebhook(t, h, []byte(tt.body))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantStatus, ack.Status)
			if tt.wantStatus == "error" {
				assert.NotEmpty(t, ack.Detail)
			}
		})
	}
}

func TestHandleMercadoPago_UnknownSessionStill200(t *testing.T) {
	h, _, providerClient := setupWebhookController()

	providerClient.AddPayment(testutil.NewTestPayment("pay-1", "approved", "ghost-session", 250, "a@b.com"))

	w, ack := postWebhook(t, h, []byte(`{"type": "payment", "data": {"id": "pay-1"}}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", ack.Status)
	assert.Contains(t, ack.Detail, "not found")
}
