package controller

import (
	"io"
	"net/http"
	"time"

	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	"github.com/cassiomorais/credits/internal/service"
	"github.com/rs/zerolog"
)

// WebhookController receives provider payment notifications.
type WebhookController struct {
	webhookService *service.WebhookService
	metrics        *observability.Metrics
	logger         zerolog.Logger
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(
	webhookService *service.WebhookService,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		metrics:        metrics,
		logger:         logger,
	}
}

// HandleMercadoPago handles POST /webhooks/mercadopago.
//
// The provider retries on any non-2xx response, so this handler always
// answers 200. The body reports "ok" or "error" with a detail; it is for
// diagnostics only and does not influence provider behavior.
func (h *WebhookController) HandleMercadoPago(w http.ResponseWriter, r *http.Request) {
	// A panic below this handler must not surface as a 5xx, or the
	// provider would retry a notification we may have half-applied.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().Interface("panic", rec).Msg("panic while handling webhook notification")
			h.metrics.WebhookNotificationsTotal.WithLabelValues("error").Inc()
			writeJSON(w, http.StatusOK, WebhookAckResponse{Status: "error", Detail: "internal error"})
		}
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.metrics.WebhookNotificationsTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusOK, WebhookAckResponse{Status: "error", Detail: "unreadable body"})
		return
	}

	start := time.Now()
	ack := h.webhookService.HandleNotification(r.Context(), body)
	h.metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())

	h.metrics.WebhookNotificationsTotal.WithLabelValues(ack.Status).Inc()
	if ack.Changed {
		h.metrics.ReconciliationsTotal.WithLabelValues(string(ack.Applied)).Inc()
	}

	writeJSON(w, http.StatusOK, WebhookAckResponse{Status: ack.Status, Detail: ack.Detail})
}
