package controller

import (
	"net/http"

	"github.com/cassiomorais/credits/internal/provider"
	"github.com/go-chi/chi/v5"
)

// PaymentController exposes provider payment lookups.
type PaymentController struct {
	provider provider.Client
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(client provider.Client) *PaymentController {
	return &PaymentController{provider: client}
}

// GetPayment handles GET /api/v1/payments/{id}. It is a passthrough to the
// provider's payment record, trimmed to the fields callers need.
func (h *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing payment id", Code: "invalid_id"})
		return
	}

	p, err := h.provider.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PaymentResponse{
		ID:                p.ID,
		Status:            p.Status,
		TransactionAmount: p.TransactionAmount,
		PayerEmail:        p.Payer.Email,
	})
}
