package controller

import (
	"net/http"
	"strconv"

	"github.com/cassiomorais/credits/internal/service"
)

// PriceController exposes the purchasable credit bundles.
type PriceController struct{}

// NewPriceController creates a new PriceController.
func NewPriceController() *PriceController {
	return &PriceController{}
}

// ListPrices handles GET /api/v1/prices. Without a credits query parameter
// every bundle is returned; with one, only the matching bundle.
func (h *PriceController) ListPrices(w http.ResponseWriter, r *http.Request) {
	if s := r.URL.Query().Get("credits"); s != "" {
		credits, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid credits parameter", Code: "invalid_input"})
			return
		}
		price, err := service.PriceFor(credits)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, FromPrice(price))
		return
	}

	prices := service.AllPrices()
	resp := make([]PriceResponse, 0, len(prices))
	for _, p := range prices {
		resp = append(resp, FromPrice(p))
	}
	writeJSON(w, http.StatusOK, resp)
}
