package controller

import (
	"net/http"

	"github.com/cassiomorais/credits/internal/service"
)

// PreferenceController handles checkout-preference creation.
type PreferenceController struct {
	preferenceService *service.PreferenceService
}

// NewPreferenceController creates a new PreferenceController.
func NewPreferenceController(preferenceService *service.PreferenceService) *PreferenceController {
	return &PreferenceController{preferenceService: preferenceService}
}

// CreatePreference handles POST /api/v1/preferences.
func (h *PreferenceController) CreatePreference(w http.ResponseWriter, r *http.Request) {
	var req CreatePreferenceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pref, err := h.preferenceService.CreatePreference(r.Context(), service.Cart{
		Items:             toProviderItems(req.Items),
		ExternalReference: req.ExternalReference,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromPreference(pref))
}
