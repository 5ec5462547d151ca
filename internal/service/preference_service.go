package service

import (
	"context"

	"github.com/cassiomorais/credits/internal/infrastructure/config"
	"github.com/cassiomorais/credits/internal/provider"
)

// Cart is the buyer-facing input for a checkout preference: line items plus
// an external-reference string that is expected to encode the session
// identifier as JSON.
type Cart struct {
	Items             []provider.Item
	ExternalReference string
}

// PreferenceService translates carts into provider checkout preferences.
// It holds no state; provider errors propagate unmodified to the caller.
type PreferenceService struct {
	client provider.Client
	cfg    config.ProviderConfig
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(client provider.Client, cfg config.ProviderConfig) *PreferenceService {
	return &PreferenceService{client: client, cfg: cfg}
}

// CreatePreference builds the provider request from the cart and the
// configured checkout URLs, delegates to the provider, and returns the
// redirect targets.
func (s *PreferenceService) CreatePreference(ctx context.Context, cart Cart) (*provider.Preference, error) {
	req := provider.PreferenceRequest{
		Items:             cart.Items,
		ExternalReference: cart.ExternalReference,
		BackURLs: provider.BackURLs{
			Success: s.cfg.SuccessURL,
			Failure: s.cfg.FailureURL,
			Pending: s.cfg.PendingURL,
		},
		AutoReturn:      "approved",
		NotificationURL: s.cfg.NotificationURL,
	}

	return s.client.CreatePreference(ctx, req)
}
