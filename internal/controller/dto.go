package controller

import (
	"github.com/cassiomorais/credits/internal/provider"
	"github.com/cassiomorais/credits/internal/service"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns. Controllers convert them to service
// layer inputs before calling business logic.

// CreateSessionRequest holds the input for registering a purchase session.
// None of the fields are format-validated: an empty token or email and zero
// credits are accepted as-is.
type CreateSessionRequest struct {
	AuthToken string `json:"auth_token"`
	Credits   int    `json:"credits"`
	Email     string `json:"email"`
}

// ItemRequest is a single cart line.
type ItemRequest struct {
	Title      string  `json:"title" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64 `json:"unit_price" validate:"required,gt=0"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

// CreatePreferenceRequest holds the input for creating a checkout preference.
type CreatePreferenceRequest struct {
	Items             []ItemRequest `json:"items" validate:"required,min=1,dive"`
	ExternalReference string        `json:"external_reference,omitempty"`
}

// --- Response DTOs ---

// SessionResponse carries the registered session identifier.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// PreferenceResponse represents a created checkout preference.
type PreferenceResponse struct {
	ID                string        `json:"id"`
	InitPoint         string        `json:"init_point,omitempty"`
	SandboxInitPoint  string        `json:"sandbox_init_point,omitempty"`
	ExternalReference string        `json:"external_reference,omitempty"`
	Items             []ItemRequest `json:"items"`
	DateCreated       string        `json:"date_created,omitempty"`
}

// PaymentResponse is the provider payment lookup passthrough.
type PaymentResponse struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	TransactionAmount float64 `json:"transaction_amount"`
	PayerEmail        string  `json:"payer_email,omitempty"`
}

// PriceResponse is a purchasable credit bundle.
type PriceResponse struct {
	Credits  int     `json:"credits"`
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

// WebhookAckResponse is the always-200 webhook acknowledgement body.
type WebhookAckResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ErrorResponse is the generic error body for non-webhook endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// --- Converters ---

// FromPreference maps a provider preference to its response DTO.
func FromPreference(p *provider.Preference) *PreferenceResponse {
	items := make([]ItemRequest, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, ItemRequest{
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CurrencyID: it.CurrencyID,
		})
	}
	return &PreferenceResponse{
		ID:                p.ID,
		InitPoint:         p.InitPoint,
		SandboxInitPoint:  p.SandboxInitPoint,
		ExternalReference: p.ExternalReference,
		Items:             items,
		DateCreated:       p.DateCreated,
	}
}

// FromPrice maps a price to its response DTO.
func FromPrice(p service.Price) PriceResponse {
	return PriceResponse{Credits: p.Credits, Cost: p.Cost, Currency: p.Currency}
}

// toProviderItems converts request items to the provider representation.
func toProviderItems(items []ItemRequest) []provider.Item {
	out := make([]provider.Item, 0, len(items))
	for _, it := range items {
		out = append(out, provider.Item{
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CurrencyID: it.CurrencyID,
		})
	}
	return out
}
