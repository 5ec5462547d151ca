package provider

import (
	"context"
)

// PaymentInfo is the authoritative payment record fetched from the provider.
// The webhook reconciler trusts only this record, never the notification body.
type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
	TransactionAmount float64
	Payer             Payer
}

// Payer identifies the paying party as reported by the provider.
type Payer struct {
	Email string
	Name  string
}

// Item is a single cart line in a checkout preference.
type Item struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

// BackURLs are the checkout round-trip URLs.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceRequest is the payload for creating a checkout preference.
type PreferenceRequest struct {
	Items             []Item   `json:"items"`
	ExternalReference string   `json:"external_reference,omitempty"`
	BackURLs          BackURLs `json:"back_urls"`
	AutoReturn        string   `json:"auto_return,omitempty"`
	NotificationURL   string   `json:"notification_url,omitempty"`
}

// Preference is the provider's response to a preference creation.
type Preference struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
	ExternalReference string `json:"external_reference"`
	Items             []Item `json:"items"`
	DateCreated       string `json:"date_created"`
}

// Client is the payment-provider contract the rest of the system depends on.
type Client interface {
	// GetPayment fetches the authoritative payment record by identifier.
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
	// CreatePreference creates a checkout preference and returns the
	// redirect targets.
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
}
