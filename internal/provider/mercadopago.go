package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/cassiomorais/credits/internal/infrastructure/config"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
)

// MercadoPagoClient implements Client against the MercadoPago REST API.
type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	metrics     *observability.Metrics
}

// NewMercadoPagoClient creates a provider client from configuration.
func NewMercadoPagoClient(cfg *config.ProviderConfig, metrics *observability.Metrics) *MercadoPagoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MercadoPagoClient{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
		metrics:     metrics,
	}
}

func callResult(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// paymentRecord mirrors the provider's payment resource. The id may arrive as
// a JSON number, so it is decoded loosely and normalized to a string.
type paymentRecord struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
	TransactionAmount float64     `json:"transaction_amount"`
	Payer             struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"payer"`
}

// GetPayment fetches the authoritative payment record by identifier.
func (c *MercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	info, err := c.getPayment(ctx, paymentID)
	c.metrics.ProviderCallsTotal.WithLabelValues("get_payment", callResult(err)).Inc()
	return info, err
}

func (c *MercadoPagoClient) getPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domainErrors.ErrPaymentNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", domainErrors.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", domainErrors.ErrProviderRejected, resp.StatusCode)
	}

	var record paymentRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode payment record: %w", err)
	}

	return &PaymentInfo{
		ID:                record.ID.String(),
		Status:            record.Status,
		ExternalReference: record.ExternalReference,
		TransactionAmount: record.TransactionAmount,
		Payer:             Payer{Email: record.Payer.Email, Name: record.Payer.Name},
	}, nil
}

// CreatePreference creates a checkout preference.
func (c *MercadoPagoClient) CreatePreference(ctx context.Context, prefReq PreferenceRequest) (*Preference, error) {
	pref, err := c.createPreference(ctx, prefReq)
	c.metrics.ProviderCallsTotal.WithLabelValues("create_preference", callResult(err)).Inc()
	return pref, err
}

func (c *MercadoPagoClient) createPreference(ctx context.Context, prefReq PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(prefReq)
	if err != nil {
		return nil, fmt.Errorf("marshal preference request: %w", err)
	}

	url := c.baseURL + "/checkout/preferences"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build preference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", domainErrors.ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domainErrors.ErrProviderRejected, resp.StatusCode, detail)
	}

	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("decode preference response: %w", err)
	}
	return &pref, nil
}
