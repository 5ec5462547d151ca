package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/cassiomorais/credits/internal/infrastructure/config"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	"github.com/cassiomorais/credits/pkg/retry"
	"github.com/sony/gobreaker/v2"
)

// Client updates user credit balances on the external ledger service via
// PATCH /user-credits/{email}. Calls are retried with backoff and guarded by
// a circuit breaker; the bearer credential is supplied per call from the
// session's stored token and is never logged.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	retryCfg   retry.Config
	metrics    *observability.Metrics
}

// NewClient creates a ledger client from configuration.
func NewClient(cfg *config.LedgerConfig, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	threshold := uint32(cfg.CircuitBreakerThreshold)
	if threshold == 0 {
		threshold = 10
	}
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "ledger",
		Timeout: cfg.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})

	retryCfg := retry.Config{
		MaxAttempts:  uint(cfg.RetryAttempts),
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
	if retryCfg.MaxAttempts == 0 {
		retryCfg.MaxAttempts = 3
	}
	if retryCfg.InitialDelay <= 0 {
		retryCfg.InitialDelay = 500 * time.Millisecond
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		retryCfg:   retryCfg,
		metrics:    metrics,
	}
}

// AddCredits applies a credit amount to the given user's balance.
func (c *Client) AddCredits(ctx context.Context, email string, amount int, bearer string) error {
	_, err := c.breaker.Execute(func() (struct{}, error) {
		err := retry.Do(ctx, c.retryCfg, func() error {
			return c.patchCredits(ctx, email, amount, bearer)
		})
		return struct{}{}, err
	})
	if err != nil {
		c.metrics.LedgerCallsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("update credits for ledger: %w", err)
	}
	c.metrics.LedgerCallsTotal.WithLabelValues("success").Inc()
	return nil
}

func (c *Client) patchCredits(ctx context.Context, email string, amount int, bearer string) error {
	body, err := json.Marshal(map[string]int{"amount": amount})
	if err != nil {
		return fmt.Errorf("marshal ledger payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/user-credits/%s", c.baseURL, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ledger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", domainErrors.ErrLedgerUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		// Client errors will not heal on retry.
		return retry.Unrecoverable(fmt.Errorf("ledger rejected credit update: status %d", resp.StatusCode))
	}
	return nil
}
