package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/cassiomorais/credits/internal/infrastructure/config"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *MercadoPagoClient {
	return newTestClientWithMetrics(baseURL, observability.NewMetrics("test", prometheus.NewRegistry()))
}

func newTestClientWithMetrics(baseURL string, metrics *observability.Metrics) *MercadoPagoClient {
	return NewMercadoPagoClient(&config.ProviderConfig{
		BaseURL:     baseURL,
		AccessToken: "mp-token",
		Timeout:     2 * time.Second,
	}, metrics)
}

func TestGetPayment(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 12345,
			"status": "approved",
			"external_reference": "{\"sessionId\": \"session-1\"}",
			"transaction_amount": 5.0,
			"payer": {"email": "a@b.com", "name": "A B"}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	info, err := client.GetPayment(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, "/v1/payments/12345", gotPath)
	assert.Equal(t, "Bearer mp-token", gotAuth)

	// Numeric ids are normalized to strings.
	assert.Equal(t, "12345", info.ID)
	assert.Equal(t, "approved", info.Status)
	assert.Equal(t, `{"sessionId": "session-1"}`, info.ExternalReference)
	assert.Equal(t, 5.0, info.TransactionAmount)
	assert.Equal(t, "a@b.com", info.Payer.Email)
}

func TestGetPayment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.GetPayment(context.Background(), "ghost")
	assert.ErrorIs(t, err, domainErrors.ErrPaymentNotFound)
}

func TestGetPayment_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.GetPayment(context.Background(), "12345")
	assert.ErrorIs(t, err, domainErrors.ErrProviderUnavailable)
}

func TestGetPayment_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.GetPayment(context.Background(), "12345")
	assert.ErrorIs(t, err, domainErrors.ErrProviderRejected)
}

func TestGetPayment_ConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.GetPayment(context.Background(), "12345")
	assert.ErrorIs(t, err, domainErrors.ErrProviderUnavailable)
}

func TestCreatePreference(t *testing.T) {
	var gotBody PreferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "pref-1",
			"init_point": "https://mp.example/init",
			"sandbox_init_point": "https://sandbox.mp.example/init",
			"external_reference": "{\"sessionId\": \"session-1\"}"
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	pref, err := client.CreatePreference(context.Background(), PreferenceRequest{
		Items: []Item{
			{Title: "250 credits", Quantity: 1, UnitPrice: 5.0, CurrencyID: "USD"},
		},
		ExternalReference: `{"sessionId": "session-1"}`,
		BackURLs: BackURLs{
			Success: "https://credits.example/success",
			Failure: "https://credits.example/failure",
			Pending: "https://credits.example/pending",
		},
		AutoReturn:      "approved",
		NotificationURL: "https://credits.example/webhooks/mercadopago",
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://mp.example/init", pref.InitPoint)

	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "250 credits", gotBody.Items[0].Title)
	assert.Equal(t, "approved", gotBody.AutoReturn)
	assert.Equal(t, "https://credits.example/webhooks/mercadopago", gotBody.NotificationURL)
	assert.Equal(t, "https://credits.example/success", gotBody.BackURLs.Success)
}

func TestCreatePreference_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "invalid items"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.CreatePreference(context.Background(), PreferenceRequest{})
	assert.ErrorIs(t, err, domainErrors.ErrProviderRejected)
}

func TestProviderCallsAreCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "pref-1", "init_point": "https://mp/checkout"}`))
	}))
	defer srv.Close()

	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	client := newTestClientWithMetrics(srv.URL, metrics)

	_, err := client.GetPayment(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ProviderCallsTotal.WithLabelValues("get_payment", "error")))

	_, err = client.CreatePreference(context.Background(), PreferenceRequest{})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ProviderCallsTotal.WithLabelValues("create_preference", "success")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ProviderCallsTotal.WithLabelValues("create_preference", "error")))
}
