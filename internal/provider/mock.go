package provider

import (
	"context"
	"sync"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
)

// MockClient is an in-memory Client for tests. Behavior can be overridden per
// method via the function fields; otherwise payments registered with
// AddPayment are served.
type MockClient struct {
	mu       sync.Mutex
	payments map[string]*PaymentInfo

	GetPaymentFunc       func(ctx context.Context, paymentID string) (*PaymentInfo, error)
	CreatePreferenceFunc func(ctx context.Context, req PreferenceRequest) (*Preference, error)
}

func NewMockClient() *MockClient {
	return &MockClient{payments: make(map[string]*PaymentInfo)}
}

// AddPayment registers a payment record served by GetPayment.
func (m *MockClient) AddPayment(info *PaymentInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[info.ID] = info
}

func (m *MockClient) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.payments[paymentID]; ok {
		return info, nil
	}
	return nil, domainErrors.ErrPaymentNotFound
}

func (m *MockClient) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	if m.CreatePreferenceFunc != nil {
		return m.CreatePreferenceFunc(ctx, req)
	}
	return &Preference{
		ID:                "mock-pref-1",
		InitPoint:         "https://checkout.example/init",
		SandboxInitPoint:  "https://sandbox.checkout.example/init",
		ExternalReference: req.ExternalReference,
		Items:             req.Items,
	}, nil
}
