package testutil

import (
	"context"
	"sync"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/cassiomorais/credits/internal/domain/outbox"
	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/google/uuid"
)

// --- Transaction Repository Mock ---

// MockTransactionRepository is a mock implementation of transaction.Repository.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]*transaction.Transaction

	CreateFunc          func(ctx context.Context, tx *transaction.Transaction) error
	GetBySessionIDFunc  func(ctx context.Context, sessionID string) (*transaction.Transaction, error)
	LockBySessionIDFunc func(ctx context.Context, sessionID string) (*transaction.Transaction, error)
	UpdateFunc          func(ctx context.Context, tx *transaction.Transaction) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*transaction.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.transactions[tx.SessionID]; exists {
		return domainErrors.ErrDuplicateSession
	}
	cp := *tx
	m.transactions[tx.SessionID] = &cp
	return nil
}

func (m *MockTransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*transaction.Transaction, error) {
	if m.GetBySessionIDFunc != nil {
		return m.GetBySessionIDFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[sessionID]
	if !ok {
		return nil, domainErrors.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *MockTransactionRepository) LockBySessionID(ctx context.Context, sessionID string) (*transaction.Transaction, error) {
	if m.LockBySessionIDFunc != nil {
		return m.LockBySessionIDFunc(ctx, sessionID)
	}
	return m.GetBySessionID(ctx, sessionID)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[tx.SessionID]; !ok {
		return domainErrors.ErrTransactionNotFound
	}
	cp := *tx
	m.transactions[tx.SessionID] = &cp
	return nil
}

// Stored returns the stored transaction for a session, or nil.
func (m *MockTransactionRepository) Stored(sessionID string) *transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[sessionID]
	if !ok {
		return nil
	}
	cp := *tx
	return &cp
}

// Seed stores a transaction directly, bypassing Create semantics.
func (m *MockTransactionRepository) Seed(tx *transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.transactions[tx.SessionID] = &cp
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is a mock implementation of outbox.Repository.
type MockOutboxRepository struct {
	mu      sync.Mutex
	Entries []*outbox.Entry

	InsertFunc func(ctx context.Context, entry *outbox.Entry) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Insert(ctx context.Context, entry *outbox.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*outbox.Entry, 0, limit)
	for _, e := range m.Entries {
		if e.Status == outbox.StatusPending {
			result = append(result, e)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ID == id {
			e.Status = outbox.StatusPublished
			return nil
		}
	}
	return domainErrors.ErrTransactionNotFound
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ID == id {
			e.Status = outbox.StatusFailed
			e.RetryCount++
			return nil
		}
	}
	return domainErrors.ErrTransactionNotFound
}

// --- Transaction Manager Mock ---

// MockTransactionManager runs the callback directly without a database.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}
