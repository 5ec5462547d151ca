package transaction

import (
	"context"
)

// Repository defines the interface for transaction persistence
type Repository interface {
	// Create inserts a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// GetBySessionID retrieves a transaction by its session identifier
	GetBySessionID(ctx context.Context, sessionID string) (*Transaction, error)

	// LockBySessionID retrieves a transaction by session identifier with a
	// row lock held for the duration of the surrounding database transaction.
	// This is the per-session serialization point for concurrent webhook
	// deliveries.
	LockBySessionID(ctx context.Context, sessionID string) (*Transaction, error)

	// Update persists the mutable fields of an existing transaction
	Update(ctx context.Context, tx *Transaction) error
}
