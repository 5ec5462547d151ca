package service

import (
	"context"

	"github.com/cassiomorais/credits/internal/domain/transaction"
)

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatusEvent describes a reconciled status change handed to the downstream
// notifier. Token is the bearer credential for the ledger call; it must not
// be logged or serialized.
type StatusEvent struct {
	SessionID string
	PaymentID string
	Email     string
	Credits   int
	Status    transaction.Status
	Token     string
}

// Notifier delivers a status change to the downstream credit ledger.
// Invocations are fire-and-forget from the reconciler's point of view:
// failures are logged and acknowledged, never rolled back into the store.
type Notifier interface {
	Notify(ctx context.Context, event StatusEvent) error
}
