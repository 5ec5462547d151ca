package service

import (
	"context"
	"fmt"

	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/google/uuid"
)

// SessionService registers credit-purchase sessions before the buyer is
// redirected to the provider checkout.
type SessionService struct {
	transactions transaction.Repository
}

// NewSessionService creates a new SessionService.
func NewSessionService(transactions transaction.Repository) *SessionService {
	return &SessionService{transactions: transactions}
}

// CreateSession generates a fresh session identifier and persists a pending
// transaction for it. The auth token and email are stored as-is, without
// format validation; the token is the credential later used for the ledger
// update. The returned identifier is immediately usable as the external
// reference join key.
func (s *SessionService) CreateSession(ctx context.Context, authToken string, credits int, email string) (string, error) {
	sessionID := uuid.NewString()

	t, err := transaction.New(sessionID, email, credits, authToken)
	if err != nil {
		return "", err
	}

	if err := s.transactions.Create(ctx, t); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return sessionID, nil
}
