package testutil

import (
	"time"

	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/cassiomorais/credits/internal/provider"
	"github.com/google/uuid"
)

func NewTestTransaction(sessionID, email string, credits int) *transaction.Transaction {
	now := time.Now()
	return &transaction.Transaction{
		ID:        uuid.New(),
		SessionID: sessionID,
		Email:     email,
		Credits:   credits,
		Status:    transaction.StatusPending,
		Token:     "test-token",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestPayment(id, status, sessionID string, amount float64, payerEmail string) *provider.PaymentInfo {
	return &provider.PaymentInfo{
		ID:                id,
		Status:            status,
		ExternalReference: `{"sessionId": "` + sessionID + `"}`,
		TransactionAmount: amount,
		Payer:             provider.Payer{Email: payerEmail},
	}
}
