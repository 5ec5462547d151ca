package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/cassiomorais/credits/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewSessionService(repo)

	sessionID, err := svc.CreateSession(context.Background(), "bearer-abc", 250, "a@b.com")
	require.NoError(t, err)

	_, err = uuid.Parse(sessionID)
	assert.NoError(t, err, "session id should be a UUID")

	stored := repo.Stored(sessionID)
	require.NotNil(t, stored)
	assert.Equal(t, transaction.StatusPending, stored.Status)
	assert.Equal(t, "a@b.com", stored.Email)
	assert.Equal(t, 250, stored.Credits)
	assert.Equal(t, "bearer-abc", stored.Token)
	assert.Empty(t, stored.PaymentID)
}

func TestCreateSession_UniqueIDs(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "tok", 250, "a@b.com")
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, "tok", 250, "a@b.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCreateSession_AcceptsUnvalidatedInput(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewSessionService(repo)

	// Empty token, zero credits and a non-address email are all stored as-is.
	sessionID, err := svc.CreateSession(context.Background(), "", 0, "not-an-email")
	require.NoError(t, err)

	stored := repo.Stored(sessionID)
	assert.Equal(t, "not-an-email", stored.Email)
	assert.Zero(t, stored.Credits)
	assert.Empty(t, stored.Token)
}

func TestCreateSession_NegativeCredits(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewSessionService(repo)

	_, err := svc.CreateSession(context.Background(), "tok", -5, "a@b.com")
	assert.Error(t, err)
}

func TestCreateSession_RepositoryFailure(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	dbDown := errors.New("connection refused")
	repo.CreateFunc = func(ctx context.Context, tx *transaction.Transaction) error {
		return dbDown
	}
	svc := NewSessionService(repo)

	_, err := svc.CreateSession(context.Background(), "tok", 250, "a@b.com")
	assert.ErrorIs(t, err, dbDown)
}
