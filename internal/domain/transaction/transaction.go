package transaction

import (
	"time"

	"github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/google/uuid"
)

// Status represents the transaction status in the reconciliation state machine.
// Besides the three canonical values, any other provider-reported status is
// stored verbatim as a passthrough status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusFailed   Status = "failed"
)

// Provider status values that map onto the canonical set.
const (
	providerApproved  = "approved"
	providerRejected  = "rejected"
	providerCancelled = "cancelled"
	providerPending   = "pending"
)

// Transaction represents a single credit-purchase session. It is created by
// the session registrar with a pending status and mutated only by the webhook
// reconciler afterwards.
type Transaction struct {
	ID        uuid.UUID
	SessionID string
	Email     string
	Credits   int
	Status    Status
	PaymentID string
	// Token is the bearer credential for the downstream ledger call.
	// It must never appear in logs or API responses.
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a pending transaction for a freshly registered session.
// Email and token are accepted as-is, including empty values; credits must
// not be negative (zero is permitted).
func New(sessionID, email string, credits int, token string) (*Transaction, error) {
	if sessionID == "" {
		return nil, errors.ErrInvalidInput
	}
	if credits < 0 {
		return nil, errors.NewValidationError("credits", "must not be negative")
	}

	now := time.Now()
	return &Transaction{
		ID:        uuid.New(),
		SessionID: sessionID,
		Email:     email,
		Credits:   credits,
		Status:    StatusPending,
		PaymentID: "",
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// StatusFromProvider maps a provider-reported payment status onto the stored
// status set. Unknown values pass through verbatim.
func StatusFromProvider(providerStatus string) Status {
	switch providerStatus {
	case providerApproved:
		return StatusApproved
	case providerRejected, providerCancelled:
		return StatusFailed
	case providerPending:
		return StatusPending
	default:
		return Status(providerStatus)
	}
}

// IsTerminal reports whether the transaction reached a final outcome.
// Terminal statuses are immutable; later notifications cannot regress them.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusApproved || t.Status == StatusFailed
}

// AttachPayment records the provider payment identifier. The first identifier
// wins; re-attaching the same value on a redelivery is a no-op.
func (t *Transaction) AttachPayment(paymentID string) (changed bool) {
	if t.PaymentID != "" || paymentID == "" {
		return false
	}
	t.PaymentID = paymentID
	t.UpdatedAt = time.Now()
	return true
}

// ApplyStatus applies a reconciled status under the monotonic lattice:
// pending may move to any status, terminal statuses never change again.
// It reports whether the stored status actually changed, which drives the
// downstream notification dedup.
func (t *Transaction) ApplyStatus(next Status) (changed bool) {
	if next == t.Status {
		return false
	}
	if t.IsTerminal() {
		return false
	}
	t.Status = next
	t.UpdatedAt = time.Now()
	return true
}
