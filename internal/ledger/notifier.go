package ledger

import (
	"context"

	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/cassiomorais/credits/internal/service"
	"github.com/rs/zerolog"
)

// Notifier implements service.Notifier against the credit ledger. Only an
// approved purchase moves credits; every other status change is carried to
// consumers by the event bus alone.
type Notifier struct {
	client *Client
	logger zerolog.Logger
}

// NewNotifier creates a ledger-backed notifier.
func NewNotifier(client *Client, logger zerolog.Logger) *Notifier {
	return &Notifier{client: client, logger: logger}
}

// Notify applies the ledger side effect for a reconciled status change.
func (n *Notifier) Notify(ctx context.Context, event service.StatusEvent) error {
	if event.Status != transaction.StatusApproved {
		n.logger.Debug().
			Str("session_id", event.SessionID).
			Str("status", string(event.Status)).
			Msg("no ledger effect for status")
		return nil
	}

	if err := n.client.AddCredits(ctx, event.Email, event.Credits, event.Token); err != nil {
		return err
	}

	n.logger.Info().
		Str("session_id", event.SessionID).
		Str("email", event.Email).
		Int("credits", event.Credits).
		Msg("ledger credited")
	return nil
}
