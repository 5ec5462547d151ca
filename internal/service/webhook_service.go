package service

import (
	"context"
	"encoding/json"

	domainErrors "github.com/cassiomorais/credits/internal/domain/errors"
	"github.com/cassiomorais/credits/internal/domain/outbox"
	"github.com/cassiomorais/credits/internal/domain/transaction"
	"github.com/cassiomorais/credits/internal/provider"
	"github.com/rs/zerolog"
)

// notificationEnvelope is the provider's webhook body. Only the payment
// identifier is trusted; every other field is re-fetched from the provider.
type notificationEnvelope struct {
	Type string `json:"type"`
	Data struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

// flexibleID accepts the payment identifier as either a JSON string or a
// JSON number; the provider has used both over time.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

func (f flexibleID) String() string { return string(f) }

// externalReference is the JSON payload carried through the provider
// round-trip in the external_reference field.
type externalReference struct {
	SessionID string `json:"sessionId"`
}

// Ack is the reconciler's always-returned acknowledgement. Status is "ok" or
// "error"; Detail carries the handled-error description. Applied and Changed
// describe the reconciliation outcome for observability.
type Ack struct {
	Status  string
	Detail  string
	Applied transaction.Status
	Changed bool
}

func ackOK() Ack {
	return Ack{Status: "ok"}
}

func ackError(detail string) Ack {
	return Ack{Status: "error", Detail: detail}
}

// WebhookService reconciles provider payment notifications against stored
// transactions. It is the only component that mutates a transaction after
// creation.
type WebhookService struct {
	transactions transaction.Repository
	outbox       outbox.Repository
	txManager    TransactionManager
	provider     provider.Client
	notifier     Notifier
	logger       zerolog.Logger
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	transactions transaction.Repository,
	outboxRepo outbox.Repository,
	txManager TransactionManager,
	providerClient provider.Client,
	notifier Notifier,
	logger zerolog.Logger,
) *WebhookService {
	return &WebhookService{
		transactions: transactions,
		outbox:       outboxRepo,
		txManager:    txManager,
		provider:     providerClient,
		notifier:     notifier,
		logger:       logger,
	}
}

// HandleNotification processes one webhook delivery and always returns an
// acknowledgement; failures are handled errors reported in the ack body, so
// the caller can keep answering 2xx and the provider's retry policy stays
// intact.
//
// The sequence: parse the envelope, re-fetch the authoritative payment from
// the provider, extract the session identifier from the external reference,
// then apply the status transition under a per-session row lock. The
// provider fetch happens before the lock and the downstream notification
// after it, keeping the critical section to the read-modify-write alone.
// Redeliveries are safe: an unchanged status is a no-op and does not
// re-trigger the notifier.
func (s *WebhookService) HandleNotification(ctx context.Context, raw []byte) Ack {
	var env notificationEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Unparseable bodies are ignored, same as non-payment events.
		s.logger.Debug().Msg("ignoring unparseable webhook body")
		return ackOK()
	}
	if env.Type != "payment" {
		s.logger.Debug().Str("type", env.Type).Msg("ignoring non-payment notification")
		return ackOK()
	}

	paymentID := env.Data.ID.String()
	if paymentID == "" {
		s.logger.Warn().Msg("payment notification without payment id")
		return ackError(domainErrors.ErrMalformedNotification.Error())
	}

	info, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_id", paymentID).Msg("failed to fetch payment from provider")
		return ackError(err.Error())
	}

	sessionID, err := sessionIDFromReference(info.ExternalReference)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_id", paymentID).Msg("unusable external reference")
		return ackError(err.Error())
	}

	next := transaction.StatusFromProvider(info.Status)

	var (
		reconciled *transaction.Transaction
		changed    bool
	)
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		t, err := s.transactions.LockBySessionID(txCtx, sessionID)
		if err != nil {
			return err
		}

		attached := t.AttachPayment(paymentID)
		changed = t.ApplyStatus(next)

		if attached || changed {
			if err := s.transactions.Update(txCtx, t); err != nil {
				return err
			}
		}

		if changed {
			entry := outbox.NewEntry("credit_transaction", t.ID, "credits.purchase."+string(next), map[string]any{
				"session_id": t.SessionID,
				"payment_id": t.PaymentID,
				"email":      t.Email,
				"credits":    t.Credits,
				"status":     string(t.Status),
			})
			if err := s.outbox.Insert(txCtx, entry); err != nil {
				return err
			}
		}

		reconciled = t
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("payment_id", paymentID).
			Str("session_id", sessionID).
			Msg("reconciliation failed")
		return ackError(err.Error())
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("payment_id", paymentID).
		Str("status", string(reconciled.Status)).
		Bool("changed", changed).
		Msg("notification reconciled")

	ack := ackOK()
	ack.Applied = reconciled.Status
	ack.Changed = changed

	if changed {
		// The status is already committed; a notifier failure is reported in
		// the ack but never reverts the store.
		event := StatusEvent{
			SessionID: reconciled.SessionID,
			PaymentID: reconciled.PaymentID,
			Email:     reconciled.Email,
			Credits:   reconciled.Credits,
			Status:    reconciled.Status,
			Token:     reconciled.Token,
		}
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Error().Err(err).
				Str("session_id", sessionID).
				Str("status", string(reconciled.Status)).
				Msg("downstream notification failed")
			ack = ackError(err.Error())
			ack.Applied = reconciled.Status
			ack.Changed = changed
		}
	}

	return ack
}

// sessionIDFromReference parses the external reference JSON and extracts the
// session identifier.
func sessionIDFromReference(ref string) (string, error) {
	if ref == "" {
		return "", domainErrors.ErrMalformedReference
	}
	var parsed externalReference
	if err := json.Unmarshal([]byte(ref), &parsed); err != nil {
		return "", domainErrors.ErrMalformedReference
	}
	if parsed.SessionID == "" {
		return "", domainErrors.ErrMalformedReference
	}
	return parsed.SessionID, nil
}
