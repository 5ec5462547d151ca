package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cassiomorais/credits/internal/bootstrap"
	"github.com/cassiomorais/credits/internal/domain/outbox"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/credits/internal/infrastructure/redis"
	"github.com/cassiomorais/credits/internal/repository/postgres"
	"github.com/cassiomorais/credits/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const pollerLockKey = "credits:outbox-poller"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "credits-worker", "credits_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)
	streamProducer := infraRedis.NewStreamProducer(app.Redis)

	workerCfg := app.Config.Worker
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)

	app.Logger.Info().
		Str("stream", infraRedis.CreditsStream).
		Str("instance", app.Config.InstanceID).
		Msg("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Outbox poller (publishes status events to the Redis stream).
	g.Go(func() error {
		return runOutboxPoller(gCtx, app, txManager, outboxRepo, streamProducer)
	})

	// 2. Idempotency key janitor.
	g.Go(func() error {
		return runIdempotencyCleanup(gCtx, app.Logger, idempotencyRepo, workerCfg.IdempotencyTTL)
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

// runOutboxPoller drains pending outbox entries on a fixed interval. A Redis
// leader lock keeps a single instance polling; the others idle until the
// lock frees up.
func runOutboxPoller(
	ctx context.Context,
	app *bootstrap.App,
	txManager *postgres.TxManager,
	outboxRepo *postgres.OutboxRepository,
	streamProducer *infraRedis.StreamProducer,
) error {
	cfg := app.Config.Worker
	ticker := time.NewTicker(cfg.OutboxPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		lock := infraRedis.NewDistributedLock(app.Redis, pollerLockKey, cfg.PollerLockTTL)
		acquired, err := lock.Acquire(ctx)
		if err != nil {
			app.Logger.Error().Err(err).Msg("Failed to acquire poller lock")
			continue
		}
		if !acquired {
			continue
		}

		// Drain until the backlog is gone, extending the lock between full
		// batches so it cannot expire mid-drain.
		for {
			drained, err := drainOutbox(ctx, app.Logger, app.Metrics, txManager, outboxRepo, streamProducer, cfg.OutboxBatchSize)
			if err != nil {
				app.Logger.Error().Err(err).Msg("Outbox poller error")
				break
			}
			if drained < cfg.OutboxBatchSize {
				break
			}
			if err := lock.Extend(ctx, cfg.PollerLockTTL); err != nil {
				app.Logger.Warn().Err(err).Msg("Lost poller lock mid-drain")
				break
			}
		}
		lock.Release(ctx)
	}
}

type eventPublisher interface {
	PublishStatusEvent(ctx context.Context, eventType string, data map[string]any) error
}

// drainOutbox publishes one batch of pending outbox entries and reports how
// many it processed.
func drainOutbox(
	ctx context.Context,
	logger zerolog.Logger,
	metrics *observability.Metrics,
	txManager service.TransactionManager,
	outboxRepo outbox.Repository,
	publisher eventPublisher,
	batchSize int,
) (int, error) {
	var processed int
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		entries, err := outboxRepo.GetPending(txCtx, batchSize)
		if err != nil {
			return err
		}
		processed = len(entries)
		for _, entry := range entries {
			if err := publisher.PublishStatusEvent(ctx, entry.EventType, entry.Payload); err != nil {
				logger.Error().Err(err).Str("outbox_id", entry.ID.String()).Msg("Failed to publish outbox event")
				metrics.OutboxPublishedTotal.WithLabelValues("error").Inc()
				outboxRepo.MarkFailed(txCtx, entry.ID)
				continue
			}
			metrics.OutboxPublishedTotal.WithLabelValues("success").Inc()
			outboxRepo.MarkPublished(txCtx, entry.ID)
		}
		return nil
	})
	return processed, err
}

// runIdempotencyCleanup periodically deletes expired idempotency keys.
func runIdempotencyCleanup(
	ctx context.Context,
	logger zerolog.Logger,
	idempotencyRepo *postgres.IdempotencyRepository,
	interval time.Duration,
) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		deleted, err := idempotencyRepo.Cleanup(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Idempotency cleanup failed")
			continue
		}
		if deleted > 0 {
			logger.Debug().Int64("deleted", deleted).Msg("Expired idempotency keys removed")
		}
	}
}
