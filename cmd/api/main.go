package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cassiomorais/credits/internal/bootstrap"
	"github.com/cassiomorais/credits/internal/controller"
	"github.com/cassiomorais/credits/internal/ledger"
	"github.com/cassiomorais/credits/internal/provider"
	"github.com/cassiomorais/credits/internal/repository/postgres"
	"github.com/cassiomorais/credits/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "credits-api", "credits")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- External clients ---
	providerClient := provider.NewMercadoPagoClient(&app.Config.Provider, app.Metrics)
	ledgerClient := ledger.NewClient(&app.Config.Ledger, app.Metrics)
	notifier := ledger.NewNotifier(ledgerClient, app.Logger)

	// --- Services ---
	sessionService := service.NewSessionService(transactionRepo)
	preferenceService := service.NewPreferenceService(providerClient, app.Config.Provider)
	webhookService := service.NewWebhookService(
		transactionRepo, outboxRepo, txManager, providerClient, notifier, app.Logger,
	)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:              app.Pool,
		RedisClient:       app.Redis,
		Provider:          providerClient,
		SessionService:    sessionService,
		PreferenceService: preferenceService,
		WebhookService:    webhookService,
		IdempotencyRepo:   idempotencyRepo,
		Metrics:           app.Metrics,
		Logger:            app.Logger,
		CORSConfig:        app.Config.Server.CORS,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
