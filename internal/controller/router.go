package controller

import (
	"time"

	"github.com/cassiomorais/credits/internal/infrastructure/config"
	"github.com/cassiomorais/credits/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/credits/internal/middleware"
	"github.com/cassiomorais/credits/internal/provider"
	"github.com/cassiomorais/credits/internal/repository/postgres"
	"github.com/cassiomorais/credits/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Pool              *pgxpool.Pool
	RedisClient       *redis.Client
	Provider          provider.Client
	SessionService    *service.SessionService
	PreferenceService *service.PreferenceService
	WebhookService    *service.WebhookService
	IdempotencyRepo   *postgres.IdempotencyRepository
	Metrics           *observability.Metrics
	Logger            zerolog.Logger
	CORSConfig        config.CORSConfig
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.SecurityHeaders())
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	sessionH := NewSessionController(deps.SessionService, deps.Metrics)
	preferenceH := NewPreferenceController(deps.PreferenceService)
	paymentH := NewPaymentController(deps.Provider)
	priceH := NewPriceController()
	webhookH := NewWebhookController(deps.WebhookService, deps.Metrics, deps.Logger)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	// Provider notifications come in outside the versioned API surface.
	r.Post("/webhooks/mercadopago", webhookH.HandleMercadoPago)

	r.Route("/api/v1", func(r chi.Router) {
		idempotencyMW := customMW.Idempotency(deps.IdempotencyRepo)

		r.With(idempotencyMW).Post("/sessions", sessionH.CreateSession)
		r.Post("/preferences", preferenceH.CreatePreference)
		r.Get("/payments/{id}", paymentH.GetPayment)
		r.Get("/prices", priceH.ListPrices)
	})

	return r
}
