package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"quoteflow/internal/platform/config"
	"quoteflow/internal/platform/health"
	"quoteflow/internal/platform/httpserver"
	"quoteflow/internal/platform/logger"
	platformredis "quoteflow/internal/platform/redis"
	"quoteflow/internal/platform/tracer"
	"quoteflow/internal/quoteapi"
	"quoteflow/internal/registration/handler"
	"quoteflow/internal/registration/persistence"
	"quoteflow/internal/registration/pricing"
	"quoteflow/internal/registration/service"
	"quoteflow/internal/sessiontoken"
	httptransport "quoteflow/internal/transport/http"
	"quoteflow/pkg/platform/middleware/metadata"
	request "quoteflow/pkg/platform/middleware/request"
)

const poolStatsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/registration.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing quoteflow",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"quote_api", cfg.QuoteAPI.BaseURL,
		"session_timeout", cfg.Session.Timeout.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	healthHandler := health.New(cfg.Environment)

	kv, closeKV := buildKV(ctx, cfg, registry, healthHandler, log)
	defer closeKV()

	persister := persistence.New(kv,
		persistence.WithTTL(cfg.Session.TokenTTL),
		persistence.WithLogger(log),
	)

	tr := tracer.NewOTel()
	api := quoteapi.New(cfg.QuoteAPI.BaseURL, cfg.QuoteAPI.Timeout,
		quoteapi.WithTracer(tr),
		quoteapi.WithMetrics(quoteapi.NewMetrics(registry)),
	)

	var pricingOpts []pricing.Option
	if cfg.Pricing.SeniorDiscount {
		pricingOpts = append(pricingOpts, pricing.WithSeniorDiscount())
	}

	calc := pricing.NewCalculator(pricingOpts...)
	log.Info("pricing configured", "senior_discount", calc.SeniorDiscountEnabled())

	manager := service.New(api, persister,
		service.WithCalculator(calc),
		service.WithSessionTimeout(cfg.Session.Timeout),
		service.WithTracer(tr),
		service.WithLogger(log),
		service.WithMetrics(service.NewMetrics(registry)),
	)

	tokens := sessiontoken.New(cfg.Session.SigningKey, cfg.Session.Issuer, cfg.Session.TokenTTL)

	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Registration: handler.New(manager, tokens, int(tokens.TTL().Seconds()), log),
		Health:       healthHandler,
		Tokens:       tokens,
		Metadata:     metadata.NewMiddleware(&metadata.Config{TrustedProxies: trusted}),
		Gatherer:     registry,
		Metrics:      request.NewMetrics(registry),
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error("server error", "error", err)
	}

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	manager.Shutdown()

	log.Info("server stopped")
}

// buildKV picks Redis when REDIS_URL is set and the in-memory store otherwise.
func buildKV(ctx context.Context, cfg config.Server, reg prometheus.Registerer, h *health.Handler, log *slog.Logger) (persistence.KV, func()) {
	if cfg.Redis.URL == "" {
		log.Info("using in-memory registration store")
		return persistence.NewMemoryKV(), func() {}
	}

	client, err := platformredis.New(ctx, cfg.Redis, platformredis.NewPoolMetrics(reg))
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	log.Info("using redis registration store")
	h.RegisterCheck("redis", client.Health)
	go client.RunPoolStats(ctx, poolStatsInterval)

	return persistence.NewRedisKV(client), func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}
}
