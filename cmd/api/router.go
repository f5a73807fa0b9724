package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/passfinder/passfinder/internal/cache"
	"github.com/passfinder/passfinder/internal/config"
	"github.com/passfinder/passfinder/internal/handler"
	"github.com/passfinder/passfinder/internal/metrics"
	"github.com/passfinder/passfinder/internal/middleware"
)

// routerDeps groups what setupRouter wires into handlers.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver handler.Resolver
	sources  []string
	cache    *cache.Cache // nil when Redis is not configured
	metrics  metrics.Snapshotter
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	h := handler.New(version, d.sources)

	// A nil *cache.Cache must not reach the interfaces below as a typed nil.
	var healthCache handler.HealthChecker
	var limiter middleware.RateLimiter
	if d.cache != nil {
		healthCache = d.cache
		limiter = d.cache
	}

	healthHandler := handler.NewHealthHandler(healthCache)
	passesHandler := handler.NewPassesHandler(d.resolver, d.logger)
	metricsHandler := handler.NewMetricsHandler(d.metrics)

	// Operational endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: limiter,
		Enabled: d.cfg.RateLimitEnabled,
		RPS:     d.cfg.RateLimitRPS,
		Burst:   d.cfg.RateLimitBurst,
	}

	r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/user/{userId}/passes", passesHandler.List)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
