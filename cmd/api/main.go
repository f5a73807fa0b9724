// Package main is the entrypoint for the passfinder API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/passfinder/passfinder/internal/aggregator"
	"github.com/passfinder/passfinder/internal/cache"
	"github.com/passfinder/passfinder/internal/config"
	"github.com/passfinder/passfinder/internal/metrics"
	"github.com/passfinder/passfinder/internal/roblox"
	"github.com/passfinder/passfinder/internal/server"
	"github.com/passfinder/passfinder/internal/tracing"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	shutdownTracing, err := tracing.Setup(ctx, "passfinder", version, cfg.OTelEndpoint)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	// Redis is optional. Without it results are not cached and the
	// per-IP rate limit is off.
	var cacheClient *cache.Cache
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cache.Options{
			ResultTTL:   cfg.CacheTTL,
			NegativeTTL: cfg.CacheNegativeTTL,
		})
		if err != nil {
			logger.Error(
				"failed to connect to Redis, continuing without cache",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
		} else {
			logger.Info("connected to Redis")
		}
	}

	metricsRecorder := metrics.NewInMemory()

	client := roblox.New(roblox.Config{
		CatalogBaseURL: cfg.CatalogBaseURL,
		GamesBaseURL:   cfg.GamesBaseURL,
		APIsBaseURL:    cfg.APIsBaseURL,
		APIKey:         cfg.RobloxAPIKey,
		CallTimeout:    cfg.UpstreamTimeout,
		Metrics:        metricsRecorder,
	})

	sources, err := aggregator.BuildSources(cfg.SourceOrder(), client, aggregator.BuildOptions{
		GamesOptions: aggregator.GamesOptions{
			DetailConcurrency: cfg.DetailConcurrency,
			MaxPages:          cfg.MaxPages,
		},
		ExperiencesEnabled: cfg.ExperiencesEnabled(),
		Logger:             logger,
	})
	if err != nil {
		logger.Error("invalid source configuration", "error", err, "sources", cfg.Sources)
		os.Exit(1)
	}

	aggOpts := aggregator.Options{
		SortByPrice: cfg.SortByPrice,
		Metrics:     metricsRecorder,
		Logger:      logger,
	}
	if cacheClient != nil {
		aggOpts.Cache = cacheClient
	}
	agg := aggregator.New(sources, aggOpts)

	r := setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		resolver: agg,
		sources:  agg.Sources(),
		cache:    cacheClient,
		metrics:  metricsRecorder,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.ListenPort(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("tracing", server.ShutdownFunc(shutdownTracing))
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.ListenPort(),
		"env", cfg.AppEnv,
		"version", version,
		"sources", agg.Sources(),
		"sort_by_price", cfg.SortByPrice,
		"cache", cacheClient != nil,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "passfinder")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces any secret connection string in err's message with
// its redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
