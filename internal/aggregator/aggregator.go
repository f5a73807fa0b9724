// Package aggregator resolves a user's for-sale game passes by querying an
// ordered list of upstream sources and returning the first non-empty,
// filtered and de-duplicated result.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/passfinder/passfinder/internal/cache"
	"github.com/passfinder/passfinder/internal/metrics"
	"github.com/passfinder/passfinder/internal/model"
)

const tracerName = "github.com/passfinder/passfinder/internal/aggregator"

// Source is one strategy for discovering a user's passes.
//
// Fetch returns an error only when the source as a whole could not run
// (e.g. the initial listing failed). Failures of individual items are
// absorbed by the source.
type Source interface {
	Name() string
	Fetch(ctx context.Context, userID uint64) ([]model.Gamepass, error)
}

// ResultCache stores finished results. cache.Cache implements it.
type ResultCache interface {
	GetResult(ctx context.Context, userID uint64) (*model.AggregationResult, error)
	SetResult(ctx context.Context, result model.AggregationResult) error
}

// Options configures an Aggregator.
type Options struct {
	SortByPrice bool
	Cache       ResultCache
	Metrics     metrics.Recorder
	Logger      *slog.Logger
}

// Aggregator runs sources in priority order.
type Aggregator struct {
	sources     []Source
	sortByPrice bool
	cache       ResultCache
	metrics     metrics.Recorder
	logger      *slog.Logger
	tracer      trace.Tracer
}

// New creates an Aggregator over the given sources.
func New(sources []Source, opts Options) *Aggregator {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Aggregator{
		sources:     sources,
		sortByPrice: opts.SortByPrice,
		cache:       opts.Cache,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		tracer:      otel.Tracer(tracerName),
	}
}

// Sources returns the configured source names in order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, s := range a.sources {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the user's passes. Upstream failures never surface: when
// every source fails or comes back empty the result is empty and still OK.
func (a *Aggregator) Resolve(ctx context.Context, userID uint64) model.AggregationResult {
	start := time.Now()
	defer func() {
		a.metrics.ObserveResolveDuration(time.Since(start))
	}()

	logger := a.logger.With(
		slog.String("run_id", ulid.Make().String()),
		slog.Uint64("user_id", userID),
	)
	ctx = withLogger(ctx, logger)

	ctx, span := a.tracer.Start(ctx, "aggregator.Resolve",
		trace.WithAttributes(attribute.String("user.id", strconv.FormatUint(userID, 10))))
	defer span.End()

	if cached, ok := a.lookupCache(ctx, userID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached
	}

	acc := newAccumulator()
	source := ""
	for _, src := range a.sources {
		if ctx.Err() != nil {
			break
		}
		if a.runSource(ctx, src, userID, acc) > 0 {
			source = src.Name()
			break
		}
	}

	passes := acc.Passes()
	if a.sortByPrice {
		model.SortByPrice(passes)
	}

	result := model.NewAggregationResult(userID, passes)
	result.Source = source
	if result.IsEmpty() {
		a.metrics.IncResolveEmpty()
	}

	a.storeCache(ctx, result)

	span.SetAttributes(
		attribute.String("source", source),
		attribute.Int("passes.count", result.Count),
	)
	logger.Info("resolve complete",
		slog.String("source", source),
		slog.Int("count", result.Count),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)

	return result
}

// runSource executes one source and feeds its output to acc.
// Returns the number of passes accepted.
func (a *Aggregator) runSource(ctx context.Context, src Source, userID uint64, acc *accumulator) int {
	ctx, span := a.tracer.Start(ctx, "source."+src.Name())
	defer span.End()

	logger := loggerFrom(ctx).With(slog.String("source", src.Name()))

	passes, err := src.Fetch(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "source failed")
		a.metrics.IncSourceResult(src.Name(), metrics.SourceFailed)
		logger.Warn("source failed", slog.String("error", err.Error()))
		return 0
	}

	added := 0
	for _, p := range passes {
		if acc.Add(p) {
			added++
		}
	}

	span.SetAttributes(
		attribute.Int("passes.fetched", len(passes)),
		attribute.Int("passes.accepted", added),
	)

	if added == 0 {
		a.metrics.IncSourceResult(src.Name(), metrics.SourceEmpty)
		logger.Debug("source empty", slog.Int("fetched", len(passes)))
		return 0
	}

	a.metrics.IncSourceResult(src.Name(), metrics.SourceHit)
	logger.Debug("source hit", slog.Int("fetched", len(passes)), slog.Int("accepted", added))
	return added
}

func (a *Aggregator) lookupCache(ctx context.Context, userID uint64) (model.AggregationResult, bool) {
	if a.cache == nil {
		return model.AggregationResult{}, false
	}

	cached, err := a.cache.GetResult(ctx, userID)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			loggerFrom(ctx).Warn("result cache read failed", slog.String("error", err.Error()))
		}
		a.metrics.IncCacheMiss()
		return model.AggregationResult{}, false
	}

	a.metrics.IncCacheHit()
	result := model.NewAggregationResult(userID, cached.Passes)
	result.Source = "cache"
	return result, true
}

func (a *Aggregator) storeCache(ctx context.Context, result model.AggregationResult) {
	if a.cache == nil || ctx.Err() != nil {
		return
	}
	if err := a.cache.SetResult(ctx, result); err != nil {
		loggerFrom(ctx).Warn("result cache write failed", slog.String("error", err.Error()))
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
