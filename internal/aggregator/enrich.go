package aggregator

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/passfinder/passfinder/internal/model"
	"github.com/passfinder/passfinder/internal/roblox"
)

// DefaultDetailConcurrency caps in-flight detail lookups per source.
const DefaultDetailConcurrency = 8

// DetailFetcher looks up a single pass's product-info record.
type DetailFetcher interface {
	GetPassDetail(ctx context.Context, passID uint64) (roblox.PassDetail, error)
}

// candidate is a pass discovered by a listing, awaiting confirmation.
type candidate struct {
	ID    uint64
	Name  string
	Price roblox.Robux
}

// enricher confirms candidates against their detail records.
type enricher struct {
	details     DetailFetcher
	concurrency int
	// requireDetail drops a candidate whose detail lookup failed. When
	// false the listing price is used instead.
	requireDetail bool
}

// enrich looks up every candidate with bounded concurrency and returns the
// confirmed passes in candidate order.
func (e enricher) enrich(ctx context.Context, userID uint64, cands []candidate) []model.Gamepass {
	if len(cands) == 0 {
		return nil
	}

	limit := e.concurrency
	if limit <= 0 {
		limit = DefaultDetailConcurrency
	}

	results := make([]*model.Gamepass, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, c := range cands {
		g.Go(func() error {
			results[i] = e.confirm(gctx, userID, c)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.Gamepass, 0, len(cands))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// confirm applies the creator and price rules to one candidate.
func (e enricher) confirm(ctx context.Context, userID uint64, c candidate) *model.Gamepass {
	logger := loggerFrom(ctx)

	detail, err := e.details.GetPassDetail(ctx, c.ID)
	if err != nil {
		logger.Warn("pass detail lookup failed",
			slog.Uint64("pass_id", c.ID),
			slog.String("kind", roblox.Kind(err)),
			slog.String("error", err.Error()),
		)
		if e.requireDetail {
			return nil
		}
		return fromListing(c)
	}

	if creator, ok := detail.CreatorID(); ok && creator != userID {
		logger.Debug("pass creator mismatch",
			slog.Uint64("pass_id", c.ID),
			slog.Uint64("creator_id", creator),
		)
		return nil
	}

	name := c.Name
	if name == "" {
		name = detail.Name
	}

	price := detail.Price()
	if !price.Valid && !e.requireDetail {
		price = c.Price
	}
	value, ok := price.Positive()
	if !ok {
		return nil
	}

	return &model.Gamepass{ID: c.ID, Name: name, Price: value}
}

func fromListing(c candidate) *model.Gamepass {
	value, ok := c.Price.Positive()
	if !ok {
		return nil
	}
	return &model.Gamepass{ID: c.ID, Name: c.Name, Price: value}
}
