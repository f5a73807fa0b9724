package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/passfinder/passfinder/internal/model"
	"github.com/passfinder/passfinder/internal/roblox"
)

// UserPassesLister lists passes directly by user.
type UserPassesLister interface {
	ListUserGamePasses(ctx context.Context, userID uint64, cursor string) (roblox.UserPassesPage, error)
	DetailFetcher
}

// UserPassesSource reads the direct user listing and enriches each pass
// with its detail record. If a detail lookup fails the listing price is
// used when it is positive.
type UserPassesSource struct {
	upstream UserPassesLister
	enricher enricher
	maxPages int
}

// NewUserPassesSource creates a UserPassesSource.
func NewUserPassesSource(upstream UserPassesLister, opts GamesOptions) *UserPassesSource {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return &UserPassesSource{
		upstream: upstream,
		enricher: enricher{
			details:     upstream,
			concurrency: opts.DetailConcurrency,
		},
		maxPages: opts.MaxPages,
	}
}

// Name implements Source.
func (s *UserPassesSource) Name() string { return SourceUser }

// Fetch implements Source.
func (s *UserPassesSource) Fetch(ctx context.Context, userID uint64) ([]model.Gamepass, error) {
	listed, err := collectPages(ctx, s.maxPages, func(ctx context.Context, cursor string) ([]roblox.UserPass, string, error) {
		page, err := s.upstream.ListUserGamePasses(ctx, userID, cursor)
		if err != nil {
			return nil, "", err
		}
		return page.Passes, page.NextCursor, nil
	})
	if err != nil {
		if len(listed) == 0 {
			return nil, fmt.Errorf("list user passes: %w", err)
		}
		loggerFrom(ctx).Warn("user pass listing incomplete",
			slog.Int("passes", len(listed)),
			slog.String("error", err.Error()),
		)
	}

	cands := make([]candidate, 0, len(listed))
	seen := make(map[uint64]struct{}, len(listed))
	for _, p := range listed {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		if p.Creator.CreatorID != nil && *p.Creator.CreatorID != 0 && *p.Creator.CreatorID != userID {
			continue
		}
		cands = append(cands, candidate{ID: p.ID, Name: p.Name, Price: p.Price})
	}

	return s.enricher.enrich(ctx, userID, cands), nil
}
