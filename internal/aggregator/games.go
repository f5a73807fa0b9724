package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/passfinder/passfinder/internal/model"
	"github.com/passfinder/passfinder/internal/roblox"
)

// DefaultMaxPages bounds every paginated listing.
const DefaultMaxPages = 20

// GamesLister lists a user's public games and each game's passes.
type GamesLister interface {
	ListUserGames(ctx context.Context, userID uint64, cursor string) (roblox.GamesPage, error)
	ListGamePasses(ctx context.Context, universeID uint64, cursor string) (roblox.GamePassesPage, error)
	DetailFetcher
}

// ExperiencesLister additionally lists universes through the privileged
// experiences endpoint.
type ExperiencesLister interface {
	GamesLister
	ListExperiences(ctx context.Context, userID uint64, pageToken string) (roblox.ExperiencesPage, error)
}

// discoverFunc returns one page of universe ids for a user.
type discoverFunc func(ctx context.Context, userID uint64, cursor string) ([]uint64, string, error)

// GamesSource enumerates a user's games, lists each game's passes and
// confirms every pass against its detail record. Passes whose detail
// cannot be fetched, names another creator or has no positive price are
// dropped.
type GamesSource struct {
	name     string
	upstream GamesLister
	discover discoverFunc
	enricher enricher
	maxPages int
}

// GamesOptions tunes the per-game enumeration.
type GamesOptions struct {
	DetailConcurrency int
	MaxPages          int
}

// NewGamesSource discovers games through the public user-games listing.
func NewGamesSource(upstream GamesLister, opts GamesOptions) *GamesSource {
	return newGamesSource(SourceGames, upstream, publicGames(upstream), opts)
}

// NewExperiencesSource discovers games through the privileged experiences
// listing and otherwise behaves like the games source.
func NewExperiencesSource(upstream ExperiencesLister, opts GamesOptions) *GamesSource {
	discover := func(ctx context.Context, userID uint64, cursor string) ([]uint64, string, error) {
		page, err := upstream.ListExperiences(ctx, userID, cursor)
		if err != nil {
			return nil, "", err
		}
		return page.UniverseIDs, page.NextCursor, nil
	}
	return newGamesSource(SourceExperiences, upstream, discover, opts)
}

func newGamesSource(name string, upstream GamesLister, discover discoverFunc, opts GamesOptions) *GamesSource {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return &GamesSource{
		name:     name,
		upstream: upstream,
		discover: discover,
		enricher: enricher{
			details:       upstream,
			concurrency:   opts.DetailConcurrency,
			requireDetail: true,
		},
		maxPages: opts.MaxPages,
	}
}

func publicGames(upstream GamesLister) discoverFunc {
	return func(ctx context.Context, userID uint64, cursor string) ([]uint64, string, error) {
		page, err := upstream.ListUserGames(ctx, userID, cursor)
		if err != nil {
			return nil, "", err
		}
		ids := make([]uint64, 0, len(page.Games))
		for _, g := range page.Games {
			ids = append(ids, g.ID)
		}
		return ids, page.NextCursor, nil
	}
}

// Name implements Source.
func (s *GamesSource) Name() string { return s.name }

// Fetch implements Source.
func (s *GamesSource) Fetch(ctx context.Context, userID uint64) ([]model.Gamepass, error) {
	logger := loggerFrom(ctx)

	universes, err := collectPages(ctx, s.maxPages, func(ctx context.Context, cursor string) ([]uint64, string, error) {
		return s.discover(ctx, userID, cursor)
	})
	if err != nil {
		if len(universes) == 0 {
			return nil, fmt.Errorf("list games: %w", err)
		}
		logger.Warn("game listing incomplete",
			slog.Int("games", len(universes)),
			slog.String("error", err.Error()),
		)
	}

	var cands []candidate
	seenGame := make(map[uint64]struct{}, len(universes))
	seenPass := make(map[uint64]struct{})

	for _, universeID := range universes {
		if _, dup := seenGame[universeID]; dup {
			continue
		}
		seenGame[universeID] = struct{}{}

		passes, err := collectPages(ctx, s.maxPages, func(ctx context.Context, cursor string) ([]roblox.GamePass, string, error) {
			page, err := s.upstream.ListGamePasses(ctx, universeID, cursor)
			if err != nil {
				return nil, "", err
			}
			return page.Passes, page.NextCursor, nil
		})
		if err != nil {
			logger.Warn("game pass listing failed",
				slog.Uint64("universe_id", universeID),
				slog.String("kind", roblox.Kind(err)),
				slog.String("error", err.Error()),
			)
		}

		for _, p := range passes {
			if _, dup := seenPass[p.ID]; dup {
				continue
			}
			seenPass[p.ID] = struct{}{}
			cands = append(cands, candidate{ID: p.ID, Name: p.Title(), Price: p.Price})
		}
	}

	return s.enricher.enrich(ctx, userID, cands), nil
}
