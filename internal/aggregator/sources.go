package aggregator

import (
	"fmt"
	"log/slog"
)

// Source names accepted by BuildSources.
const (
	SourceCatalog     = "catalog"
	SourceGames       = "games"
	SourceUser        = "user"
	SourceExperiences = "experiences"
)

// Upstream is everything the built-in sources need from the platform.
// *roblox.Client implements it.
type Upstream interface {
	CatalogSearcher
	ExperiencesLister
	UserPassesLister
}

// BuildOptions configures BuildSources.
type BuildOptions struct {
	GamesOptions
	// ExperiencesEnabled registers the experiences source. It needs an
	// API credential and is skipped otherwise.
	ExperiencesEnabled bool
	Logger             *slog.Logger
}

// BuildSources turns an ordered list of source names into Sources.
func BuildSources(names []string, upstream Upstream, opts BuildOptions) ([]Source, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		switch name {
		case SourceCatalog:
			sources = append(sources, NewCatalogSource(upstream))
		case SourceGames:
			sources = append(sources, NewGamesSource(upstream, opts.GamesOptions))
		case SourceUser:
			sources = append(sources, NewUserPassesSource(upstream, opts.GamesOptions))
		case SourceExperiences:
			if !opts.ExperiencesEnabled {
				logger.Info("experiences source disabled, no api key configured")
				continue
			}
			sources = append(sources, NewExperiencesSource(upstream, opts.GamesOptions))
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	return sources, nil
}
