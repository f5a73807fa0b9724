package aggregator

import (
	"context"
	"fmt"

	"github.com/passfinder/passfinder/internal/model"
	"github.com/passfinder/passfinder/internal/roblox"
)

// CatalogSearcher searches the global item catalog.
type CatalogSearcher interface {
	SearchCatalog(ctx context.Context, creatorID uint64) ([]roblox.CatalogItem, error)
}

// CatalogSource finds passes through the catalog search, keeping items
// classified as passes with a positive price.
type CatalogSource struct {
	catalog CatalogSearcher
}

// NewCatalogSource creates a CatalogSource.
func NewCatalogSource(catalog CatalogSearcher) *CatalogSource {
	return &CatalogSource{catalog: catalog}
}

// Name implements Source.
func (s *CatalogSource) Name() string { return SourceCatalog }

// Fetch implements Source.
func (s *CatalogSource) Fetch(ctx context.Context, userID uint64) ([]model.Gamepass, error) {
	items, err := s.catalog.SearchCatalog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	passes := make([]model.Gamepass, 0, len(items))
	for _, item := range items {
		if !item.IsPass() {
			continue
		}
		price, ok := item.Price.Positive()
		if !ok {
			continue
		}
		passes = append(passes, model.Gamepass{ID: item.ID, Name: item.Name, Price: price})
	}
	return passes, nil
}
