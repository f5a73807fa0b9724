package aggregator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/passfinder/passfinder/internal/cache"
	"github.com/passfinder/passfinder/internal/model"
	"github.com/passfinder/passfinder/internal/roblox"
)

var errUpstream = errors.New("upstream unavailable")

// fakeUpstream is an in-memory Upstream. Paged listings are keyed by the
// cursor that requests them.
type fakeUpstream struct {
	mu sync.Mutex

	catalog    []roblox.CatalogItem
	catalogErr error

	games    map[string]roblox.GamesPage
	gamesErr error

	experiences    map[string]roblox.ExperiencesPage
	experiencesErr error

	gamePasses    map[uint64][]roblox.GamePass
	gamePassesErr map[uint64]error

	userPasses    map[string]roblox.UserPassesPage
	userPassesErr error

	details    map[uint64]roblox.PassDetail
	detailErr  map[uint64]error
	detailWait time.Duration

	calls       map[string]int
	gameCursors []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		games:         map[string]roblox.GamesPage{},
		experiences:   map[string]roblox.ExperiencesPage{},
		gamePasses:    map[uint64][]roblox.GamePass{},
		gamePassesErr: map[uint64]error{},
		userPasses:    map[string]roblox.UserPassesPage{},
		details:       map[uint64]roblox.PassDetail{},
		detailErr:     map[uint64]error{},
		calls:         map[string]int{},
	}
}

func (f *fakeUpstream) record(endpoint string) {
	f.mu.Lock()
	f.calls[endpoint]++
	f.mu.Unlock()
}

func (f *fakeUpstream) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *fakeUpstream) SearchCatalog(ctx context.Context, creatorID uint64) ([]roblox.CatalogItem, error) {
	f.record(roblox.EndpointCatalog)
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeUpstream) ListUserGames(ctx context.Context, userID uint64, cursor string) (roblox.GamesPage, error) {
	f.record(roblox.EndpointUserGames)
	f.mu.Lock()
	f.gameCursors = append(f.gameCursors, cursor)
	f.mu.Unlock()
	if f.gamesErr != nil {
		return roblox.GamesPage{}, f.gamesErr
	}
	return f.games[cursor], nil
}

func (f *fakeUpstream) ListExperiences(ctx context.Context, userID uint64, pageToken string) (roblox.ExperiencesPage, error) {
	f.record(roblox.EndpointExperiences)
	if f.experiencesErr != nil {
		return roblox.ExperiencesPage{}, f.experiencesErr
	}
	return f.experiences[pageToken], nil
}

func (f *fakeUpstream) ListGamePasses(ctx context.Context, universeID uint64, cursor string) (roblox.GamePassesPage, error) {
	f.record(roblox.EndpointGamePasses)
	if err := f.gamePassesErr[universeID]; err != nil {
		return roblox.GamePassesPage{}, err
	}
	return roblox.GamePassesPage{Passes: f.gamePasses[universeID]}, nil
}

func (f *fakeUpstream) ListUserGamePasses(ctx context.Context, userID uint64, cursor string) (roblox.UserPassesPage, error) {
	f.record(roblox.EndpointUserPasses)
	if f.userPassesErr != nil {
		return roblox.UserPassesPage{}, f.userPassesErr
	}
	return f.userPasses[cursor], nil
}

func (f *fakeUpstream) GetPassDetail(ctx context.Context, passID uint64) (roblox.PassDetail, error) {
	f.record(roblox.EndpointPassDetail)

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.detailWait > 0 {
		time.Sleep(f.detailWait)
	}

	if err := f.detailErr[passID]; err != nil {
		return roblox.PassDetail{}, err
	}
	d, ok := f.details[passID]
	if !ok {
		return roblox.PassDetail{}, &roblox.HTTPStatusError{StatusCode: 404}
	}
	return d, nil
}

// detail builds a product-info record with the given price and creator.
func detail(price int64, creator uint64) roblox.PassDetail {
	var d roblox.PassDetail
	d.PriceInRobux = roblox.Price(price)
	d.Creator.ID = &creator
	return d
}

func userPass(id uint64, name string) roblox.UserPass {
	return roblox.UserPass{ID: id, Name: name}
}

func gamePass(id uint64, name string) roblox.GamePass {
	return roblox.GamePass{ID: id, Name: name}
}

func catalogPass(id uint64, name string, price int64) roblox.CatalogItem {
	assetType := roblox.AssetTypePass
	return roblox.CatalogItem{ID: id, Name: name, Price: roblox.Price(price), AssetType: &assetType}
}

// staticSource returns fixed passes or a fixed error.
type staticSource struct {
	name   string
	passes []model.Gamepass
	err    error
	calls  int
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(ctx context.Context, userID uint64) ([]model.Gamepass, error) {
	s.calls++
	return s.passes, s.err
}

// fakeCache is an in-memory ResultCache.
type fakeCache struct {
	mu      sync.Mutex
	stored  map[uint64]model.AggregationResult
	getErr  error
	setErr  error
	setCall int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: map[uint64]model.AggregationResult{}}
}

func (c *fakeCache) GetResult(ctx context.Context, userID uint64) (*model.AggregationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	r, ok := c.stored[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &r, nil
}

func (c *fakeCache) SetResult(ctx context.Context, result model.AggregationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCall++
	if c.setErr != nil {
		return c.setErr
	}
	c.stored[result.UserID] = result
	return nil
}

func userPage(passes ...roblox.UserPass) roblox.UserPassesPage {
	return roblox.UserPassesPage{Passes: passes}
}

// gamesPage builds a page of games with the given universe ids.
func gamesPage(next string, ids ...uint64) roblox.GamesPage {
	page := roblox.GamesPage{NextCursor: next}
	for _, id := range ids {
		page.Games = append(page.Games, roblox.Game{ID: id})
	}
	return page
}
