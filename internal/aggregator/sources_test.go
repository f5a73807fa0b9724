package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/passfinder/passfinder/internal/model"
	"github.com/passfinder/passfinder/internal/roblox"
	"github.com/passfinder/passfinder/internal/testutil"
)

func TestCatalogSource_Filters(t *testing.T) {
	t.Parallel()

	hat := 8
	up := newFakeUpstream()
	up.catalog = []roblox.CatalogItem{
		catalogPass(1, "VIP", 100),
		catalogPass(2, "Free", 0),
		{ID: 3, Name: "Hat", Price: roblox.Price(50), AssetType: &hat},
		{ID: 4, Name: "Untyped", Price: roblox.Price(50)},
		{ID: 5, Name: "Unpriced", AssetType: catalogPass(0, "", 0).AssetType},
	}

	got, err := NewCatalogSource(up).Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []model.Gamepass{{ID: 1, Name: "VIP", Price: 100}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogSource_Error(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.catalogErr = errUpstream

	_, err := NewCatalogSource(up).Fetch(context.Background(), 1)
	if !errors.Is(err, errUpstream) {
		t.Errorf("err = %v, want wrapping %v", err, errUpstream)
	}
}

func TestGamesSource_FollowsAllPages(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.games[""] = gamesPage("B", 10)
	up.games["B"] = gamesPage("C", 11)
	up.games["C"] = gamesPage("", 12)
	for i, id := range []uint64{10, 11, 12} {
		passID := uint64(100 + i)
		up.gamePasses[id] = []roblox.GamePass{gamePass(passID, "Pass")}
		up.details[passID] = detail(int64(10*(i+1)), 77)
	}

	got, err := NewGamesSource(up, GamesOptions{}).Fetch(context.Background(), 77)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if n := up.callCount(roblox.EndpointUserGames); n != 3 {
		t.Errorf("games listing requests = %d, want 3", n)
	}
	if diff := cmp.Diff([]string{"", "B", "C"}, up.gameCursors); diff != "" {
		t.Errorf("cursors mismatch (-want +got):\n%s", diff)
	}

	want := []model.Gamepass{
		{ID: 100, Name: "Pass", Price: 10},
		{ID: 101, Name: "Pass", Price: 20},
		{ID: 102, Name: "Pass", Price: 30},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("passes mismatch (-want +got):\n%s", diff)
	}
}

func TestGamesSource_DetailRules(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.games[""] = gamesPage("", 10, 10, 11)
	up.gamePasses[10] = []roblox.GamePass{
		gamePass(1, "Mine"),
		gamePass(2, "Someone else's"),
		gamePass(3, "Detail fails"),
		gamePass(4, "Free"),
		gamePass(1, "Mine duplicate"),
	}
	up.gamePasses[11] = []roblox.GamePass{
		{ID: 5, DisplayName: "Display", Price: roblox.Price(40)},
		gamePass(1, "Mine in another game"),
	}
	up.details[1] = detail(50, 123)
	up.details[2] = detail(50, 999)
	up.detailErr[3] = &roblox.TransportError{Err: errUpstream}
	up.details[4] = detail(0, 123)
	up.details[5] = detail(40, 123)

	got, err := NewGamesSource(up, GamesOptions{DetailConcurrency: 2}).Fetch(context.Background(), 123)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []model.Gamepass{
		{ID: 1, Name: "Mine", Price: 50},
		{ID: 5, Name: "Display", Price: 40},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("passes mismatch (-want +got):\n%s", diff)
	}
	if n := up.callCount(roblox.EndpointGamePasses); n != 2 {
		t.Errorf("pass listings = %d, want 2 (duplicate game skipped)", n)
	}
}

func TestGamesSource_PassListingFailureSkipsGame(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.games[""] = gamesPage("", 10, 11)
	up.gamePassesErr[10] = errUpstream
	up.gamePasses[11] = []roblox.GamePass{gamePass(2, "Survivor")}
	up.details[2] = detail(15, 1)

	got, err := NewGamesSource(up, GamesOptions{}).Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff([]model.Gamepass{{ID: 2, Name: "Survivor", Price: 15}}, got); diff != "" {
		t.Errorf("passes mismatch (-want +got):\n%s", diff)
	}
}

func TestGamesSource_DiscoveryFailure(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.gamesErr = errUpstream

	_, err := NewGamesSource(up, GamesOptions{}).Fetch(context.Background(), 1)
	if !errors.Is(err, errUpstream) {
		t.Errorf("err = %v, want wrapping %v", err, errUpstream)
	}
}

func TestExperiencesSource(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.experiences[""] = roblox.ExperiencesPage{UniverseIDs: []uint64{20}, NextCursor: "next"}
	up.experiences["next"] = roblox.ExperiencesPage{UniverseIDs: []uint64{21}}
	up.gamePasses[20] = []roblox.GamePass{gamePass(1, "A")}
	up.gamePasses[21] = []roblox.GamePass{gamePass(2, "B")}
	up.details[1] = detail(5, 3)
	up.details[2] = detail(6, 3)

	src := NewExperiencesSource(up, GamesOptions{})
	if src.Name() != SourceExperiences {
		t.Errorf("Name = %q, want %q", src.Name(), SourceExperiences)
	}

	got, err := src.Fetch(context.Background(), 3)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := []model.Gamepass{{ID: 1, Name: "A", Price: 5}, {ID: 2, Name: "B", Price: 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("passes mismatch (-want +got):\n%s", diff)
	}
	if n := up.callCount(roblox.EndpointUserGames); n != 0 {
		t.Errorf("public games listing used %d times", n)
	}
}

func TestExperiencesSource_NoAPIKey(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream()
	up.experiencesErr = roblox.ErrNoAPIKey

	_, err := NewExperiencesSource(up, GamesOptions{}).Fetch(context.Background(), 3)
	if !errors.Is(err, roblox.ErrNoAPIKey) {
		t.Errorf("err = %v, want %v", err, roblox.ErrNoAPIKey)
	}
}

func TestUserPassesSource(t *testing.T) {
	t.Parallel()

	other := uint64(999)
	self := uint64(5)

	listed := []roblox.UserPass{
		userPass(1, "Confirmed"),
		{ID: 2, Name: "Fallback", Price: roblox.Price(30)},
		{ID: 3, Name: "Fallback unpriced"},
		userPass(4, "Wrong creator in detail"),
		{ID: 6, Name: "Listed elsewhere", Price: roblox.Price(10)},
		{ID: 7, Name: "Listed by self", Price: roblox.Price(12)},
		userPass(1, "Duplicate"),
	}
	listed[4].Creator.CreatorID = &other
	listed[5].Creator.CreatorID = &self

	up := newFakeUpstream()
	up.userPasses[""] = roblox.UserPassesPage{Passes: listed[:4], NextCursor: "4"}
	up.userPasses["4"] = roblox.UserPassesPage{Passes: listed[4:]}
	up.details[1] = detail(50, 5)
	up.detailErr[2] = &roblox.HTTPStatusError{StatusCode: 500}
	up.detailErr[3] = &roblox.HTTPStatusError{StatusCode: 500}
	up.details[4] = detail(50, 6)
	up.details[7] = roblox.PassDetail{}

	got, err := NewUserPassesSource(up, GamesOptions{}).Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []model.Gamepass{
		{ID: 1, Name: "Confirmed", Price: 50},
		{ID: 2, Name: "Fallback", Price: 30},
		{ID: 7, Name: "Listed by self", Price: 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("passes mismatch (-want +got):\n%s", diff)
	}
	if n := up.callCount(roblox.EndpointUserPasses); n != 2 {
		t.Errorf("listing requests = %d, want 2", n)
	}
}

func TestBuildSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		names       []string
		experiences bool
		want        []string
		wantErr     bool
	}{
		{
			name:        "default order with key",
			names:       []string{SourceCatalog, SourceExperiences, SourceGames, SourceUser},
			experiences: true,
			want:        []string{SourceCatalog, SourceExperiences, SourceGames, SourceUser},
		},
		{
			name:  "experiences skipped without key",
			names: []string{SourceCatalog, SourceExperiences, SourceGames, SourceUser},
			want:  []string{SourceCatalog, SourceGames, SourceUser},
		},
		{
			name:  "custom order",
			names: []string{SourceUser, SourceCatalog},
			want:  []string{SourceUser, SourceCatalog},
		},
		{name: "unknown source", names: []string{SourceCatalog, "scraper"}, wantErr: true},
		{name: "nothing left", names: []string{SourceExperiences}, wantErr: true},
		{name: "empty", names: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sources, err := BuildSources(tt.names, newFakeUpstream(), BuildOptions{
				ExperiencesEnabled: tt.experiences,
				Logger:             testutil.DiscardLogger(),
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildSources: %v", err)
			}

			got := make([]string, len(sources))
			for i, s := range sources {
				got[i] = s.Name()
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sources mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
