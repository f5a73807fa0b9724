package roblox

import (
	"context"
	"net/url"
	"strconv"
)

const (
	userGamesPageSize  = 50
	gamePassesPageSize = 100
)

// Game is a universe owned by a user.
type Game struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// GamesPage is one page of a user's games.
type GamesPage struct {
	Games      []Game
	NextCursor string
}

type gamesResponse struct {
	Data           []Game  `json:"data"`
	NextPageCursor *string `json:"nextPageCursor"`
}

// ListUserGames returns one page of the user's public games. An empty
// cursor requests the first page.
func (c *Client) ListUserGames(ctx context.Context, userID uint64, cursor string) (GamesPage, error) {
	q := url.Values{}
	q.Set("accessFilter", "Public")
	q.Set("sortOrder", "Asc")
	q.Set("limit", strconv.Itoa(userGamesPageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	u, err := buildURL(c.gamesBase, "/v2/users/"+strconv.FormatUint(userID, 10)+"/games", q)
	if err != nil {
		return GamesPage{}, err
	}

	resp, err := getJSON[gamesResponse](ctx, c, EndpointUserGames, u, nil)
	if err != nil {
		return GamesPage{}, err
	}
	return GamesPage{Games: resp.Data, NextCursor: deref(resp.NextPageCursor)}, nil
}

// GamePass is a pass attached to a game, as listed by the games API.
type GamePass struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Price       Robux  `json:"price"`
}

// Title returns the best available display name.
func (p GamePass) Title() string {
	if p.Name != "" {
		return p.Name
	}
	return p.DisplayName
}

// GamePassesPage is one page of a game's passes.
type GamePassesPage struct {
	Passes     []GamePass
	NextCursor string
}

type gamePassesResponse struct {
	Data           []GamePass `json:"data"`
	NextPageCursor *string    `json:"nextPageCursor"`
}

// ListGamePasses returns one page of passes for a universe.
func (c *Client) ListGamePasses(ctx context.Context, universeID uint64, cursor string) (GamePassesPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(gamePassesPageSize))
	q.Set("sortOrder", "Asc")
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	u, err := buildURL(c.gamesBase, "/v1/games/"+strconv.FormatUint(universeID, 10)+"/game-passes", q)
	if err != nil {
		return GamePassesPage{}, err
	}

	resp, err := getJSON[gamePassesResponse](ctx, c, EndpointGamePasses, u, nil)
	if err != nil {
		return GamePassesPage{}, err
	}
	return GamePassesPage{Passes: resp.Data, NextCursor: deref(resp.NextPageCursor)}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
