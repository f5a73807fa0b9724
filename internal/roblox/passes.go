package roblox

import (
	"context"
	"net/url"
	"strconv"
)

const userPassesPageSize = 100

// PassDetail is the product-info record of a single pass.
//
// The price has been observed as both PriceInRobux and price, and the
// creator as both Creator.Id and Creator.CreatorTargetId.
type PassDetail struct {
	Name         string `json:"Name"`
	PriceInRobux Robux  `json:"PriceInRobux"`
	PriceAlt     Robux  `json:"price"`
	IsForSale    bool   `json:"IsForSale"`
	Creator      struct {
		ID              *uint64 `json:"Id"`
		CreatorTargetID *uint64 `json:"CreatorTargetId"`
	} `json:"Creator"`
}

// Price returns the authoritative price, preferring PriceInRobux.
func (d PassDetail) Price() Robux {
	if d.PriceInRobux.Valid {
		return d.PriceInRobux
	}
	return d.PriceAlt
}

// CreatorID returns the creator id if the record reports one.
func (d PassDetail) CreatorID() (uint64, bool) {
	if d.Creator.ID != nil && *d.Creator.ID != 0 {
		return *d.Creator.ID, true
	}
	if d.Creator.CreatorTargetID != nil && *d.Creator.CreatorTargetID != 0 {
		return *d.Creator.CreatorTargetID, true
	}
	return 0, false
}

// GetPassDetail fetches the product-info record for a pass.
func (c *Client) GetPassDetail(ctx context.Context, passID uint64) (PassDetail, error) {
	u, err := buildURL(c.apisBase, "/game-passes/v1/game-passes/"+strconv.FormatUint(passID, 10)+"/product-info", nil)
	if err != nil {
		return PassDetail{}, err
	}

	resp, err := getJSON[PassDetail](ctx, c, EndpointPassDetail, u, nil)
	if err != nil {
		return PassDetail{}, err
	}
	return *resp, nil
}

// UserPass is an entry of the direct user game-passes listing.
type UserPass struct {
	ID      uint64 `json:"gamePassId"`
	Name    string `json:"name"`
	Price   Robux  `json:"price"`
	Creator struct {
		CreatorID *uint64 `json:"creatorId"`
	} `json:"creator"`
}

// UserPassesPage is one page of the direct listing. NextCursor is the
// exclusive start id of the following page, empty on the last page.
type UserPassesPage struct {
	Passes     []UserPass
	NextCursor string
}

type userPassesResponse struct {
	GamePasses []UserPass `json:"gamePasses"`
}

// ListUserGamePasses returns one page of passes for a user. The listing
// is keyed by exclusiveStartId; a full page implies more may follow.
func (c *Client) ListUserGamePasses(ctx context.Context, userID uint64, cursor string) (UserPassesPage, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(userPassesPageSize))
	if cursor != "" {
		q.Set("exclusiveStartId", cursor)
	}

	u, err := buildURL(c.apisBase, "/game-passes/v1/users/"+strconv.FormatUint(userID, 10)+"/game-passes", q)
	if err != nil {
		return UserPassesPage{}, err
	}

	resp, err := getJSON[userPassesResponse](ctx, c, EndpointUserPasses, u, nil)
	if err != nil {
		return UserPassesPage{}, err
	}

	page := UserPassesPage{Passes: resp.GamePasses}
	if n := len(resp.GamePasses); n >= userPassesPageSize {
		page.NextCursor = strconv.FormatUint(resp.GamePasses[n-1].ID, 10)
	}
	return page, nil
}
