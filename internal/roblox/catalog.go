package roblox

import (
	"context"
	"net/url"
	"strconv"
)

// AssetTypePass is the catalog asset-type code for game passes.
const AssetTypePass = 46

// catalogPageSize matches the page size the catalog accepts for this query.
const catalogPageSize = 28

// CatalogItem is one entry of a catalog search.
type CatalogItem struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Price     Robux  `json:"price"`
	AssetType *int   `json:"assetType"`
}

// IsPass reports whether the item is classified as a game pass.
func (i CatalogItem) IsPass() bool {
	return i.AssetType != nil && *i.AssetType == AssetTypePass
}

type catalogResponse struct {
	Data []CatalogItem `json:"data"`
}

// SearchCatalog lists catalog items created by the given user, including
// items not currently for sale.
func (c *Client) SearchCatalog(ctx context.Context, creatorID uint64) ([]CatalogItem, error) {
	q := url.Values{}
	q.Set("creatorTargetId", strconv.FormatUint(creatorID, 10))
	q.Set("creatorType", "User")
	q.Set("itemType", "Asset")
	q.Set("includeNotForSale", "true")
	q.Set("sortType", "Updated")
	q.Set("limit", strconv.Itoa(catalogPageSize))

	u, err := buildURL(c.catalogBase, "/v1/search/items/details", q)
	if err != nil {
		return nil, err
	}

	resp, err := getJSON[catalogResponse](ctx, c, EndpointCatalog, u, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
