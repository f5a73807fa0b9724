package roblox

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const experiencesPageSize = 50

// ExperiencesPage is one page of universes from the privileged listing.
type ExperiencesPage struct {
	UniverseIDs []uint64
	NextCursor  string
}

type experiencesResponse struct {
	Experiences []struct {
		UniverseID uint64 `json:"universeId"`
	} `json:"experiences"`
	NextPageToken string `json:"nextPageToken"`
}

// ListExperiences lists a user's experiences through the API-key
// authenticated endpoint. Returns ErrNoAPIKey when no key is configured.
func (c *Client) ListExperiences(ctx context.Context, userID uint64, pageToken string) (ExperiencesPage, error) {
	if !c.HasAPIKey() {
		return ExperiencesPage{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("maxPageSize", strconv.Itoa(experiencesPageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	u, err := buildURL(c.apisBase, "/cloud/v2/users/"+strconv.FormatUint(userID, 10)+"/experiences", q)
	if err != nil {
		return ExperiencesPage{}, err
	}

	header := http.Header{}
	header.Set("x-api-key", c.apiKey)

	resp, err := getJSON[experiencesResponse](ctx, c, EndpointExperiences, u, header)
	if err != nil {
		return ExperiencesPage{}, err
	}

	page := ExperiencesPage{NextCursor: resp.NextPageToken}
	for _, e := range resp.Experiences {
		if e.UniverseID != 0 {
			page.UniverseIDs = append(page.UniverseIDs, e.UniverseID)
		}
	}
	return page, nil
}
