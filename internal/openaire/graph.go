// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openaire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// graphBase is the OpenAIRE graph API endpoint for projects. Declared as a
// var so tests can substitute an httptest server.
var graphBase = "https://api.openaire.eu/graph/v1/projects"

const (
	defaultGraphPageSize = 100
	defaultCountryCode   = "EE"
	graphBadLimit        = 10
)

// GraphClient pages through the graph API's funded-project listing for one
// country.
type GraphClient struct {
	Client *http.Client
	Config types.OpenAIREConfig
}

// Projects pulls every Horizon Europe project with a participating
// organization in the configured country. The candidates feed the title
// matcher, so only code, acronym, and title are kept.
func (c *GraphClient) Projects(ctx context.Context, progress io.Writer) ([]types.GraphCandidate, error) {
	pageSize := c.Config.PageSize
	if pageSize <= 0 {
		pageSize = defaultGraphPageSize
	}
	country := c.Config.CountryCode
	if country == "" {
		country = defaultCountryCode
	}
	badLimit := c.Config.BadResponseLimit
	if badLimit <= 0 {
		badLimit = graphBadLimit
	}

	var candidates []types.GraphCandidate
	badResponses := 0
	for page := 1; ; page++ {
		params := url.Values{
			"relOrganizationCountryCode": {country},
			"pageSize":                   {strconv.Itoa(pageSize)},
			"page":                       {strconv.Itoa(page)},
		}

		gr, err := c.getPage(ctx, params)
		if err != nil {
			badResponses++
			if badResponses >= badLimit {
				return nil, fmt.Errorf("aborting after %d failed responses: %w", badResponses, err)
			}
			fmt.Fprintf(progress, "bad response (%d so far): %v\n", badResponses, err)
			page--
			continue
		}

		for _, r := range gr.Results {
			if r.Code == "" {
				continue
			}
			candidates = append(candidates, types.GraphCandidate{
				Code:    r.Code,
				Acronym: r.Acronym,
				Title:   r.Title,
			})
		}

		fmt.Fprintf(progress, "graph page %d: %d candidates so far (of %d)\n",
			page, len(candidates), gr.Header.NumFound)
		if len(gr.Results) < pageSize {
			break
		}
	}
	return candidates, nil
}

func (c *GraphClient) getPage(ctx context.Context, params url.Values) (*graphResponse, error) {
	reqURL := graphBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph API returned HTTP %d", resp.StatusCode)
	}

	var gr graphResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing graph response: %w", err)
	}
	return &gr, nil
}

// Graph API JSON structures.
type graphResponse struct {
	Header struct {
		NumFound int `json:"numFound"`
		PageSize int `json:"pageSize"`
	} `json:"header"`
	Results []graphProject `json:"results"`
}

type graphProject struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Acronym string `json:"acronym"`
	Title   string `json:"title"`
}
