// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openaire talks to the two OpenAIRE project APIs: the legacy
// search API for per-field candidate lookups and the graph API for the
// full funded-project listing of one country.
package openaire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/pdiddy/horizon-oa/internal/httputil"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

// searchBase is the OpenAIRE legacy search API endpoint for projects.
// Declared as a var so tests can substitute an httptest server.
var searchBase = "https://api.openaire.eu/search/projects"

const defaultRequestsPerSecond = 2

// SearchClient queries the search API for project codes by grant number,
// acronym, or title. Requests are rate limited locally and the service's
// own rate-limit headers are checked after every response.
type SearchClient struct {
	Client  *http.Client
	Config  types.OpenAIREConfig
	limiter *rate.Limiter

	// Token is an optional bearer token raising the rate-limit quota.
	Token string
}

// NewSearchClient builds a SearchClient with the configured local rate limit.
func NewSearchClient(client *http.Client, cfg types.OpenAIREConfig, token string) *SearchClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	return &SearchClient{
		Client:  client,
		Config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		Token:   token,
	}
}

// LookupProject queries all three fields for one project and returns the
// per-field candidate lists. Empty fields are skipped and come back with a
// nil Result.
func (c *SearchClient) LookupProject(ctx context.Context, p types.Project) (types.CandidateLookup, error) {
	lookup := types.CandidateLookup{ProjectGUID: p.GUID}

	fields := []struct {
		param string
		value string
		out   *types.FieldLookup
	}{
		{"grantID", p.GrantNumber, &lookup.GrantNumber},
		{"acronym", p.Acronym, &lookup.Acronym},
		{"name", p.Title, &lookup.Title},
	}
	for _, f := range fields {
		f.out.Input = f.value
		if f.value == "" {
			continue
		}
		codes, err := c.searchField(ctx, f.param, f.value)
		if err != nil {
			return lookup, fmt.Errorf("lookup %s for project %s: %w", f.param, p.GUID, err)
		}
		f.out.Result = codes
	}
	return lookup, nil
}

// searchField runs one field query and returns the matching project codes.
func (c *SearchClient) searchField(ctx context.Context, param, value string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		param:    {value},
		"format": {"json"},
	}
	reqURL := searchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}
	if err := checkRateHeaders(resp.Header); err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	var codes []string
	for _, result := range sr.Response.Results.Result {
		code := result.Metadata.Entity.Project.Code.Value
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// checkRateHeaders fails fast when the service reports the request quota is
// spent, instead of burning the remaining budget on 403s.
func checkRateHeaders(h http.Header) error {
	used, errUsed := strconv.Atoi(h.Get("x-ratelimit-used"))
	limit, errLimit := strconv.Atoi(h.Get("x-ratelimit-limit"))
	if errUsed != nil || errLimit != nil {
		return nil
	}
	if used >= limit {
		return fmt.Errorf("rate limit exhausted (%d/%d requests used)", used, limit)
	}
	return nil
}

// Search API JSON structures. The legacy API wraps everything in an
// "oaf:entity" envelope.
type searchResponse struct {
	Response struct {
		Results struct {
			Result []searchResult `json:"result"`
		} `json:"results"`
	} `json:"response"`
}

type searchResult struct {
	Metadata struct {
		Entity struct {
			Project struct {
				Code jsonValue `json:"code"`
			} `json:"oaf:project"`
		} `json:"oaf:entity"`
	} `json:"metadata"`
}

// jsonValue is the search API's {"$": "..."} value wrapper.
type jsonValue struct {
	Value string `json:"$"`
}
