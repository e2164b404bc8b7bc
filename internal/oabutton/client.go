// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oabutton queries the Open Access Button find API for a free
// copy of a publication by DOI.
package oabutton

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/horizon-oa/internal/httputil"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

// findBase is the Open Access Button find endpoint. Declared as a var so
// tests can substitute an httptest server.
var findBase = "https://api.openaccessbutton.org/find"

const defaultRequestDelay = time.Second

// Client looks up open-access copies by DOI. The service asks for at most
// one request per second from anonymous clients, so consecutive Find calls
// are spaced by the configured delay.
type Client struct {
	Client *http.Client
	Config types.OAButtonConfig

	lastRequest time.Time
}

// Find looks up one DOI. found is false when the service knows no free
// copy; that is a routine outcome, not an error.
func (c *Client) Find(ctx context.Context, doi string) (foundURL string, found bool, err error) {
	if doi == "" {
		return "", false, fmt.Errorf("empty DOI")
	}

	if err := c.pace(ctx); err != nil {
		return "", false, err
	}

	params := url.Values{"id": {doi}}
	reqURL := findBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}
	if c.Config.APIKey != "" {
		req.Header.Set("x-apikey", c.Config.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return "", false, fmt.Errorf("find API request: %w", err)
	}
	defer resp.Body.Close()

	// The service answers 404 for DOIs it has never seen.
	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("find API returned HTTP %d", resp.StatusCode)
	}

	var fr findResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return "", false, fmt.Errorf("parsing find response: %w", err)
	}

	if fr.URL == "" {
		return "", false, nil
	}
	return fr.URL, true, nil
}

// pace sleeps out the remainder of the request delay since the last call.
func (c *Client) pace(ctx context.Context) error {
	delay := c.Config.RequestDelay
	if delay <= 0 {
		delay = defaultRequestDelay
	}

	if wait := delay - time.Since(c.lastRequest); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// Find API JSON structure. Only the resolved URL matters; the metadata
// block is ignored.
type findResponse struct {
	URL string `json:"url"`
}
