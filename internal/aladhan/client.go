// Package aladhan is a client for the Al Adhan prayer times API, the primary
// timing source. Requests carry a hard deadline; any failure here is absorbed
// by the caller's fallback chain, never retried.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// DefaultTimeout bounds every request. A slow primary is treated the same
// as a failed one so the local fallback can take over promptly.
const DefaultTimeout = 4 * time.Second

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates an API client with the default request deadline.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		BaseURL:    defaultBaseURL,
	}
}

// SetTimeout overrides the request deadline; tests shrink it to force the
// timeout path.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// TimingsAt fetches prayer times for the day containing the given Unix
// timestamp at the given coordinates. method and school select the
// calculation convention; pass -1 to let the API choose.
func (c *Client) TimingsAt(ctx context.Context, unix int64, lat, lon float64, method, school int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%d", c.BaseURL, unix)

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	if school >= 0 {
		params.Set("school", fmt.Sprintf("%d", school))
	}

	return c.doRequest(ctx, endpoint, params)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build API request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	return &apiResp, nil
}
