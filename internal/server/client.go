package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/finboard/internal/cache"
)

// defaultClientTimeout bounds admin calls against a running server.
const defaultClientTimeout = 10 * time.Second

// Client calls the cache administration endpoints of a running server.
type Client struct {
	HTTPClient *http.Client
	baseURL    *url.URL
}

// NewClient returns a Client for the server at baseURL. A bare host:port is
// treated as http.
func NewClient(baseURL string) (*Client, error) {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server URL %q has no host", baseURL)
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: defaultClientTimeout},
		baseURL:    u,
	}, nil
}

// Stats fetches store and gate counters.
func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var out StatsResponse
	if err := c.do(ctx, http.MethodGet, "/cache/stats", nil, &out); err != nil {
		return StatsResponse{}, err
	}
	return out, nil
}

// Info fetches age and expiry of one key.
func (c *Client) Info(ctx context.Context, key string) (cache.InfoView, error) {
	var out cache.InfoView
	if err := c.do(ctx, http.MethodGet, "/cache/info/"+url.PathEscape(key), nil, &out); err != nil {
		return cache.InfoView{}, err
	}
	return out, nil
}

// Invalidate removes every key matching pattern.
func (c *Client) Invalidate(ctx context.Context, pattern string) (int, error) {
	var out CountResponse
	if err := c.do(ctx, http.MethodPost, "/cache/invalidate", InvalidateRequest{Pattern: pattern}, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

// Delete removes one key.
func (c *Client) Delete(ctx context.Context, key string) (int, error) {
	var out CountResponse
	if err := c.do(ctx, http.MethodDelete, "/cache/keys/"+url.PathEscape(key), nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

// Clear removes every entry.
func (c *Client) Clear(ctx context.Context) (int, error) {
	var out CountResponse
	if err := c.do(ctx, http.MethodDelete, "/cache", nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

// Sweep removes expired entries.
func (c *Client) Sweep(ctx context.Context) (int, error) {
	var out CountResponse
	if err := c.do(ctx, http.MethodPost, "/cache/sweep", nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
