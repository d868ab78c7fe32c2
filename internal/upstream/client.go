package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// apiPrefix is prepended to every resource path.
	apiPrefix = "/api/v1"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 60 * time.Second

	// DefaultHealthTimeout bounds the health probe.
	DefaultHealthTimeout = 5 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Client talks to the trading API.
type Client struct {
	// HTTPClient is used for all requests. Tests replace it.
	HTTPClient *http.Client

	baseURL       *url.URL
	healthTimeout time.Duration
	logger        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithHealthTimeout sets the health probe timeout.
func WithHealthTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient returns a client for the API rooted at baseURL. timeout bounds
// each call; zero means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", ErrInvalidArgument, baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		HTTPClient:    &http.Client{Timeout: timeout},
		baseURL:       u,
		healthTimeout: DefaultHealthTimeout,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Health probes the root-level health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	start := time.Now()
	var h Health
	if err := c.doURL(ctx, http.MethodGet, c.baseURL.JoinPath("/health"), "/health", nil, &h); err != nil {
		return Health{}, err
	}
	h.Latency = time.Since(start)
	return h, nil
}

// get issues a GET against an /api/v1 path.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(apiPrefix, path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return c.doURL(ctx, method, u, path, body, out)
}

func (c *Client) doURL(ctx context.Context, method string, u *url.URL, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("api network error")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, decodeErr)
	}
	return nil
}

// segment escapes a caller-supplied path segment.
func segment(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: empty path segment", ErrInvalidArgument)
	}
	return url.PathEscape(s), nil
}

func checkPortfolioKind(kind string) error {
	if kind != PortfolioStocks && kind != PortfolioCrypto {
		return fmt.Errorf("%w: portfolio kind must be %q or %q, got %q",
			ErrInvalidArgument, PortfolioStocks, PortfolioCrypto, kind)
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
