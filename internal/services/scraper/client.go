package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/hammywammy/oslira-workers/internal/common"
	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/batch"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// DefaultMaxBodySize caps response bodies at 2MB.
	DefaultMaxBodySize = 2 * 1024 * 1024
)

// Client fetches public profile pages from the scraping vendor. All requests
// pass through a shared rate limiter so concurrent batch groups stay under
// the vendor's request ceiling.
type Client struct {
	baseURL     string
	userAgent   string
	maxBodySize int
	httpClient  *http.Client
	logger      arbor.ILogger
	limiter     *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets the request rate limit in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) ClientOption {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// NewClient creates a profile scraping client.
func NewClient(logger arbor.ILogger, opts ...ClientOption) *Client {
	c := &Client{
		userAgent:   "oslira-workers/1.0",
		maxBodySize: DefaultMaxBodySize,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from application configuration.
func NewClientFromConfig(config *common.ScraperConfig, logger arbor.ILogger) *Client {
	opts := []ClientOption{
		WithBaseURL(config.BaseURL),
		WithRateLimit(config.RateLimit),
	}
	if config.UserAgent != "" {
		opts = append(opts, WithUserAgent(config.UserAgent))
	}
	timeout := common.ParseDuration(config.RequestTimeout, DefaultTimeout)
	opts = append(opts, WithHTTPClient(&http.Client{Timeout: timeout}))

	c := NewClient(logger, opts...)
	if config.MaxBodySize > 0 {
		c.maxBodySize = config.MaxBodySize
	}
	return c
}

// FetchProfile retrieves and parses one public profile page. Errors carry
// batch error kinds: missing profiles are terminal, vendor hiccups are
// transient.
func (c *Client) FetchProfile(ctx context.Context, platform, handle string) (*models.ProfileSnapshot, error) {
	if handle == "" {
		return nil, batch.NewError(batch.KindValidation, "profile handle is required")
	}
	if c.baseURL == "" {
		return nil, batch.NewError(batch.KindValidation, "scraper base URL is not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, batch.WrapError(batch.KindTransient, err, "rate limiter wait interrupted")
	}

	profileURL := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(platform), url.PathEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, batch.WrapError(batch.KindValidation, err, "invalid profile request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, batch.WrapError(batch.KindTransient, err, "profile fetch failed")
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("platform", platform).
		Str("handle", handle).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Profile page fetched")

	if err := classifyStatus(resp.StatusCode, handle); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.maxBodySize)))
	if err != nil {
		return nil, batch.WrapError(batch.KindTransient, err, "failed to read profile response")
	}

	snapshot, err := ParseProfileHTML(body, platform, handle)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// classifyStatus maps HTTP status codes to batch error kinds once, at the
// vendor boundary.
func classifyStatus(status int, handle string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return batch.NewError(batch.KindNotFound, "profile %q does not exist", handle)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return batch.NewError(batch.KindUnauthorized, "vendor rejected credentials (status %d)", status)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return batch.NewError(batch.KindValidation, "vendor rejected request for %q (status %d)", handle, status)
	case status == http.StatusTooManyRequests:
		return batch.NewError(batch.KindTransient, "vendor rate limit hit (status %d)", status)
	default:
		return batch.NewError(batch.KindTransient, "vendor returned status %d", status)
	}
}
