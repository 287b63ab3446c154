// Package client implements the resilient marketplace fetch core: a
// retrying HTTP transport, the catalog fetcher, a review fetcher that
// degrades to warnings instead of failing, and the bounded fan-out that
// attaches reviews to search results.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the marketplace API root.
	BaseURL string

	// SiteID selects the marketplace country site (for example "MLB").
	SiteID string

	// AccessToken, when set, is sent as a bearer token on outbound calls.
	AccessToken string

	// ProxyURL, when set, routes all outbound calls through a forward proxy.
	ProxyURL string

	// MaxLimit bounds the limit accepted by SearchItems.
	MaxLimit int

	// Timeout is the per-attempt HTTP timeout.
	Timeout time.Duration

	// Retry is the retry policy for outbound calls.
	Retry RetryConfig

	// ReviewsConcurrency caps simultaneous review fetches per search.
	ReviewsConcurrency int

	// ReviewsRateLimit caps outbound review calls per second across one
	// search. Zero disables the limiter.
	ReviewsRateLimit float64
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:            "https://api.mercadolibre.com",
		SiteID:             "MLB",
		MaxLimit:           50,
		Timeout:            12 * time.Second,
		Retry:              DefaultRetryConfig(),
		ReviewsConcurrency: 8,
	}
}

// Client is the marketplace search and review client.
type Client struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// New creates a new marketplace client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if cfg.SiteID == "" {
		return nil, fmt.Errorf("site id is required")
	}

	if cfg.MaxLimit <= 0 {
		return nil, fmt.Errorf("max limit must be positive (got %d)", cfg.MaxLimit)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %v)", cfg.Timeout)
	}

	if cfg.Retry.MaxAttempts <= 0 {
		return nil, fmt.Errorf("retry max attempts must be positive (got %d)", cfg.Retry.MaxAttempts)
	}

	if cfg.ReviewsConcurrency <= 0 {
		return nil, fmt.Errorf("reviews concurrency must be positive (got %d)", cfg.ReviewsConcurrency)
	}

	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.ReviewsRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ReviewsRateLimit), 1)
	}

	logger := log.With().Str("component", "ml-client").Logger()

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// SearchResult is the full payload assembled for one search request.
// Items and Warnings are always present, empty rather than null.
type SearchResult struct {
	Query    string   `json:"query"`
	Limit    int      `json:"limit"`
	Count    int      `json:"count"`
	Items    []Item   `json:"items"`
	Warnings []string `json:"warnings"`
}

// Search runs the catalog query followed by review enrichment. Upstream
// failures never surface as errors: a failed catalog call degrades to an
// empty result carrying the failure message as a warning, and review
// failures become per-item warnings. The returned error reports invalid
// input only.
func (c *Client) Search(ctx context.Context, query string, limit int) (SearchResult, error) {
	start := time.Now()

	items, err := c.SearchItems(ctx, query, limit)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidLimit) {
			return SearchResult{}, err
		}

		c.logger.Error().
			Err(err).
			Str("query", query).
			Msg("Catalog search failed")

		return SearchResult{
			Query:    query,
			Limit:    limit,
			Count:    0,
			Items:    []Item{},
			Warnings: []string{err.Error()},
		}, nil
	}

	items, warnings := c.AttachReviews(ctx, items)

	c.logger.Info().
		Str("query", query).
		Int("limit", limit).
		Int("count", len(items)).
		Int("warnings", len(warnings)).
		Dur("duration", time.Since(start)).
		Msg("Search completed")

	return SearchResult{
		Query:    query,
		Limit:    limit,
		Count:    len(items),
		Items:    items,
		Warnings: warnings,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}
