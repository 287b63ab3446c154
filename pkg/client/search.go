package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Item is one catalog entry of a search result. Fields missing upstream
// stay nil and serialize as null. Reviews holds the upstream review
// objects verbatim.
type Item struct {
	ID        *string           `json:"id"`
	Title     *string           `json:"title"`
	Price     *float64          `json:"price"`
	Image     *string           `json:"image"`
	Permalink *string           `json:"permalink"`
	Reviews   []json.RawMessage `json:"reviews"`
}

// catalogItem mirrors the fields of an upstream search result entry that
// feed into Item.
type catalogItem struct {
	ID              *string  `json:"id"`
	Title           *string  `json:"title"`
	Price           *float64 `json:"price"`
	Thumbnail       string   `json:"thumbnail"`
	SecureThumbnail string   `json:"secure_thumbnail"`
	ThumbnailID     string   `json:"thumbnail_id"`
	Permalink       *string  `json:"permalink"`
}

type searchResponse struct {
	Results []catalogItem `json:"results"`
}

// SearchItems queries the site catalog and maps the raw entries into
// Items without reviews. Upstream failures surface as errors: a non-2xx
// status as *CatalogError, a transport failure as a wrapped
// *TransportError.
func (c *Client) SearchItems(ctx context.Context, query string, limit int) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if limit < 1 || limit > c.config.MaxLimit {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidLimit, limit, c.config.MaxLimit)
	}

	searchURL := fmt.Sprintf("%s/sites/%s/search", c.config.BaseURL, c.config.SiteID)
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	start := time.Now()
	resp, err := c.doWithRetry(ctx, func() (*http.Response, error) {
		return c.send(ctx, http.MethodGet, searchURL, params, nil)
	})
	requestDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues("search", "transport_error").Inc()
		return nil, fmt.Errorf("catalog search %q: %w", query, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues("search", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, catalogError(resp)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("catalog search %q: decoding response: %w", query, err)
	}

	results := parsed.Results
	if len(results) > limit {
		results = results[:limit]
	}

	items := make([]Item, 0, len(results))
	for _, entry := range results {
		items = append(items, Item{
			ID:        entry.ID,
			Title:     entry.Title,
			Price:     entry.Price,
			Image:     selectImage(entry),
			Permalink: entry.Permalink,
			Reviews:   []json.RawMessage{},
		})
	}

	c.logger.Debug().
		Str("query", query).
		Int("limit", limit).
		Int("count", len(items)).
		Msg("Catalog search succeeded")

	return items, nil
}

// selectImage picks the item image from the candidate thumbnail fields,
// preferring the secure variant. Only absolute http(s) URLs qualify; bare
// thumbnail identifiers are not addressable and are skipped.
func selectImage(entry catalogItem) *string {
	for _, candidate := range []string{entry.SecureThumbnail, entry.Thumbnail, entry.ThumbnailID} {
		if candidate == "" {
			continue
		}
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		if (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			img := candidate
			return &img
		}
	}
	return nil
}

// catalogError builds the typed error for a failed catalog response. A 403
// almost always means the upstream rejected the caller's network, so the
// message names the remedy instead of echoing the body.
func catalogError(resp *http.Response) error {
	if resp.StatusCode == http.StatusForbidden {
		return &CatalogError{
			StatusCode: resp.StatusCode,
			Message:    "requests from this network are being blocked by the marketplace (datacenter IPs are commonly rejected); configure a forward proxy via ML_PROXY_URL",
		}
	}

	return &CatalogError{
		StatusCode: resp.StatusCode,
		Message:    bodyExcerpt(resp.Body),
	}
}

// bodyExcerpt reads a short prefix of a response body for error messages.
func bodyExcerpt(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 200))
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return "(no body)"
	}
	return strings.TrimSpace(string(data))
}
