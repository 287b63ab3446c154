package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// reviewsPayload captures the reviews field of the upstream response
// without decoding the individual review objects.
type reviewsPayload struct {
	Reviews json.RawMessage `json:"reviews"`
}

// FetchReviews fetches the reviews for one item. It never returns an
// error: any failure degrades to an empty slice plus a warning string,
// and an empty warning means the fetch was clean. A 404 is the normal
// no-reviews state and produces neither reviews nor a warning.
func (c *Client) FetchReviews(ctx context.Context, itemID string) ([]json.RawMessage, string) {
	reviewsURL := fmt.Sprintf("%s/reviews/item/%s", c.config.BaseURL, url.PathEscape(itemID))

	start := time.Now()
	resp, err := c.doWithRetry(ctx, func() (*http.Response, error) {
		return c.send(ctx, http.MethodGet, reviewsURL, nil, nil)
	})
	requestDuration.WithLabelValues("reviews").Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues("reviews", "transport_error").Inc()

		if errors.Is(err, ErrContextCancelled) {
			reviewWarningsTotal.WithLabelValues("cancelled").Inc()
			return []json.RawMessage{}, fmt.Sprintf("reviews for item %s: cancelled", itemID)
		}

		reviewWarningsTotal.WithLabelValues("network_error").Inc()
		c.logger.Warn().
			Err(err).
			Str("item_id", itemID).
			Msg("Review fetch failed in transport")

		return []json.RawMessage{}, fmt.Sprintf("reviews for item %s: network_error: %v", itemID, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues("reviews", strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		reviewWarningsTotal.WithLabelValues("forbidden_or_unauthorized").Inc()
		return []json.RawMessage{}, fmt.Sprintf("reviews for item %s: forbidden_or_unauthorized", itemID)

	case resp.StatusCode == http.StatusNotFound:
		// Absence of reviews is a normal empty state.
		return []json.RawMessage{}, ""

	case resp.StatusCode == http.StatusTooManyRequests:
		reviewWarningsTotal.WithLabelValues("rate_limited").Inc()
		return []json.RawMessage{}, fmt.Sprintf("reviews for item %s: rate_limited", itemID)

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		reviewWarningsTotal.WithLabelValues("http_error").Inc()
		return []json.RawMessage{}, fmt.Sprintf("reviews for item %s: erro %d", itemID, resp.StatusCode)
	}

	var payload reviewsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Debug().
			Err(err).
			Str("item_id", itemID).
			Msg("Review payload is not valid JSON")

		return []json.RawMessage{}, ""
	}

	var reviews []json.RawMessage
	if err := json.Unmarshal(payload.Reviews, &reviews); err != nil || reviews == nil {
		// The reviews field is missing or not an array; treat as empty.
		return []json.RawMessage{}, ""
	}

	return reviews, ""
}
