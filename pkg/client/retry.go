package client

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, the initial request included.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential delay growth.
	MaxBackoff time.Duration

	// JitterMax is the upper bound of the uniform random delay added to
	// each backoff.
	JitterMax time.Duration
}

// DefaultRetryConfig returns the retry policy used against the marketplace API.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 600 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		JitterMax:      350 * time.Millisecond,
	}
}

// backoffDelay computes the sleep before the n-th retry (0-indexed):
// exponential doubling from InitialBackoff capped at MaxBackoff, plus
// uniform jitter so concurrent callers do not retry in lockstep.
func (rc RetryConfig) backoffDelay(retry int) time.Duration {
	delay := rc.InitialBackoff
	for i := 0; i < retry && delay < rc.MaxBackoff; i++ {
		delay *= 2
	}
	if delay > rc.MaxBackoff {
		delay = rc.MaxBackoff
	}
	if rc.JitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(rc.JitterMax)))
	}
	return delay
}

// doWithRetry executes one transport attempt with the configured retry
// policy. Retryable statuses (429, 500, 502, 503, 504) and transport
// failures are retried with backoff; any other outcome returns immediately.
// Once the attempts are used up, the last response is handed back when the
// final failure was an HTTP status, while a final transport failure
// propagates as an error.
func (c *Client) doWithRetry(ctx context.Context, attempt func() (*http.Response, error)) (*http.Response, error) {
	cfg := c.config.Retry

	for try := 1; ; try++ {
		resp, err := attempt()

		var reason string
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			}
			terr := newTransportError(err)
			if try >= cfg.MaxAttempts {
				retryExhaustedTotal.WithLabelValues(string(terr.Kind)).Inc()
				c.logger.Warn().
					Err(terr).
					Int("attempt", try).
					Msg("Transport failure after final attempt")
				return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, try, terr)
			}
			reason = string(terr.Kind)

		case retryableStatus(resp.StatusCode):
			if try >= cfg.MaxAttempts {
				// The caller interprets the persistent failure status.
				retryExhaustedTotal.WithLabelValues(statusRetryReason(resp.StatusCode)).Inc()
				c.logger.Warn().
					Int("status_code", resp.StatusCode).
					Int("attempt", try).
					Msg("Retryable status after final attempt")
				return resp, nil
			}
			reason = statusRetryReason(resp.StatusCode)
			resp.Body.Close()

		default:
			if try > 1 {
				c.logger.Info().
					Int("status_code", resp.StatusCode).
					Int("attempt", try).
					Msg("Request succeeded after retry")
			}
			return resp, nil
		}

		delay := cfg.backoffDelay(try - 1)
		retriesTotal.WithLabelValues(reason).Inc()
		retryBackoffSeconds.WithLabelValues(reason).Observe(delay.Seconds())

		c.logger.Warn().
			Str("reason", reason).
			Int("attempt", try).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(delay):
		}
	}
}
