package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrEmptyQuery is returned when the search query is empty or blank.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidLimit is returned when the limit is not positive or exceeds
	// the configured maximum.
	ErrInvalidLimit = errors.New("limit out of range")

	// ErrRetryExhausted wraps the final transport error when every attempt
	// failed at the connection level.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context ends during an
	// attempt or its backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// TransportKind classifies a connection-level failure.
type TransportKind string

const (
	// TransportTimeout marks attempts that exceeded the per-call timeout.
	TransportTimeout TransportKind = "timeout"

	// TransportNetwork marks other connection-level failures such as DNS
	// errors, refused connections and resets.
	TransportNetwork TransportKind = "network"
)

// TransportError wraps a connection-level failure with its classification.
type TransportError struct {
	Kind TransportKind
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s error: %v", e.Kind, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// CatalogError reports a failed catalog search after retries.
type CatalogError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog search failed (status %d): %s", e.StatusCode, e.Message)
}

// newTransportError classifies and wraps a connection-level failure.
func newTransportError(err error) *TransportError {
	return &TransportError{Kind: classifyTransport(err), Err: err}
}

// classifyTransport assigns a TransportKind to a connection-level error.
func classifyTransport(err error) TransportKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TransportTimeout
	}
	return TransportNetwork
}

// retryableStatus reports whether a status code is worth another attempt.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// statusRetryReason names the retry trigger for a retryable status code.
func statusRetryReason(code int) string {
	if code == http.StatusTooManyRequests {
		return "rate_limit"
	}
	return "server"
}
