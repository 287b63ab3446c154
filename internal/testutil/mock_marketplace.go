// Package testutil provides testing utilities for the marketplace client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock marketplace endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockMarketplace is a configurable mock marketplace API server for testing.
type MockMarketplace struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requests          map[string]int
	total             int
	LastRequestHeader http.Header
}

// NewMockMarketplace creates a new mock marketplace server.
func NewMockMarketplace() *MockMarketplace {
	mock := &MockMarketplace{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requests: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests[r.URL.Path]++
		mock.total++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default handler
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockMarketplace) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockMarketplace) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockMarketplace) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int)
	m.total = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockMarketplace) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockMarketplace) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeMockResponse(w, resp)
	})
}

// SetResponseSequence configures consecutive responses for a path. Each
// request consumes the next response; the last one repeats once the
// sequence is used up.
func (m *MockMarketplace) SetResponseSequence(path string, resps ...MockResponse) {
	var seqMu sync.Mutex
	calls := 0

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		seqMu.Lock()
		idx := calls
		calls++
		seqMu.Unlock()

		if idx >= len(resps) {
			idx = len(resps) - 1
		}
		writeMockResponse(w, resps[idx])
	})
}

// RequestCount returns the number of requests made to a specific path.
func (m *MockMarketplace) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[path]
}

// TotalRequests returns the number of requests made to the server.
func (m *MockMarketplace) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// writeMockResponse renders a MockResponse onto a ResponseWriter.
func writeMockResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// defaultHandler mimics the marketplace API response for unknown resources.
func (m *MockMarketplace) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"message":"resource not found","error":"not_found","status":404}`))
}

// SearchPath returns the catalog search path for a site.
func SearchPath(siteID string) string {
	return fmt.Sprintf("/sites/%s/search", siteID)
}

// ReviewsPath returns the reviews path for an item.
func ReviewsPath(itemID string) string {
	return fmt.Sprintf("/reviews/item/%s", itemID)
}

// NewSearchResponse creates a catalog response containing one fully
// populated result entry per item ID.
func NewSearchResponse(ids ...string) MockResponse {
	entries := make([]string, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, fmt.Sprintf(
			`{"id":%q,"title":"Item %s","price":%d.5,`+
				`"thumbnail":"http://http2.mlstatic.com/D_%s-I.jpg",`+
				`"secure_thumbnail":"https://http2.mlstatic.com/D_%s-I.jpg",`+
				`"thumbnail_id":"%s-TID",`+
				`"permalink":"https://produto.mercadolivre.com.br/%s"}`,
			id, id, 100+i, id, id, id, strings.ToLower(id)))
	}

	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"results":[%s]}`, strings.Join(entries, ",")),
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewReviewsResponse creates a reviews response from raw review objects.
func NewReviewsResponse(reviews ...string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body: fmt.Sprintf(`{"paging":{"total":%d},"reviews":[%s]}`,
			len(reviews), strings.Join(reviews, ",")),
		Headers: map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewErrorResponse creates an error response in the marketplace format.
func NewErrorResponse(status int, message string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"message":%q,"status":%d}`, message, status),
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}
