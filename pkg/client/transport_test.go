package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Milesbeckerle/mercado-livre-api/internal/testutil"
)

func TestSend_DefaultHeaders(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	resp, err := client.send(context.Background(), http.MethodGet, mock.URL()+"/ping", nil, nil)
	if err != nil {
		t.Fatalf("send() failed: %v", err)
	}
	resp.Body.Close()

	expected := map[string]string{
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
		"Referer":         "https://www.mercadolivre.com.br/",
		"Origin":          "https://www.mercadolivre.com.br",
	}
	for key, want := range expected {
		if got := mock.LastRequestHeader.Get(key); got != want {
			t.Errorf("Header %s = %q, want %q", key, got, want)
		}
	}

	if got := mock.LastRequestHeader.Get("User-Agent"); got == "" || got == "Go-http-client/1.1" {
		t.Errorf("User-Agent = %q, want a browser user agent", got)
	}
}

func TestSend_BearerToken(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.AccessToken = "test-token-123"
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	resp, err := client.send(context.Background(), http.MethodGet, mock.URL()+"/ping", nil, nil)
	if err != nil {
		t.Fatalf("send() failed: %v", err)
	}
	resp.Body.Close()

	if got := mock.LastRequestHeader.Get("Authorization"); got != "Bearer test-token-123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer test-token-123")
	}
}

func TestSend_NoTokenNoAuthorizationHeader(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	resp, err := client.send(context.Background(), http.MethodGet, mock.URL()+"/ping", nil, nil)
	if err != nil {
		t.Fatalf("send() failed: %v", err)
	}
	resp.Body.Close()

	if got := mock.LastRequestHeader.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}
}

func TestSend_CallerHeadersOverrideDefaults(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	extra := map[string]string{"Accept": "application/xml"}
	resp, err := client.send(context.Background(), http.MethodGet, mock.URL()+"/ping", nil, extra)
	if err != nil {
		t.Fatalf("send() failed: %v", err)
	}
	resp.Body.Close()

	if got := mock.LastRequestHeader.Get("Accept"); got != "application/xml" {
		t.Errorf("Accept = %q, want caller override %q", got, "application/xml")
	}
}

func TestSend_QueryParams(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	var gotQuery url.Values
	mock.SetHandler("/search", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	})

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	params := url.Values{}
	params.Set("q", "smart tv")
	params.Set("limit", "5")

	resp, err := client.send(context.Background(), http.MethodGet, mock.URL()+"/search", params, nil)
	if err != nil {
		t.Fatalf("send() failed: %v", err)
	}
	resp.Body.Close()

	if got := gotQuery.Get("q"); got != "smart tv" {
		t.Errorf("q = %q, want %q", got, "smart tv")
	}
	if got := gotQuery.Get("limit"); got != "5" {
		t.Errorf("limit = %q, want %q", got, "5")
	}
}

func TestSend_TimeoutClassified(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	mock.SetResponse("/slow", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Delay:      200 * time.Millisecond,
	})

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.Timeout = 50 * time.Millisecond
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = client.send(context.Background(), http.MethodGet, mock.URL()+"/slow", nil, nil)
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
	if kind := classifyTransport(err); kind != TransportTimeout {
		t.Errorf("classifyTransport(%v) = %q, want %q", err, kind, TransportTimeout)
	}
}

func TestNewHTTPClient_InvalidProxyURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProxyURL = "http://[::1"

	if _, err := New(cfg); err == nil {
		t.Error("Expected error for invalid proxy URL, got nil")
	}
}

func TestNewHTTPClient_ProxyRouting(t *testing.T) {
	var proxied atomic.Int32

	// A forward proxy receives the absolute target URI and answers in
	// place of the unreachable upstream.
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Add(1)
		if !r.URL.IsAbs() {
			t.Errorf("Proxy received relative URI %q, want absolute", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer proxy.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = "http://marketplace-upstream.invalid"
	cfg.ProxyURL = proxy.URL
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	items, err := client.SearchItems(context.Background(), "tv", 5)
	if err != nil {
		t.Fatalf("SearchItems() through proxy failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(items))
	}
	if proxied.Load() == 0 {
		t.Error("Expected the request to pass through the proxy")
	}
}
