package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// defaultHeaders is the browser-like header set sent on every outbound
// request. Caller-supplied headers override individual entries.
var defaultHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Referer":         "https://www.mercadolivre.com.br/",
	"Origin":          "https://www.mercadolivre.com.br",
	"Connection":      "keep-alive",
}

// newHTTPClient builds the shared HTTP client with the per-attempt timeout,
// optionally routed through a forward proxy.
func newHTTPClient(cfg Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

// send issues a single request with the merged header set. The browser-like
// defaults are applied first, the bearer token when one is configured, and
// caller headers last so they win on conflicts.
func (c *Client) send(ctx context.Context, method, rawURL string, params url.Values, extra map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}
	for key, value := range extra {
		req.Header.Set(key, value)
	}

	return c.httpClient.Do(req)
}
