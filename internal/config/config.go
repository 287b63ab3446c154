// Package config loads the service configuration from environment
// variables and validates it before startup.
//
// Environment Variables:
//
// Marketplace access:
//   - ML_BASE_URL: Marketplace API root (default: https://api.mercadolibre.com)
//   - ML_SITE_ID: Marketplace site for catalog searches (default: MLB)
//   - ML_ACCESS_TOKEN: Optional bearer token sent on outbound calls
//   - ML_PROXY_URL: Optional forward proxy for outbound calls, useful when
//     the marketplace blocks datacenter IPs
//
// Fetch behavior:
//   - MAX_LIMIT: Upper bound for the per-search result limit (default: 50)
//   - REQUEST_TIMEOUT_SECONDS: Per-attempt HTTP timeout (default: 12)
//   - MAX_RETRIES: Total attempts per request, the first included (default: 3)
//   - REVIEWS_CONCURRENCY: Simultaneous review fetches per search (default: 8)
//   - REVIEWS_RATE_LIMIT: Review fetches per second, 0 disables (default: 0)
//
// Server settings:
//   - PORT: HTTP listen port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_PRETTY: Human-readable console logs instead of JSON (default: false)
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/Milesbeckerle/mercado-livre-api/pkg/client"
)

// Config holds all configuration values for the search service.
type Config struct {
	// Marketplace access
	BaseURL     string // Marketplace API root
	SiteID      string // Site for catalog searches (e.g. MLB)
	AccessToken string // Optional bearer token
	ProxyURL    string // Optional forward proxy URL

	// Fetch behavior
	MaxLimit           int           // Upper bound for the limit parameter
	RequestTimeout     time.Duration // Per-attempt HTTP timeout
	MaxRetries         int           // Total attempts per request
	ReviewsConcurrency int           // Simultaneous review fetches
	ReviewsRateLimit   float64       // Review fetches per second, 0 disables

	// Server settings
	Port      string // HTTP listen port
	LogLevel  string // Logging level (debug, info, warn, error)
	LogPretty bool   // Console logs instead of JSON
}

// Load creates a Config from environment variables, falling back to
// defaults for unset values. Call Validate before use.
func Load() *Config {
	return &Config{
		BaseURL:     getEnv("ML_BASE_URL", "https://api.mercadolibre.com"),
		SiteID:      getEnv("ML_SITE_ID", "MLB"),
		AccessToken: getEnv("ML_ACCESS_TOKEN", ""),
		ProxyURL:    getEnv("ML_PROXY_URL", ""),

		MaxLimit:           getIntEnv("MAX_LIMIT", 50),
		RequestTimeout:     time.Duration(getIntEnv("REQUEST_TIMEOUT_SECONDS", 12)) * time.Second,
		MaxRetries:         getIntEnv("MAX_RETRIES", 3),
		ReviewsConcurrency: getIntEnv("REVIEWS_CONCURRENCY", 8),
		ReviewsRateLimit:   getFloatEnv("REVIEWS_RATE_LIMIT", 0),

		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getBoolEnv("LOG_PRETTY", false),
	}
}

// Validate checks that all configuration values are usable. The returned
// error names the offending environment variable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("ML_BASE_URL must not be empty")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ML_BASE_URL must be a valid http(s) URL")
	}

	if c.SiteID == "" {
		return fmt.Errorf("ML_SITE_ID must not be empty")
	}

	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return fmt.Errorf("ML_PROXY_URL must be a valid URL: %v", err)
		}
	}

	if c.MaxLimit < 1 {
		return fmt.Errorf("MAX_LIMIT must be a positive number")
	}

	if c.RequestTimeout < time.Second {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be at least 1")
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be a positive number")
	}

	if c.ReviewsConcurrency < 1 {
		return fmt.Errorf("REVIEWS_CONCURRENCY must be a positive number")
	}

	if c.ReviewsRateLimit < 0 {
		return fmt.Errorf("REVIEWS_RATE_LIMIT must not be negative")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	return nil
}

// ClientConfig maps the service configuration onto the marketplace client
// configuration.
func (c *Config) ClientConfig() client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = c.BaseURL
	cc.SiteID = c.SiteID
	cc.AccessToken = c.AccessToken
	cc.ProxyURL = c.ProxyURL
	cc.MaxLimit = c.MaxLimit
	cc.Timeout = c.RequestTimeout
	cc.Retry.MaxAttempts = c.MaxRetries
	cc.ReviewsConcurrency = c.ReviewsConcurrency
	cc.ReviewsRateLimit = c.ReviewsRateLimit
	return cc
}

// getEnv retrieves an environment variable value or returns a default
// value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value. Unset or
// unparseable values fall back to the default.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv retrieves a float environment variable value. Unset or
// unparseable values fall back to the default.
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value. Unset or
// unparseable values fall back to the default.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
