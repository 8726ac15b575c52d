package llm

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultUserAgent = "posterforge/1.0"

// Config holds the transport settings shared by the text and image clients.
type Config struct {
	//required fields
	BaseURL string
	// APIKey may be empty; the provider then rejects the call and the
	// rejection surfaces as an UpstreamError.
	APIKey string

	UserAgent       string
	UpstreamTimeout time.Duration // per-request timeout, detached from the caller

	// Optional connection pool settings
	MaxIdleConns        int // default: 100
	MaxIdleConnsPerHost int // default: 100

	// Custom HTTP client (for testing or special configs)
	HTTPClient *http.Client
}

// Validate checks required fields only.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.New("BaseURL must be an http(s) URL")
	}
	return nil
}

// withDefaults returns a copy of Config with sane defaults applied.
// timeout is the service-specific default for UpstreamTimeout.
func (c Config) withDefaults(baseURL string, timeout time.Duration) Config {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	// Normalize BaseURL: trim trailing slashes so we can safely append paths.
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = timeout
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 100
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 100
	}
	return c
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Transport: defaultTransport(c)}
}

// defaultTransport creates a production-ready HTTP transport
// with connection pooling and reasonable timeouts.
func defaultTransport(cfg Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
