// File: internal/network/client.go
// Description: HTTP client construction for the audit. All requests share one
// tuned transport; redirect handling is always manual so the fetch layer can
// observe every hop.

package network

import (
	"crypto/tls"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/seoscope/seoscope-cli/internal/config"
)

// Constants for default transport settings. These are tuned for an audit
// workload: many small requests against a single origin.
const (
	DefaultTLSHandshakeTimeout   = 5 * time.Second
	DefaultResponseHeaderTimeout = 10 * time.Second

	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 20
	DefaultIdleConnTimeout     = 30 * time.Second

	// Probe pacing. HEAD sampling (sitemap entries, image sizes) is rate
	// limited so a large audit stays polite toward the target.
	probeRatePerSecond = 10
	probeBurst         = 5
)

// Client wraps http.Client with audit-specific helpers. It never follows
// redirects on its own: every hop is surfaced to the caller.
//
// The client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	timeout      time.Duration
	probeLimiter *rate.Limiter
	logger       *zap.Logger
}

// NewClient builds a Client from the network configuration. userAgent must
// already be resolved (preset expansion happens in config).
func NewClient(cfg config.NetworkConfig, userAgent string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	maxIdlePerHost := cfg.MaxIdleConnsPerHost
	if maxIdlePerHost <= 0 {
		maxIdlePerHost = DefaultMaxIdleConnsPerHost
	}
	idleTimeout := cfg.IdleConnTimeout
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleConnTimeout
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.IgnoreTLSErrors,
		},
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		MaxIdleConns:          maxIdle,
		MaxIdleConnsPerHost:   maxIdlePerHost,
		IdleConnTimeout:       idleTimeout,
		// Compression is negotiated and decoded by the fetch layer itself so
		// brotli responses are handled alongside gzip and deflate.
		DisableCompression: true,
		ForceAttemptHTTP2:  true,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warn("Failed to configure HTTP/2 transport, falling back to HTTP/1.1", zap.Error(err))
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout(),
			// Every redirect is inspected manually; the fetch layer decides
			// when to follow.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:    userAgent,
		timeout:      cfg.Timeout(),
		probeLimiter: rate.NewLimiter(rate.Limit(probeRatePerSecond), probeBurst),
		logger:       logger.Named("network"),
	}
}

// UserAgent returns the resolved user agent string for this run.
func (c *Client) UserAgent() string { return c.userAgent }
