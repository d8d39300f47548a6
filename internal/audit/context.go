// File: internal/audit/context.go
// Description: The shared per-run audit context. One Context exists per run;
// the orchestrator owns it and passes it by reference to every analyzer.
// Cached fields are populate-if-absent: whichever analyzer fetches first
// writes, later analyzers read. Duplicate writes by concurrent analyzers are
// harmless because the values are equivalent.

package audit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/internal/network"
)

// Context is the mutable per-run record shared by all analyzers.
type Context struct {
	// TargetURL is the original input string.
	TargetURL string
	// NormalizedURL is the canonicalized absolute target.
	NormalizedURL string

	// Fetch performs all network access for the run.
	Fetch *network.Client

	// Verbose affects downstream rendering only, never analysis.
	Verbose bool

	// RequestedPages, when non-empty, replaces the default common-page list
	// sampled by the redirects analyzer.
	RequestedPages []string

	// CrawlEnabled and CrawlPageLimit configure the opt-in crawl analyzer.
	CrawlEnabled   bool
	CrawlPageLimit int
	CrawlBatchSize int

	Logger *zap.Logger

	mu          sync.Mutex
	html        string
	htmlSet     bool
	finalURL    string
	headers     map[string]string
	headersSet  bool
	robotsTxt   string
	robotsSet   bool
	sitemapURLs []string
	sitemapSet  bool
}

// NewContext builds a Context with empty caches.
func NewContext(targetURL, normalizedURL string, fetch *network.Client, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		TargetURL:     targetURL,
		NormalizedURL: normalizedURL,
		Fetch:         fetch,
		Logger:        logger,
	}
}

// HTML returns the cached homepage body, if any analyzer has fetched it.
func (c *Context) HTML() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.html, c.htmlSet
}

// SetHTML caches the homepage body. Last writer wins; concurrent writers
// always hold equivalent values.
func (c *Context) SetHTML(html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.html = html
	c.htmlSet = true
}

// FinalURL returns where the homepage fetch actually landed after
// redirects. Falls back to the normalized target before any fetch happened.
func (c *Context) FinalURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalURL != "" {
		return c.finalURL
	}
	return c.NormalizedURL
}

// SetFinalURL records the homepage's post-redirect URL.
func (c *Context) SetFinalURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalURL = u
}

// Headers returns the cached homepage response headers (lower-cased names).
func (c *Context) Headers() (map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headers, c.headersSet
}

// SetHeaders caches the homepage response headers.
func (c *Context) SetHeaders(headers map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = headers
	c.headersSet = true
}

// RobotsTxt returns the cached robots.txt body, set by the robots analyzer.
func (c *Context) RobotsTxt() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.robotsTxt, c.robotsSet
}

// SetRobotsTxt caches the raw robots.txt text for the sitemap cross-check.
func (c *Context) SetRobotsTxt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.robotsTxt = text
	c.robotsSet = true
}

// SitemapURLs returns the ordered page URLs discovered by the sitemap
// analyzer, consumed by crawl mode.
func (c *Context) SitemapURLs() ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sitemapURLs, c.sitemapSet
}

// SetSitemapURLs caches the discovered sitemap page URLs.
func (c *Context) SetSitemapURLs(urls []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sitemapURLs = urls
	c.sitemapSet = true
}

// EnsureHomepage returns the homepage HTML and headers, fetching and caching
// them on first use. Concurrent phase-2 analyzers may each fetch once when
// none observes a warm cache; that redundancy is accepted, the writes are
// idempotent. No analyzer owns populating this cache.
func (c *Context) EnsureHomepage(ctx context.Context) (string, map[string]string, error) {
	if html, ok := c.HTML(); ok {
		headers, _ := c.Headers()
		return html, headers, nil
	}

	page, err := c.Fetch.FetchFollowingRedirects(ctx, c.NormalizedURL)
	if err != nil {
		return "", nil, fmt.Errorf("fetching homepage %s: %w", c.NormalizedURL, err)
	}

	c.SetHTML(page.Body)
	c.SetHeaders(page.Headers)
	c.SetFinalURL(page.FinalURL)
	return page.Body, page.Headers, nil
}

// Origin returns the scheme://host of the normalized target.
func (c *Context) Origin() string {
	u, err := url.Parse(c.NormalizedURL)
	if err != nil {
		return c.NormalizedURL
	}
	return u.Scheme + "://" + u.Host
}

// ResolveRef resolves a possibly-relative reference against the normalized
// target URL.
func (c *Context) ResolveRef(ref string) string {
	base, err := url.Parse(c.NormalizedURL)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(refURL).String()
}
