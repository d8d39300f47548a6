// File: internal/audit/analyzers/redirects.go
// Description: Homepage redirect behavior. Builds the full redirect chain,
// probes HTTP-to-HTTPS enforcement and trailing-slash handling, detects
// meta-refresh, and samples a handful of common pages for multi-hop chains.

package analyzers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/network"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

// defaultSamplePages is probed for multi-hop chains when the caller supplies
// no explicit page list.
var defaultSamplePages = []string{"/about", "/contact", "/blog", "/pricing"}

// Redirects checks the homepage redirect chain and a sample of common pages.
type Redirects struct {
	logger *zap.Logger
}

// NewRedirects constructs the redirects analyzer.
func NewRedirects(logger *zap.Logger) *Redirects {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redirects{logger: logger.Named("redirects")}
}

func (a *Redirects) Name() string               { return "redirects" }
func (a *Redirects) Category() schemas.Category { return schemas.CategoryRedirects }

// Analyze runs all redirect checks. Individual probe failures are swallowed:
// an unreachable sampled page or slash variant is not itself a finding.
func (a *Redirects) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	var findings []schemas.Finding

	chainFindings, err := a.checkHomepageChain(ctx, ac)
	if err != nil {
		return nil, err
	}
	findings = append(findings, chainFindings...)

	findings = append(findings, a.checkHTTPSRedirect(ctx, ac)...)
	findings = append(findings, a.checkTrailingSlash(ctx, ac)...)
	findings = append(findings, a.checkMetaRefresh(ctx, ac)...)
	findings = append(findings, a.checkSamplePages(ctx, ac)...)

	return findings, nil
}

// checkHomepageChain walks the homepage redirect chain. A loop is an error,
// more than one hop is a warning. An unreachable homepage fails the whole
// analyzer; there is nothing left to audit.
func (a *Redirects) checkHomepageChain(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	chain, err := ac.Fetch.FollowRedirectChain(ctx, ac.NormalizedURL)
	if err != nil && !errors.Is(err, network.ErrTooManyRedirects) {
		return nil, fmt.Errorf("resolving homepage redirect chain: %w", err)
	}

	hops := hopDetails(chain)

	if chain.IsCircular {
		f := schemas.NewFinding(
			schemas.CodeRedirectLoop,
			schemas.SeverityError,
			schemas.CategoryRedirects,
			"Homepage redirects form a loop",
			"The homepage redirect chain revisits a URL it already passed through, so crawlers never reach a final document.",
			"Fix the server or CDN rules so the homepage resolves to a single stable URL.",
		).WithDetails(map[string]any{"hops": hops}).WithURL(ac.NormalizedURL)
		return []schemas.Finding{f}, nil
	}

	switch {
	case len(chain.Hops) > 1:
		f := schemas.NewFinding(
			schemas.CodeRedirectChain,
			schemas.SeverityWarning,
			schemas.CategoryRedirects,
			fmt.Sprintf("Homepage reached through %d redirects", len(chain.Hops)),
			"Each intermediate hop wastes crawl budget and dilutes link equity before the final page loads.",
			"Redirect the original URL directly to the final destination in one hop.",
		).WithDetails(map[string]any{
			"hops":      hops,
			"final_url": chain.FinalURL,
		}).WithURL(ac.NormalizedURL)
		return []schemas.Finding{f}, nil

	case len(chain.Hops) == 0:
		f := schemas.NewFinding(
			schemas.CodeRedirectNone,
			schemas.SeverityPass,
			schemas.CategoryRedirects,
			"Homepage answers without redirecting",
			"The homepage URL serves its document directly, which is the ideal configuration.",
			"No action needed.",
		).WithURL(ac.NormalizedURL)
		return []schemas.Finding{f}, nil
	}

	// Exactly one hop is routine (apex to www, http to https) and produces
	// no finding on its own.
	return nil, nil
}

// checkHTTPSRedirect probes the plain-http variant of the target and verifies
// it lands on https. Reachability failures are swallowed: many https-only
// hosts simply refuse port 80, which is not an SEO problem.
func (a *Redirects) checkHTTPSRedirect(ctx context.Context, ac *audit.Context) []schemas.Finding {
	u, err := url.Parse(ac.NormalizedURL)
	if err != nil || u.Scheme != "https" {
		return nil
	}
	httpVariant := "http://" + u.Host + u.RequestURI()

	chain, err := ac.Fetch.FollowRedirectChain(ctx, httpVariant)
	if err != nil {
		a.logger.Debug("HTTP variant unreachable, skipping HTTPS redirect check",
			zap.String("url", httpVariant), zap.Error(err))
		return nil
	}

	if strings.HasPrefix(chain.FinalURL, "https://") {
		f := schemas.NewFinding(
			schemas.CodeHTTPSRedirect,
			schemas.SeverityPass,
			schemas.CategoryRedirects,
			"HTTP traffic is redirected to HTTPS",
			"Requests to the http:// variant end up on the https:// site, consolidating signals on the secure origin.",
			"No action needed.",
		).WithURL(httpVariant)
		return []schemas.Finding{f}
	}

	f := schemas.NewFinding(
		schemas.CodeHTTPSRedirectFailed,
		schemas.SeverityWarning,
		schemas.CategoryRedirects,
		"HTTP traffic does not reach HTTPS",
		"The http:// variant serves content without redirecting to the secure origin, splitting the site across two protocols.",
		"Add a permanent redirect from http:// to https:// at the server or CDN.",
	).WithDetails(map[string]any{"final_url": chain.FinalURL}).WithURL(httpVariant)
	return []schemas.Finding{f}
}

// checkTrailingSlash toggles the trailing slash on the homepage path and
// reports a 3xx answer as informational. Frameworks normalize slashes by
// design; this is expected behavior, not a defect.
func (a *Redirects) checkTrailingSlash(ctx context.Context, ac *audit.Context) []schemas.Finding {
	variant, ok := toggleTrailingSlash(ac.NormalizedURL)
	if !ok {
		return nil
	}

	probe, err := ac.Fetch.FetchManualRedirect(ctx, variant)
	if err != nil {
		a.logger.Debug("Trailing-slash probe failed, skipping", zap.String("url", variant), zap.Error(err))
		return nil
	}

	if probe.Status >= 300 && probe.Status < 400 {
		f := schemas.NewFinding(
			schemas.CodeTrailingSlashChange,
			schemas.SeverityInfo,
			schemas.CategoryRedirects,
			fmt.Sprintf("Trailing-slash variant answers with %d", probe.Status),
			"The site normalizes trailing slashes with a redirect. This is standard framework behavior and keeps duplicate URLs out of the index.",
			"No action needed; confirm internal links use the canonical form to avoid the extra hop.",
		).WithDetails(map[string]any{
			"status":   probe.Status,
			"location": probe.Headers["location"],
		}).WithURL(variant)
		return []schemas.Finding{f}
	}

	return nil
}

// checkMetaRefresh looks for a meta-refresh redirect on the homepage.
func (a *Redirects) checkMetaRefresh(ctx context.Context, ac *audit.Context) []schemas.Finding {
	html, _, err := ac.EnsureHomepage(ctx)
	if err != nil {
		a.logger.Debug("Homepage fetch failed, skipping meta-refresh check", zap.Error(err))
		return nil
	}
	doc, err := parse.NewDocument(html)
	if err != nil {
		return nil
	}

	target, ok := doc.MetaRefreshURL()
	if !ok {
		return nil
	}

	f := schemas.NewFinding(
		schemas.CodeMetaRefresh,
		schemas.SeverityWarning,
		schemas.CategoryRedirects,
		"Homepage uses a meta-refresh redirect",
		"Meta-refresh redirects are slower than HTTP redirects and search engines treat them as a weak signal for passing ranking equity.",
		"Replace the meta-refresh with a server-side 301 redirect.",
	).WithDetails(map[string]any{"target": target}).WithURL(ac.NormalizedURL)
	return []schemas.Finding{f}
}

// checkSamplePages walks the configured (or default) page list and reports
// multi-hop chains. A page that fails to fetch is silently skipped; a
// missing sampled page is not a finding.
func (a *Redirects) checkSamplePages(ctx context.Context, ac *audit.Context) []schemas.Finding {
	pages := ac.RequestedPages
	if len(pages) == 0 {
		pages = defaultSamplePages
	}

	origin := ac.Origin()
	var findings []schemas.Finding
	for _, path := range pages {
		pageURL := origin + path
		chain, err := ac.Fetch.FollowRedirectChain(ctx, pageURL)
		if err != nil {
			a.logger.Debug("Sampled page unreachable, skipping", zap.String("url", pageURL), zap.Error(err))
			continue
		}
		if len(chain.Hops) > 1 || chain.IsCircular {
			findings = append(findings, schemas.NewFinding(
				schemas.CodePageRedirectChain,
				schemas.SeverityInfo,
				schemas.CategoryRedirects,
				fmt.Sprintf("%s reached through %d redirects", path, len(chain.Hops)),
				"Sampled pages that redirect through multiple hops cost extra crawl requests on every visit.",
				"Point links and redirects for this page directly at its final URL.",
			).WithDetails(map[string]any{
				"hops":      hopDetails(chain),
				"final_url": chain.FinalURL,
				"circular":  chain.IsCircular,
			}).WithURL(pageURL))
		}
	}
	return findings
}

// hopDetails renders a chain's hops as detail-bag friendly maps.
func hopDetails(chain *schemas.RedirectChain) []map[string]any {
	hops := make([]map[string]any, 0, len(chain.Hops))
	for _, h := range chain.Hops {
		hops = append(hops, map[string]any{
			"url":      h.URL,
			"status":   h.Status,
			"location": h.Location,
		})
	}
	return hops
}

// toggleTrailingSlash flips the presence of a trailing slash on the URL
// path. The bare origin (path "/" or "") has no meaningful variant.
func toggleTrailingSlash(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	switch {
	case u.Path == "" || u.Path == "/":
		// Probe a well-known path instead; the root cannot lose its slash.
		u.Path = "/home/"
		return u.String(), true
	case strings.HasSuffix(u.Path, "/"):
		u.Path = strings.TrimSuffix(u.Path, "/")
		return u.String(), true
	default:
		u.Path += "/"
		return u.String(), true
	}
}
