// File: internal/audit/analyzers/nextjs.go
// Description: Next.js/Vercel platform detection. All findings here are
// informational; knowing the platform explains behaviors other analyzers
// observe (308 slash normalization, middleware rewrites).

package analyzers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
)

// serverTokens are the server-header fingerprints of the platform.
var serverTokens = []string{"vercel", "next.js"}

// middlewareHeaders are set when an edge middleware rewrote or redirected
// the request.
var middlewareHeaders = []string{
	"x-middleware-rewrite",
	"x-middleware-redirect",
	"x-nextjs-rewrite",
	"x-nextjs-redirect",
}

// NextJS detects Vercel/Next.js hosting fingerprints.
type NextJS struct {
	logger *zap.Logger
}

// NewNextJS constructs the platform detection analyzer.
func NewNextJS(logger *zap.Logger) *NextJS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NextJS{logger: logger.Named("nextjs")}
}

func (a *NextJS) Name() string               { return "nextjs" }
func (a *NextJS) Category() schemas.Category { return schemas.CategoryNextJS }

// Analyze inspects response headers (cached when available), probes the
// platform's 308 slash normalization, and checks framework markers in HTML.
func (a *NextJS) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	headers, ok := ac.Headers()
	if !ok {
		probe, err := ac.Fetch.FetchHead(ctx, ac.NormalizedURL)
		if err != nil {
			// Nothing to fingerprint without headers.
			a.logger.Debug("homepage headers unavailable", zap.Error(err))
			return nil, nil
		}
		headers = probe.Headers
	}

	var findings []schemas.Finding
	detected := a.detectPlatform(headers)
	if detected != nil {
		findings = append(findings, *detected)
	}

	findings = append(findings, a.checkSlash308(ctx, ac)...)
	findings = append(findings, a.checkMiddlewareHeaders(headers, ac)...)

	if detected != nil {
		findings = append(findings, a.checkHTMLMarkers(ac)...)
	}

	return findings, nil
}

// platformFingerprint returns which header fingerprint matched, or "" when
// the headers show no sign of the platform.
func platformFingerprint(headers map[string]string) string {
	server := strings.ToLower(headers["server"])
	for _, token := range serverTokens {
		if strings.Contains(server, token) {
			return token
		}
	}
	if _, ok := headers["x-vercel-id"]; ok {
		return "x-vercel-id"
	}
	return ""
}

// matchesPlatformHeaders is the boolean form used by sibling analyzers.
func matchesPlatformHeaders(headers map[string]string) bool {
	return platformFingerprint(headers) != ""
}

// detectPlatform looks for vendor fingerprints in the server header or the
// platform request-id header.
func (a *NextJS) detectPlatform(headers map[string]string) *schemas.Finding {
	matched := platformFingerprint(headers)
	if matched == "" {
		return nil
	}

	poweredBy := headers["x-powered-by"]
	frameworkHeader := strings.Contains(strings.ToLower(poweredBy), "next.js")

	f := schemas.NewFinding(
		schemas.CodeNextPlatformDetected,
		schemas.SeverityInfo,
		schemas.CategoryNextJS,
		"Vercel/Next.js platform detected",
		"Response headers carry the platform's fingerprint. Platform-managed behaviors like slash normalization and edge caching apply.",
		"No action needed; platform-specific checks below assume this stack.",
	).WithDetails(map[string]any{
		"matched_on":       matched,
		"framework_header": frameworkHeader,
	})
	return &f
}

// checkSlash308 probes trailing-slash toggling for exactly a 308, the
// signature of the platform's slash normalization. Distinct from the generic
// 3xx check in the redirects analyzer.
func (a *NextJS) checkSlash308(ctx context.Context, ac *audit.Context) []schemas.Finding {
	variant, ok := toggleTrailingSlash(ac.NormalizedURL)
	if !ok {
		return nil
	}
	probe, err := ac.Fetch.FetchManualRedirect(ctx, variant)
	if err != nil {
		a.logger.Debug("slash probe failed", zap.String("url", variant), zap.Error(err))
		return nil
	}
	if probe.Status != 308 {
		return nil
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeNextTrailingSlash308,
		schemas.SeverityInfo,
		schemas.CategoryNextJS,
		"Trailing slashes normalized with 308",
		"A 308 on the slash variant is the platform's built-in normalization via the trailingSlash setting. Permanent and cache-safe.",
		"No action needed.",
	).WithDetails(map[string]any{"probed": variant}).WithURL(variant)}
}

// checkMiddlewareHeaders reports middleware rewrite/redirect headers.
func (a *NextJS) checkMiddlewareHeaders(headers map[string]string, ac *audit.Context) []schemas.Finding {
	present := map[string]string{}
	for _, h := range middlewareHeaders {
		if v, ok := headers[h]; ok {
			present[h] = v
		}
	}
	if len(present) == 0 {
		return nil
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeNextMiddlewareHeaders,
		schemas.SeverityInfo,
		schemas.CategoryNextJS,
		"Edge middleware rewrote this response",
		"Middleware rewrite/redirect headers are present. Crawlers see the rewritten content, so verify the middleware treats bots and users the same.",
		"Confirm middleware logic does not cloak content for crawlers.",
	).WithDetails(map[string]any{"headers": present}).WithURL(ac.FinalURL())}
}

// checkHTMLMarkers verifies the expected framework markers appear in the
// cached HTML. Their absence is a soft signal, not a contradiction: static
// exports and custom documents can omit them.
func (a *NextJS) checkHTMLMarkers(ac *audit.Context) []schemas.Finding {
	html, ok := ac.HTML()
	if !ok {
		return nil
	}
	if strings.Contains(html, "__NEXT_DATA__") || strings.Contains(html, "/_next/") {
		return nil
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeNextMarkersMissing,
		schemas.SeverityInfo,
		schemas.CategoryNextJS,
		"Platform detected but framework markers absent from HTML",
		"Headers say Next.js/Vercel but the HTML carries neither __NEXT_DATA__ nor /_next/ asset paths. Possibly a static export or a proxy in front.",
		"Nothing to fix; noted for context.",
	).WithURL(ac.FinalURL())}
}
