// File: internal/audit/analyzers/metadata.go
// Description: Homepage metadata checks. Every check here is independent and
// cumulative; a page can collect any subset of these findings at once.

package analyzers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

// Metadata audits indexability directives, canonical, and the social/meta
// tag set of the homepage.
type Metadata struct {
	logger *zap.Logger
}

// NewMetadata constructs the metadata analyzer.
func NewMetadata(logger *zap.Logger) *Metadata {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metadata{logger: logger.Named("metadata")}
}

func (a *Metadata) Name() string               { return "metadata" }
func (a *Metadata) Category() schemas.Category { return schemas.CategoryMetadata }

// Analyze fetches the homepage (populating the shared caches) and runs all
// metadata checks against it.
func (a *Metadata) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	html, headers, err := ac.EnsureHomepage(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := parse.NewDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parsing homepage HTML: %w", err)
	}

	var findings []schemas.Finding
	findings = append(findings, a.checkNoindex(doc, headers, ac)...)
	findings = append(findings, a.checkCanonical(doc, ac)...)
	findings = append(findings, a.checkBasics(doc, ac)...)
	findings = append(findings, a.checkOpenGraph(ctx, doc, ac)...)
	findings = append(findings, a.checkTwitterCard(ctx, doc, ac)...)
	return findings, nil
}

// checkNoindex flags noindex via meta tag and via the X-Robots-Tag header
// independently; both can fire on the same page.
func (a *Metadata) checkNoindex(doc *parse.Document, headers map[string]string, ac *audit.Context) []schemas.Finding {
	var findings []schemas.Finding

	if doc.HasNoindex() {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeMetaNoindex,
			schemas.SeverityError,
			schemas.CategoryMetadata,
			"Homepage carries a noindex meta directive",
			"A noindex robots meta tag removes the homepage from search results entirely.",
			"Delete the noindex directive unless the exclusion is genuinely intended.",
		).WithURL(ac.FinalURL()))
	}

	if tag, ok := headers["x-robots-tag"]; ok && strings.Contains(strings.ToLower(tag), "noindex") {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeHeaderNoindex,
			schemas.SeverityError,
			schemas.CategoryMetadata,
			"X-Robots-Tag response header contains noindex",
			"Header-level noindex is easy to miss because it never appears in the page source, yet it deindexes the page just the same.",
			"Remove noindex from the X-Robots-Tag header at the server or CDN.",
		).WithDetails(map[string]any{"x_robots_tag": tag}).WithURL(ac.FinalURL()))
	}

	return findings
}

// checkCanonical verifies presence and correctness of the canonical link.
// The canonical is matched against the final fetched URL; a same-origin
// mismatch is a warning, a cross-origin canonical is a legitimate but
// noteworthy configuration and only informational.
func (a *Metadata) checkCanonical(doc *parse.Document, ac *audit.Context) []schemas.Finding {
	canonical, ok := doc.CanonicalURL()
	if !ok {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeCanonicalMissing,
			schemas.SeverityWarning,
			schemas.CategoryMetadata,
			"No canonical link on the homepage",
			"Without rel=canonical, parameterized or duplicated variants of the homepage compete with it for ranking.",
			`Add <link rel="canonical" href="..."> pointing at the preferred homepage URL.`,
		).WithURL(ac.FinalURL())}
	}

	finalURL := ac.FinalURL()
	resolved := ac.ResolveRef(canonical)

	if urlsEquivalent(resolved, finalURL) || urlsEquivalent(resolved, ac.NormalizedURL) {
		return nil
	}

	if crossOrigin(resolved, finalURL) {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeCanonicalCrossOrigin,
			schemas.SeverityInfo,
			schemas.CategoryMetadata,
			"Canonical points at a different origin",
			"A cross-origin canonical hands this page's ranking signals to another site. Legitimate for syndicated content, surprising otherwise.",
			"Confirm the cross-origin canonical is intentional.",
		).WithDetails(map[string]any{"canonical": resolved}).WithURL(finalURL)}
	}

	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeCanonicalMismatch,
		schemas.SeverityWarning,
		schemas.CategoryMetadata,
		"Canonical does not match the page URL",
		"The homepage declares a canonical different from the URL it is served at, which tells search engines to index a different page.",
		"Point the canonical at the URL the page is actually served from.",
	).WithDetails(map[string]any{
		"canonical": resolved,
		"page_url":  finalURL,
	}).WithURL(finalURL)}
}

// checkBasics covers charset, viewport, title, and meta description.
func (a *Metadata) checkBasics(doc *parse.Document, ac *audit.Context) []schemas.Finding {
	var findings []schemas.Finding
	pageURL := ac.FinalURL()

	if _, ok := doc.Charset(); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeCharsetMissing,
			schemas.SeverityInfo,
			schemas.CategoryMetadata,
			"No charset declaration",
			"Browsers fall back to sniffing the encoding, which occasionally renders text wrong on legacy content.",
			`Add <meta charset="utf-8"> as the first element of <head>.`,
		).WithURL(pageURL))
	}

	if _, ok := doc.Viewport(); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeViewportMissing,
			schemas.SeverityWarning,
			schemas.CategoryMetadata,
			"No viewport meta tag",
			"Without a viewport declaration, phones render the desktop layout zoomed out, and mobile-first indexing penalizes the page.",
			`Add <meta name="viewport" content="width=device-width, initial-scale=1">.`,
		).WithURL(pageURL))
	}

	if _, ok := doc.Title(); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeTitleMissing,
			schemas.SeverityWarning,
			schemas.CategoryMetadata,
			"Homepage has no title",
			"The title is the headline of the search result; without one, engines synthesize something from page content.",
			"Add a descriptive <title> of roughly 50 to 60 characters.",
		).WithURL(pageURL))
	}

	if _, ok := doc.MetaDescription(); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeDescriptionMissing,
			schemas.SeverityInfo,
			schemas.CategoryMetadata,
			"No meta description",
			"Engines generate their own snippet when the description is missing, giving up control of how the result reads.",
			"Add a meta description summarizing the page in up to 160 characters.",
		).WithURL(pageURL))
	}

	return findings
}

// checkOpenGraph covers og:title, og:description, and og:image, including
// relative-URL usage and HEAD reachability of the image.
func (a *Metadata) checkOpenGraph(ctx context.Context, doc *parse.Document, ac *audit.Context) []schemas.Finding {
	var findings []schemas.Finding
	pageURL := ac.FinalURL()

	type ogCheck struct {
		tag  string
		code schemas.Code
	}
	for _, check := range []ogCheck{
		{"og:title", schemas.CodeOGTitleMissing},
		{"og:description", schemas.CodeOGDescriptionMissing},
	} {
		if _, ok := doc.MetaContent(check.tag); !ok {
			findings = append(findings, schemas.NewFinding(
				check.code,
				schemas.SeverityInfo,
				schemas.CategoryMetadata,
				"Missing "+check.tag,
				"Open Graph tags control how the page previews when shared; without them, platforms guess.",
				"Add a "+check.tag+" meta property.",
			).WithURL(pageURL))
		}
	}

	ogImage, ok := doc.MetaContent("og:image")
	if !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeOGImageMissing,
			schemas.SeverityInfo,
			schemas.CategoryMetadata,
			"Missing og:image",
			"Shares without an image render as bare links and get noticeably less engagement.",
			"Add an og:image meta property pointing at a 1200x630 image.",
		).WithURL(pageURL))
		return findings
	}

	if !isAbsoluteURL(ogImage) {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeOGImageRelative,
			schemas.SeverityWarning,
			schemas.CategoryMetadata,
			"og:image uses a relative URL",
			"The Open Graph spec requires absolute URLs; several platforms ignore relative og:image values outright.",
			"Use the full https:// URL of the image.",
		).WithDetails(map[string]any{"og_image": ogImage}).WithURL(pageURL))
	}

	imageURL := ac.ResolveRef(ogImage)
	probe, err := ac.Fetch.FetchHead(ctx, imageURL)
	if err != nil || probe.Status < 200 || probe.Status >= 300 {
		status := 0
		if probe != nil {
			status = probe.Status
		}
		findings = append(findings, schemas.NewFinding(
			schemas.CodeOGImageUnreachable,
			schemas.SeverityWarning,
			schemas.CategoryMetadata,
			"og:image is not reachable",
			"Sharing platforms fetch the image at share time; an unreachable image means shares render without a preview.",
			"Make the og:image URL resolve with a 200.",
		).WithDetails(map[string]any{"status": status}).WithURL(imageURL))
	}

	return findings
}

// checkTwitterCard covers twitter:card and twitter:image presence plus
// image reachability.
func (a *Metadata) checkTwitterCard(ctx context.Context, doc *parse.Document, ac *audit.Context) []schemas.Finding {
	var findings []schemas.Finding
	pageURL := ac.FinalURL()

	if _, ok := doc.MetaContent("twitter:card"); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeTwitterCardMissing,
			schemas.SeverityInfo,
			schemas.CategoryMetadata,
			"Missing twitter:card",
			"Without a card type the platform falls back to a plain link preview.",
			`Add <meta name="twitter:card" content="summary_large_image">.`,
		).WithURL(pageURL))
	}

	twitterImage, ok := doc.MetaContent("twitter:image")
	if !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeTwitterImageMissing,
			schemas.SeverityInfo,
			schemas.CategoryMetadata,
			"Missing twitter:image",
			"Card previews without an image draw less attention in the feed.",
			"Add a twitter:image meta tag (og:image is used as a fallback by some platforms but not all).",
		).WithURL(pageURL))
		return findings
	}

	imageURL := ac.ResolveRef(twitterImage)
	probe, err := ac.Fetch.FetchHead(ctx, imageURL)
	if err != nil || probe.Status < 200 || probe.Status >= 300 {
		status := 0
		if probe != nil {
			status = probe.Status
		}
		findings = append(findings, schemas.NewFinding(
			schemas.CodeTwitterImageUnreachable,
			schemas.SeverityWarning,
			schemas.CategoryMetadata,
			"twitter:image is not reachable",
			"An unreachable card image downgrades the share to a bare link.",
			"Make the twitter:image URL resolve with a 200.",
		).WithDetails(map[string]any{"status": status}).WithURL(imageURL))
	}

	return findings
}

// urlsEquivalent compares URLs ignoring a trailing slash on the path.
func urlsEquivalent(a, b string) bool {
	if a == b {
		return true
	}
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// crossOrigin reports whether two URLs have different origins.
func crossOrigin(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return ua.Scheme != ub.Scheme || !strings.EqualFold(ua.Host, ub.Host)
}

// isAbsoluteURL reports whether the value carries an explicit http(s) scheme.
func isAbsoluteURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
