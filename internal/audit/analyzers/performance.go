// File: internal/audit/analyzers/performance.go
// Description: Render performance heuristics that can be judged from a
// single HTML response: document weight, blocking head scripts, oversized
// inline styles, and missing preconnect hints.

package analyzers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

const (
	// docSizeInfoThreshold starts the document weight conversation.
	docSizeInfoThreshold = 500 * 1024
	// docSizeWarnThreshold escalates it.
	docSizeWarnThreshold = 1024 * 1024
	// inlineStyleThreshold flags a single <style> block as oversized.
	inlineStyleThreshold = 50 * 1024
)

// Performance audits the homepage for cheap-to-detect render bottlenecks.
type Performance struct {
	logger *zap.Logger
}

// NewPerformance constructs the performance analyzer.
func NewPerformance(logger *zap.Logger) *Performance {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Performance{logger: logger.Named("performance")}
}

func (a *Performance) Name() string               { return "performance" }
func (a *Performance) Category() schemas.Category { return schemas.CategoryPerformance }

// Analyze runs the four checks against the cached or freshly fetched
// homepage.
func (a *Performance) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	html, _, err := ac.EnsureHomepage(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := parse.NewDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parsing homepage HTML: %w", err)
	}
	pageURL := ac.FinalURL()

	var findings []schemas.Finding
	findings = append(findings, a.checkDocumentSize(len(html), pageURL)...)
	findings = append(findings, a.checkBlockingScripts(doc, pageURL)...)
	findings = append(findings, a.checkInlineStyles(doc, pageURL)...)
	findings = append(findings, a.checkPreconnects(doc, ac, pageURL)...)
	return findings, nil
}

// checkDocumentSize reports only the highest tier crossed.
func (a *Performance) checkDocumentSize(size int, pageURL string) []schemas.Finding {
	details := map[string]any{"bytes": size}
	switch {
	case size > docSizeWarnThreshold:
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodePerfVeryLargeDocument,
			schemas.SeverityWarning,
			schemas.CategoryPerformance,
			fmt.Sprintf("HTML document is %dKB", size/1024),
			"Documents past 1MB take multiple round trips to download and delay every render milestone, most visibly on mobile.",
			"Trim server-rendered payloads, paginate long content, and move repeated markup into CSS or templates.",
		).WithDetails(details).WithURL(pageURL)}
	case size > docSizeInfoThreshold:
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodePerfLargeDocument,
			schemas.SeverityInfo,
			schemas.CategoryPerformance,
			fmt.Sprintf("HTML document is %dKB", size/1024),
			"Documents past 500KB start to slow first paint on slower connections.",
			"Audit the document for embedded data blobs or duplicated markup.",
		).WithDetails(details).WithURL(pageURL)}
	}
	return nil
}

// checkBlockingScripts flags each head script that delays first render.
func (a *Performance) checkBlockingScripts(doc *parse.Document, pageURL string) []schemas.Finding {
	var findings []schemas.Finding
	for _, script := range doc.HeadScripts() {
		if !script.IsBlocking() {
			continue
		}
		findings = append(findings, schemas.NewFinding(
			schemas.CodePerfBlockingScript,
			schemas.SeverityWarning,
			schemas.CategoryPerformance,
			fmt.Sprintf("Render-blocking script in <head>: %s", script.Src),
			"A plain external script in <head> halts HTML parsing until it downloads and executes.",
			`Add defer (or async for independent scripts), or use type="module".`,
		).WithDetails(map[string]any{"src": script.Src}).WithURL(pageURL))
	}
	return findings
}

// checkInlineStyles flags each <style> block past the size threshold.
func (a *Performance) checkInlineStyles(doc *parse.Document, pageURL string) []schemas.Finding {
	var findings []schemas.Finding
	for i, style := range doc.InlineStyles() {
		if len(style) <= inlineStyleThreshold {
			continue
		}
		findings = append(findings, schemas.NewFinding(
			schemas.CodePerfLargeInlineStyle,
			schemas.SeverityWarning,
			schemas.CategoryPerformance,
			fmt.Sprintf("Inline <style> block %d is %dKB", i+1, len(style)/1024),
			"Oversized inline CSS bloats every page load since it cannot be cached separately from the document.",
			"Move large stylesheets to external files; keep only critical CSS inline.",
		).WithDetails(map[string]any{"block_index": i, "bytes": len(style)}).WithURL(pageURL))
	}
	return findings
}

// checkPreconnects collects third-party resource origins and reports the
// distinct ones lacking a preconnect or dns-prefetch hint, as one finding.
func (a *Performance) checkPreconnects(doc *parse.Document, ac *audit.Context, pageURL string) []schemas.Finding {
	hinted := map[string]bool{}
	for _, href := range doc.PreconnectOrigins() {
		if origin := originOf(ac.ResolveRef(href)); origin != "" {
			hinted[origin] = true
		}
	}

	own := originOf(ac.FinalURL())
	missing := map[string]bool{}
	for _, ref := range doc.ResourceRefs() {
		origin := originOf(ac.ResolveRef(ref.URL))
		if origin == "" || origin == own || hinted[origin] {
			continue
		}
		missing[origin] = true
	}
	if len(missing) == 0 {
		return nil
	}

	origins := make([]string, 0, len(missing))
	for o := range missing {
		origins = append(origins, o)
	}
	sort.Strings(origins)

	return []schemas.Finding{schemas.NewFinding(
		schemas.CodePerfMissingPreconnect,
		schemas.SeverityInfo,
		schemas.CategoryPerformance,
		fmt.Sprintf("%d third-party origin(s) without a preconnect hint", len(origins)),
		"Each new origin costs a DNS lookup, TCP handshake, and TLS negotiation before its first resource can load.",
		`Add <link rel="preconnect" href="..."> for origins on the critical path.`,
	).WithDetails(map[string]any{"origins": origins}).WithURL(pageURL)}
}

// originOf returns scheme://host for an absolute URL, "" otherwise.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + strings.ToLower(u.Host)
}
