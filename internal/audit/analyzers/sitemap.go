// File: internal/audit/analyzers/sitemap.go
// Description: Sitemap presence, validity, and sampled entry health. Also
// cross-checks robots.txt Sitemap directives against the resolved location
// and populates the Context's sitemap URL cache for crawl mode.

package analyzers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

// sitemapSampleSize caps how many urlset entries are probed with HEAD.
const sitemapSampleSize = 10

// Sitemap audits /sitemap.xml.
type Sitemap struct {
	logger *zap.Logger
}

// NewSitemap constructs the sitemap analyzer.
func NewSitemap(logger *zap.Logger) *Sitemap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sitemap{logger: logger.Named("sitemap")}
}

func (a *Sitemap) Name() string               { return "sitemap" }
func (a *Sitemap) Category() schemas.Category { return schemas.CategorySitemap }

// Analyze resolves the sitemap, validates it, samples entries, and
// cross-checks robots.txt directives.
func (a *Sitemap) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	defaultURL := ac.Origin() + "/sitemap.xml"
	var findings []schemas.Finding

	// The sitemap URL itself redirecting is worth flagging, but analysis
	// continues against wherever it lands.
	resolvedURL := defaultURL
	chain, err := ac.Fetch.FollowRedirectChain(ctx, defaultURL)
	if err == nil && len(chain.Hops) > 0 {
		resolvedURL = chain.FinalURL
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSitemapRedirected,
			schemas.SeverityWarning,
			schemas.CategorySitemap,
			"sitemap.xml redirects to another location",
			"Crawlers follow the redirect, but a sitemap URL that moves around suggests the canonical location is not being maintained.",
			"Serve the sitemap directly at /sitemap.xml or update robots.txt to point at its real location.",
		).WithDetails(map[string]any{"final_url": chain.FinalURL}).WithURL(defaultURL))
	}

	page, err := ac.Fetch.FetchFollowingRedirects(ctx, resolvedURL)
	if err != nil || page.Status != 200 {
		if err != nil {
			a.logger.Debug("sitemap fetch failed", zap.String("url", resolvedURL), zap.Error(err))
		}
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSitemapMissing,
			schemas.SeverityWarning,
			schemas.CategorySitemap,
			"sitemap.xml is missing",
			"Without a sitemap, crawlers discover pages only through links, which delays indexing of deep or new content.",
			"Generate a sitemap.xml at the site root and declare it in robots.txt.",
		).WithURL(defaultURL))
		return findings, nil
	}

	doc, err := parse.ParseSitemap([]byte(page.Body))
	if err != nil {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSitemapInvalidXML,
			schemas.SeverityError,
			schemas.CategorySitemap,
			"sitemap.xml is not valid sitemap XML",
			"Crawlers discard sitemaps they cannot parse, so every URL listed in this file is invisible to them.",
			"Validate the file against the sitemaps.org schema and fix the XML.",
		).WithDetails(map[string]any{"parse_error": err.Error()}).WithURL(resolvedURL))
		return findings, nil
	}

	switch doc.Kind {
	case parse.SitemapKindIndex:
		findings = append(findings, a.analyzeIndex(ctx, ac, doc, resolvedURL)...)
	case parse.SitemapKindURLSet:
		findings = append(findings, a.analyzeURLSet(ctx, ac, doc, resolvedURL)...)
	}

	findings = append(findings, a.crossCheckRobots(ac, defaultURL, resolvedURL)...)
	return findings, nil
}

// analyzeIndex handles a sitemapindex document. Page URLs for crawl mode are
// taken from the FIRST child sitemap only; aggregating every child would
// change the crawl URL set, and the first child covers the common
// paginated-sitemap layout well enough.
func (a *Sitemap) analyzeIndex(ctx context.Context, ac *audit.Context, doc *parse.SitemapDocument, resolvedURL string) []schemas.Finding {
	findings := []schemas.Finding{schemas.NewFinding(
		schemas.CodeSitemapIndex,
		schemas.SeverityPass,
		schemas.CategorySitemap,
		fmt.Sprintf("Sitemap index with %d child sitemaps", len(doc.ChildSitemaps)),
		"The sitemap is an index document pointing at child sitemaps, the standard layout for larger sites.",
		"No action needed.",
	).WithDetails(map[string]any{"child_sitemaps": doc.ChildSitemaps}).WithURL(resolvedURL)}

	if len(doc.ChildSitemaps) == 0 {
		return findings
	}

	child := doc.ChildSitemaps[0]
	page, err := ac.Fetch.FetchFollowingRedirects(ctx, child)
	if err != nil || page.Status != 200 {
		// A failed child fetch leaves the crawl cache empty; crawl mode
		// simply has nothing to visit.
		a.logger.Debug("child sitemap fetch failed", zap.String("url", child), zap.Error(err))
		return findings
	}
	childDoc, err := parse.ParseSitemap([]byte(page.Body))
	if err != nil || childDoc.Kind != parse.SitemapKindURLSet {
		a.logger.Debug("child sitemap unusable", zap.String("url", child), zap.Error(err))
		return findings
	}

	ac.SetSitemapURLs(entryLocs(childDoc.Entries))
	return findings
}

// analyzeURLSet handles a urlset document: empty-set warning, sampled HEAD
// probes, and the aggregate pass when every sampled entry is healthy.
func (a *Sitemap) analyzeURLSet(ctx context.Context, ac *audit.Context, doc *parse.SitemapDocument, resolvedURL string) []schemas.Finding {
	if len(doc.Entries) == 0 {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeSitemapEmpty,
			schemas.SeverityWarning,
			schemas.CategorySitemap,
			"Sitemap contains no URLs",
			"An empty urlset tells crawlers there is nothing to index, which almost certainly contradicts the actual site.",
			"Regenerate the sitemap so it lists the site's indexable pages.",
		).WithURL(resolvedURL)}
	}

	ac.SetSitemapURLs(entryLocs(doc.Entries))

	sample := doc.Entries
	if len(sample) > sitemapSampleSize {
		sample = sample[:sitemapSampleSize]
	}

	var findings []schemas.Finding
	sampledErrors := 0
	for _, entry := range sample {
		probe, err := ac.Fetch.FetchHead(ctx, entry.Loc)
		if err != nil {
			// Transient network failure on one sample is skipped silently.
			a.logger.Debug("sitemap entry probe failed", zap.String("url", entry.Loc), zap.Error(err))
			continue
		}
		if probe.Status >= 400 {
			sampledErrors++
			findings = append(findings, schemas.NewFinding(
				schemas.CodeSitemapUrlError,
				schemas.SeverityWarning,
				schemas.CategorySitemap,
				fmt.Sprintf("Sitemap entry answers with %d", probe.Status),
				"URLs listed in the sitemap should resolve successfully; broken entries waste crawl budget and erode trust in the sitemap.",
				"Remove or fix this URL in the sitemap.",
			).WithDetails(map[string]any{"status": probe.Status}).WithURL(entry.Loc))
		}
	}

	if sampledErrors == 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSitemapUrlsOK,
			schemas.SeverityPass,
			schemas.CategorySitemap,
			fmt.Sprintf("Sampled %d of %d sitemap URLs, all healthy", len(sample), len(doc.Entries)),
			"Every sampled sitemap entry answered below 400, so the sitemap appears to reflect live pages.",
			"No action needed.",
		).WithDetails(map[string]any{
			"sampled": len(sample),
			"total":   len(doc.Entries),
		}).WithURL(resolvedURL))
	}

	return findings
}

// crossCheckRobots compares the Sitemap directives cached by the robots
// analyzer against the resolved sitemap location, by exact string match
// against either the default URL or the redirect chain's final URL.
func (a *Sitemap) crossCheckRobots(ac *audit.Context, defaultURL, resolvedURL string) []schemas.Finding {
	robotsTxt, ok := ac.RobotsTxt()
	if !ok {
		return nil
	}
	directives := parse.SitemapDirectives(robotsTxt)
	if len(directives) == 0 {
		return nil
	}

	for _, d := range directives {
		if d == defaultURL || d == resolvedURL {
			return nil
		}
	}

	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeSitemapRobotsMismatch,
		schemas.SeverityInfo,
		schemas.CategorySitemap,
		"robots.txt points at a different sitemap",
		"The Sitemap directive in robots.txt does not match the sitemap found at the conventional location. Crawlers will use the declared one.",
		"Align the robots.txt Sitemap directive with the sitemap actually being served.",
	).WithDetails(map[string]any{
		"declared": directives,
		"resolved": resolvedURL,
	}).WithURL(defaultURL)}
}

func entryLocs(entries []parse.SitemapEntry) []string {
	locs := make([]string, 0, len(entries))
	for _, e := range entries {
		locs = append(locs, e.Loc)
	}
	return locs
}
