// File: internal/audit/analyzers/crawl.go
// Description: Opt-in crawl of sitemap URLs. Pages are audited in fixed
// size concurrent batches; one page failing never aborts the batch.

package analyzers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

const (
	// defaultCrawlPageLimit caps the crawl when no limit is configured.
	defaultCrawlPageLimit = 50
	// defaultCrawlBatchSize is how many pages are fetched concurrently.
	defaultCrawlBatchSize = 5
)

// Crawl audits the pages listed in the cached sitemap URL set.
type Crawl struct {
	logger *zap.Logger
	// progress receives one line per page before its fetch starts. Reports
	// go to stdout, so progress goes to stderr.
	progress io.Writer
}

// NewCrawl constructs the crawl analyzer.
func NewCrawl(logger *zap.Logger) *Crawl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawl{logger: logger.Named("crawl"), progress: os.Stderr}
}

func (a *Crawl) Name() string               { return "crawl" }
func (a *Crawl) Category() schemas.Category { return schemas.CategoryCrawl }

// Analyze crawls up to the configured page limit from the sitemap URL cache,
// in concurrent batches. Findings come back in sitemap order regardless of
// which page finished first.
func (a *Crawl) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	urls, ok := ac.SitemapURLs()
	if !ok || len(urls) == 0 {
		a.logger.Debug("no sitemap URLs cached, nothing to crawl")
		return nil, nil
	}

	limit := ac.CrawlPageLimit
	if limit <= 0 {
		limit = defaultCrawlPageLimit
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}

	batchSize := ac.CrawlBatchSize
	if batchSize <= 0 {
		batchSize = defaultCrawlBatchSize
	}

	perPage := make([][]schemas.Finding, len(urls))
	for start := 0; start < len(urls); start += batchSize {
		end := start + batchSize
		if end > len(urls) {
			end = len(urls)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			fmt.Fprintf(a.progress, "crawling [%d/%d] %s\n", i+1, len(urls), urls[i])
			g.Go(func() error {
				perPage[i] = a.auditPage(gctx, ac, urls[i])
				return nil
			})
		}
		// Workers never return errors; Wait only synchronizes the batch.
		_ = g.Wait()
	}

	var findings []schemas.Finding
	for _, page := range perPage {
		findings = append(findings, page...)
	}
	return findings, nil
}

// auditPage fetches one page and runs the per-page checks. Any fetch problem
// collapses into a single error finding for that page.
func (a *Crawl) auditPage(ctx context.Context, ac *audit.Context, pageURL string) []schemas.Finding {
	page, err := ac.Fetch.FetchFollowingRedirects(ctx, pageURL)
	if err != nil || page.Status < 200 || page.Status >= 300 {
		status := 0
		if err == nil {
			status = page.Status
		}
		a.logger.Debug("crawled page unavailable",
			zap.String("url", pageURL), zap.Int("status", status), zap.Error(err))
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeCrawlPageError,
			schemas.SeverityError,
			schemas.CategoryCrawl,
			"Page could not be fetched",
			"A URL listed in the sitemap failed to load, wasting crawl budget and possibly hiding a broken page.",
			"Fix the page or remove it from the sitemap.",
		).WithDetails(map[string]any{"status": status}).WithURL(pageURL)}
	}

	doc, err := parse.NewDocument(page.Body)
	if err != nil {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeCrawlPageError,
			schemas.SeverityError,
			schemas.CategoryCrawl,
			"Page HTML could not be parsed",
			"The response body did not parse as HTML, so none of its on-page signals can be evaluated.",
			"Verify the URL serves an HTML document.",
		).WithURL(pageURL)}
	}

	var findings []schemas.Finding

	// Meta and header noindex are independent signals; both can fire.
	if doc.HasNoindex() {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeCrawlPageNoindex,
			schemas.SeverityError,
			schemas.CategoryCrawl,
			"Sitemap page carries a noindex meta tag",
			"Listing a page in the sitemap while marking it noindex sends contradictory signals to crawlers.",
			"Remove the noindex directive or drop the URL from the sitemap.",
		).WithURL(pageURL))
	}
	if robotsHeaderNoindex(page.Headers) {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeCrawlPageHeaderNoindex,
			schemas.SeverityError,
			schemas.CategoryCrawl,
			"Sitemap page served with X-Robots-Tag noindex",
			"The response header excludes this page from the index even though the sitemap advertises it.",
			"Remove the header directive or drop the URL from the sitemap.",
		).WithURL(pageURL))
	}

	if _, ok := doc.Title(); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeCrawlPageTitleMissing,
			schemas.SeverityWarning,
			schemas.CategoryCrawl,
			"Page has no <title>",
			"Search results fall back to generated text for untitled pages, hurting click-through.",
			"Add a unique, descriptive title.",
		).WithURL(pageURL))
	}
	if _, ok := doc.MetaDescription(); !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeCrawlPageDescriptionMissing,
			schemas.SeverityInfo,
			schemas.CategoryCrawl,
			"Page has no meta description",
			"Without a description, snippets are generated from arbitrary page text.",
			"Add a meta description summarizing the page.",
		).WithURL(pageURL))
	}

	findings = append(findings, a.checkPageCanonical(doc, page.FinalURL, pageURL)...)

	if len(doc.JSONLDBlocks()) == 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeCrawlPageNoStructuredData,
			schemas.SeverityInfo,
			schemas.CategoryCrawl,
			"Page has no JSON-LD structured data",
			"The page cannot qualify for rich results without structured data.",
			"Add a JSON-LD block appropriate to the page type.",
		).WithURL(pageURL))
	}

	return findings
}

// checkPageCanonical compares the page's canonical (resolved against its own
// final URL) to that URL, ignoring a trailing slash. Missing and mismatched
// are mutually exclusive findings.
func (a *Crawl) checkPageCanonical(doc *parse.Document, finalURL, pageURL string) []schemas.Finding {
	canonical, ok := doc.CanonicalURL()
	if !ok {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeCrawlPageCanonicalMissing,
			schemas.SeverityWarning,
			schemas.CategoryCrawl,
			"Page has no canonical link",
			"Without a canonical, URL variants of this page compete with each other in the index.",
			`Add <link rel="canonical"> pointing at the page's preferred URL.`,
		).WithURL(pageURL)}
	}

	resolved := resolveAgainst(finalURL, canonical)
	if normalizeForComparison(resolved) == normalizeForComparison(finalURL) {
		return nil
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeCrawlPageCanonicalMismatch,
		schemas.SeverityWarning,
		schemas.CategoryCrawl,
		"Canonical points at a different URL",
		"This page tells crawlers a different URL is the preferred version, so this URL may be dropped from the index.",
		"Confirm the canonical target is intentional; self-reference unless consolidating duplicates.",
	).WithDetails(map[string]any{"canonical": resolved}).WithURL(pageURL)}
}

// robotsHeaderNoindex reports whether the x-robots-tag header carries a
// noindex directive. Header names are lower-cased by the fetch layer.
func robotsHeaderNoindex(headers map[string]string) bool {
	return strings.Contains(strings.ToLower(headers["x-robots-tag"]), "noindex")
}
