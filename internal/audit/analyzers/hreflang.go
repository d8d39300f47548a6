// File: internal/audit/analyzers/hreflang.go
// Description: International targeting checks: hreflang syntax, self
// reference, x-default, duplicates, and reciprocal links on alternates.

package analyzers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

// reciprocalCheckCap bounds how many alternate pages are fetched for the
// reciprocal link check.
const reciprocalCheckCap = 10

// hreflangPattern matches a two-letter language with an optional two-letter
// region. Values are lower-cased on extraction, so the pattern is too.
var hreflangPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2})?$`)

// Hreflang audits the alternate-language link set of the homepage.
type Hreflang struct {
	logger *zap.Logger
}

// NewHreflang constructs the hreflang analyzer.
func NewHreflang(logger *zap.Logger) *Hreflang {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hreflang{logger: logger.Named("hreflang")}
}

func (a *Hreflang) Name() string               { return "hreflang" }
func (a *Hreflang) Category() schemas.Category { return schemas.CategoryHreflang }

// Analyze extracts hreflang links and validates the cluster. A site with no
// hreflang markup at all gets a single informational finding; most sites are
// single-locale and that is fine.
func (a *Hreflang) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	html, _, err := ac.EnsureHomepage(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := parse.NewDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parsing homepage HTML: %w", err)
	}

	links := doc.HreflangLinks()
	pageURL := ac.FinalURL()

	if len(links) == 0 {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeHreflangNone,
			schemas.SeverityInfo,
			schemas.CategoryHreflang,
			"No hreflang annotations",
			"The page declares no alternate-language versions. Expected for single-locale sites; required markup once translations exist.",
			"If the site has language variants, add reciprocal hreflang links for each.",
		).WithURL(pageURL)}, nil
	}

	var findings []schemas.Finding
	findings = append(findings, a.validateCodes(links, pageURL)...)
	findings = append(findings, a.checkSelfReference(links, ac)...)
	findings = append(findings, a.checkXDefault(links, pageURL)...)
	findings = append(findings, a.checkDuplicates(links, pageURL)...)
	findings = append(findings, a.checkReciprocals(ctx, links, ac)...)
	return findings, nil
}

// validateCodes flags every hreflang value that is neither x-default nor a
// valid language(-region) code.
func (a *Hreflang) validateCodes(links []parse.HreflangLink, pageURL string) []schemas.Finding {
	var findings []schemas.Finding
	for _, l := range links {
		if l.Hreflang == "x-default" {
			continue
		}
		if !hreflangPattern.MatchString(l.Hreflang) {
			findings = append(findings, schemas.NewFinding(
				schemas.CodeHreflangInvalidCode,
				schemas.SeverityError,
				schemas.CategoryHreflang,
				fmt.Sprintf("Invalid hreflang value %q", l.Hreflang),
				"Search engines ignore hreflang annotations they cannot parse, breaking the whole alternate cluster for this entry.",
				"Use an ISO 639-1 language code, optionally followed by an ISO 3166-1 region (for example en, en-us, fr-ca).",
			).WithDetails(map[string]any{"hreflang": l.Hreflang, "href": l.Href}).WithURL(pageURL))
		}
	}
	return findings
}

// checkSelfReference verifies the cluster contains an entry pointing back at
// the current page. Comparison ignores a trailing slash, except for the bare
// root where the slash is the path.
func (a *Hreflang) checkSelfReference(links []parse.HreflangLink, ac *audit.Context) []schemas.Finding {
	self := normalizeForComparison(ac.NormalizedURL)
	for _, l := range links {
		if normalizeForComparison(ac.ResolveRef(l.Href)) == self {
			return nil
		}
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeHreflangMissingSelfRef,
		schemas.SeverityWarning,
		schemas.CategoryHreflang,
		"hreflang cluster lacks a self-referencing entry",
		"Google requires each page to list itself among its alternates; without the self entry the cluster may be discarded.",
		"Add an hreflang link whose href is this page's own URL.",
	).WithURL(ac.FinalURL())}
}

// checkXDefault verifies an x-default entry exists.
func (a *Hreflang) checkXDefault(links []parse.HreflangLink, pageURL string) []schemas.Finding {
	for _, l := range links {
		if l.Hreflang == "x-default" {
			return nil
		}
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeHreflangMissingXDefault,
		schemas.SeverityWarning,
		schemas.CategoryHreflang,
		"No x-default hreflang entry",
		"Without x-default, users outside every declared locale get an arbitrary version instead of your chosen fallback.",
		`Add <link rel="alternate" hreflang="x-default" href="..."> pointing at the fallback page.`,
	).WithURL(pageURL)}
}

// checkDuplicates flags hreflang values declared more than once.
func (a *Hreflang) checkDuplicates(links []parse.HreflangLink, pageURL string) []schemas.Finding {
	seen := map[string]bool{}
	reported := map[string]bool{}
	var findings []schemas.Finding
	for _, l := range links {
		if seen[l.Hreflang] && !reported[l.Hreflang] {
			reported[l.Hreflang] = true
			findings = append(findings, schemas.NewFinding(
				schemas.CodeHreflangDuplicate,
				schemas.SeverityWarning,
				schemas.CategoryHreflang,
				fmt.Sprintf("hreflang %q declared more than once", l.Hreflang),
				"Duplicate declarations for the same locale are ambiguous; search engines pick one arbitrarily.",
				"Keep exactly one hreflang entry per locale.",
			).WithDetails(map[string]any{"hreflang": l.Hreflang}).WithURL(pageURL))
		}
		seen[l.Hreflang] = true
	}
	return findings
}

// checkReciprocals fetches up to reciprocalCheckCap non-self, non-x-default
// alternates and verifies each declares an hreflang link back to this page.
// A fetch failure is swallowed: an unreachable alternate is a different
// problem from a missing return link.
func (a *Hreflang) checkReciprocals(ctx context.Context, links []parse.HreflangLink, ac *audit.Context) []schemas.Finding {
	self := normalizeForComparison(ac.NormalizedURL)

	var alternates []parse.HreflangLink
	for _, l := range links {
		if l.Hreflang == "x-default" {
			continue
		}
		if normalizeForComparison(ac.ResolveRef(l.Href)) == self {
			continue
		}
		alternates = append(alternates, l)
		if len(alternates) == reciprocalCheckCap {
			break
		}
	}

	var findings []schemas.Finding
	for _, alt := range alternates {
		altURL := ac.ResolveRef(alt.Href)
		page, err := ac.Fetch.FetchFollowingRedirects(ctx, altURL)
		if err != nil || page.Status != 200 {
			a.logger.Debug("alternate page unavailable, skipping reciprocal check",
				zap.String("url", altURL), zap.Error(err))
			continue
		}
		altDoc, err := parse.NewDocument(page.Body)
		if err != nil {
			continue
		}

		reciprocal := false
		for _, back := range altDoc.HreflangLinks() {
			if normalizeForComparison(resolveAgainst(altURL, back.Href)) == self {
				reciprocal = true
				break
			}
		}
		if !reciprocal {
			findings = append(findings, schemas.NewFinding(
				schemas.CodeHreflangMissingReciprocal,
				schemas.SeverityError,
				schemas.CategoryHreflang,
				fmt.Sprintf("Alternate %q does not link back", alt.Hreflang),
				"hreflang only works when both pages point at each other; one-way annotations are ignored entirely.",
				"Add an hreflang link on the alternate page pointing back at this page.",
			).WithDetails(map[string]any{"hreflang": alt.Hreflang}).WithURL(altURL))
		}
	}
	return findings
}

// normalizeForComparison canonicalizes a URL for equality tests: lower-cased
// host, trailing slash stripped from every path except the bare root.
func normalizeForComparison(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// resolveAgainst resolves ref relative to base, falling back to ref as-is.
func resolveAgainst(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
