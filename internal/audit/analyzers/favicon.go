// File: internal/audit/analyzers/favicon.go
package analyzers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

// Favicon checks the bare /favicon.ico file and the HTML icon declarations
// independently, then combines the two signals.
type Favicon struct {
	logger *zap.Logger
}

// NewFavicon constructs the favicon analyzer.
func NewFavicon(logger *zap.Logger) *Favicon {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Favicon{logger: logger.Named("favicon")}
}

func (a *Favicon) Name() string               { return "favicon" }
func (a *Favicon) Category() schemas.Category { return schemas.CategoryFavicon }

// Analyze probes /favicon.ico via HEAD and extracts <link rel*="icon">
// declarations from the homepage.
func (a *Favicon) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	faviconURL := ac.Origin() + "/favicon.ico"

	bareFileExists := false
	if probe, err := ac.Fetch.FetchHead(ctx, faviconURL); err == nil && probe.Status >= 200 && probe.Status < 300 {
		bareFileExists = true
	}

	var links []parse.FaviconLink
	if html, _, err := ac.EnsureHomepage(ctx); err == nil {
		if doc, err := parse.NewDocument(html); err == nil {
			links = doc.FaviconLinks()
		}
	} else {
		a.logger.Debug("homepage unavailable for favicon link extraction", zap.Error(err))
	}

	switch {
	case !bareFileExists && len(links) == 0:
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeFaviconMissing,
			schemas.SeverityWarning,
			schemas.CategoryFavicon,
			"No favicon found",
			"Neither /favicon.ico nor any <link rel=\"icon\"> exists. Browser tabs, bookmarks, and some search results show a blank icon.",
			"Add a favicon.ico at the site root and declare it with a <link rel=\"icon\"> tag.",
		).WithURL(faviconURL)}, nil

	case bareFileExists && len(links) == 0:
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeFaviconNotDeclared,
			schemas.SeverityInfo,
			schemas.CategoryFavicon,
			"favicon.ico exists but is not declared in HTML",
			"Browsers fall back to the well-known path, but an explicit link lets you serve modern formats and sizes.",
			"Declare the icon with <link rel=\"icon\" href=\"/favicon.ico\">.",
		).WithURL(faviconURL)}, nil
	}

	// Both signals present: flag a mix of .ico and non-.ico declarations as
	// potential redundancy, otherwise pass.
	icoCount, otherCount := 0, 0
	declared := make([]string, 0, len(links))
	for _, l := range links {
		declared = append(declared, l.Href)
		if strings.HasSuffix(strings.ToLower(l.Href), ".ico") {
			icoCount++
		} else {
			otherCount++
		}
	}

	if bareFileExists && icoCount > 0 && otherCount > 0 {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeFaviconMixedFormats,
			schemas.SeverityInfo,
			schemas.CategoryFavicon,
			"Both .ico and other icon formats declared",
			"Multiple icon declarations in mixed formats are usually fine, but redundant entries are worth a look.",
			"Keep one modern format (SVG or PNG) plus the .ico fallback; drop the rest.",
		).WithDetails(map[string]any{"links": declared}).WithURL(ac.FinalURL())}, nil
	}

	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeFaviconValid,
		schemas.SeverityPass,
		schemas.CategoryFavicon,
		"Favicon present",
		"The site serves a favicon and the homepage declares it.",
		"No action needed.",
	).WithDetails(map[string]any{"links": declared, "bare_file": bareFileExists}).WithURL(ac.FinalURL())}, nil
}
