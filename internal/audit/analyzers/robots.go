// File: internal/audit/analyzers/robots.go
package analyzers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

// Robots fetches and audits /robots.txt. On success it caches the raw text
// on the Context so the sitemap analyzer can cross-check Sitemap directives
// without refetching.
type Robots struct {
	logger *zap.Logger
}

// NewRobots constructs the robots analyzer.
func NewRobots(logger *zap.Logger) *Robots {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Robots{logger: logger.Named("robots")}
}

func (a *Robots) Name() string               { return "robots" }
func (a *Robots) Category() schemas.Category { return schemas.CategoryRobots }

// Analyze fetches robots.txt. Absence (non-200 or network failure) yields a
// single RobotsMissing warning and short-circuits.
func (a *Robots) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	robotsURL := ac.Origin() + "/robots.txt"

	page, err := ac.Fetch.FetchFollowingRedirects(ctx, robotsURL)
	if err != nil || page.Status != 200 {
		if err != nil {
			a.logger.Debug("robots.txt fetch failed", zap.String("url", robotsURL), zap.Error(err))
		}
		f := schemas.NewFinding(
			schemas.CodeRobotsMissing,
			schemas.SeverityWarning,
			schemas.CategoryRobots,
			"robots.txt is missing",
			"Without robots.txt, crawlers apply their own defaults and you lose the standard place to declare sitemaps and crawl rules.",
			"Publish a robots.txt at the site root, even a permissive one, and declare your sitemap in it.",
		).WithURL(robotsURL)
		return []schemas.Finding{f}, nil
	}

	ac.SetRobotsTxt(page.Body)

	robots := parse.ParseRobots(page.Body)
	var findings []schemas.Finding

	for _, group := range robots.Groups {
		if group.AppliesToGooglebot() && group.BlocksAll() {
			findings = append(findings, schemas.NewFinding(
				schemas.CodeRobotsBlocksAll,
				schemas.SeverityError,
				schemas.CategoryRobots,
				"robots.txt blocks the entire site for "+strings.Join(group.UserAgents, ", "),
				"A Disallow: / rule for this user agent prevents the whole site from being crawled, which removes it from search results over time.",
				"Remove the blanket Disallow rule or scope it to the paths that genuinely need hiding.",
			).WithDetails(map[string]any{
				"user_agents": group.UserAgents,
				"disallow":    group.Disallow,
			}).WithURL(robotsURL))
		}
	}

	if len(robots.Sitemaps) == 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeRobotsNoSitemap,
			schemas.SeverityInfo,
			schemas.CategoryRobots,
			"robots.txt declares no Sitemap",
			"A Sitemap directive is the cheapest way to tell every crawler where the sitemap lives.",
			"Add a line like 'Sitemap: "+ac.Origin()+"/sitemap.xml' to robots.txt.",
		).WithURL(robotsURL))
	}

	if len(findings) == 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeRobotsValid,
			schemas.SeverityPass,
			schemas.CategoryRobots,
			"robots.txt present and well formed",
			"The file parses cleanly, declares a sitemap, and does not block major crawlers from the site.",
			"No action needed.",
		).WithURL(robotsURL))
	}

	return findings, nil
}
