// File: api/schemas/report_test.go
package schemas

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFindingPanicsOnMissingRequiredField(t *testing.T) {
	tests := []struct {
		name     string
		build    func()
	}{
		{
			name: "empty code",
			build: func() {
				NewFinding("", SeverityError, CategoryRobots, "m", "e", "s")
			},
		},
		{
			name: "empty message",
			build: func() {
				NewFinding(CodeRobotsMissing, SeverityWarning, CategoryRobots, "", "e", "s")
			},
		},
		{
			name: "empty explanation",
			build: func() {
				NewFinding(CodeRobotsMissing, SeverityWarning, CategoryRobots, "m", "", "s")
			},
		},
		{
			name: "empty suggestion",
			build: func() {
				NewFinding(CodeRobotsMissing, SeverityWarning, CategoryRobots, "m", "e", "")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, tc.build)
		})
	}
}

func TestFindingBuildersCopy(t *testing.T) {
	base := NewFinding(CodeRobotsMissing, SeverityWarning, CategoryRobots, "m", "e", "s")

	withURL := base.WithURL("https://example.com/robots.txt")
	assert.Empty(t, base.URL, "WithURL must not mutate the receiver")
	assert.Equal(t, "https://example.com/robots.txt", withURL.URL)

	withDetails := base.WithDetails(map[string]any{"k": "v"})
	assert.Nil(t, base.Details, "WithDetails must not mutate the receiver")
	assert.Equal(t, "v", withDetails.Details["k"])
}

func TestSummarizeCountsEverySeverity(t *testing.T) {
	results := []AnalyzerResult{
		{
			Analyzer: CategoryRobots,
			Findings: []Finding{
				NewFinding(CodeRobotsBlocksAll, SeverityError, CategoryRobots, "m", "e", "s"),
				NewFinding(CodeRobotsNoSitemap, SeverityInfo, CategoryRobots, "m", "e", "s"),
			},
		},
		{
			Analyzer: CategoryMetadata,
			Findings: []Finding{
				NewFinding(CodeTitleMissing, SeverityWarning, CategoryMetadata, "m", "e", "s"),
				NewFinding(CodeMetaNoindex, SeverityError, CategoryMetadata, "m", "e", "s"),
			},
		},
		{
			Analyzer: CategoryRedirects,
			Findings: []Finding{
				NewFinding(CodeRedirectNone, SeverityPass, CategoryRedirects, "m", "e", "s"),
			},
		},
		{Analyzer: CategoryImages}, // no findings at all
	}

	s := Summarize(results)
	assert.Equal(t, Summary{Errors: 2, Warnings: 1, Info: 1, Passed: 1}, s)
}

func TestSummarizeEmptyResults(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestReportJSONRoundTrip(t *testing.T) {
	report := &AuditReport{
		AuditID:    "b2c3f1de-0000-4000-8000-000000000001",
		URL:        "https://example.com",
		Timestamp:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		DurationMs: 1234,
		Results: []AnalyzerResult{
			{
				Analyzer: CategorySitemap,
				Findings: []Finding{
					NewFinding(CodeSitemapMissing, SeverityWarning, CategorySitemap, "m", "e", "s").
						WithURL("https://example.com/sitemap.xml").
						WithDetails(map[string]any{"status": float64(404)}),
				},
			},
			{Analyzer: CategoryFavicon},
		},
	}
	report.Summary = Summarize(report.Results)

	var buf bytes.Buffer
	require.NoError(t, EncodeReport(&buf, report))

	decoded, err := DecodeReport(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(report, decoded); diff != "" {
		t.Fatalf("report changed across round-trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, report.Summary, Summarize(decoded.Results),
		"summary must be recomputable from decoded findings")
}
