// File: internal/audit/analyzers/performance_test.go
package analyzers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

func TestPerformanceSmallCleanPage(t *testing.T) {
	srv := serveHomepage(t, `<html><head>
<script src="/app.js" defer></script>
<style>body{margin:0}</style>
</head><body></body></html>`, nil)
	ac := newTestContext(t, srv)

	findings, err := NewPerformance(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestPerformanceDocumentSizeTiers(t *testing.T) {
	t.Run("past 500KB is informational", func(t *testing.T) {
		padding := strings.Repeat("x", 600*1024)
		srv := serveHomepage(t, "<html><body>"+padding+"</body></html>", nil)
		ac := newTestContext(t, srv)

		findings, err := NewPerformance(nil).Analyze(context.Background(), ac)
		require.NoError(t, err)

		byCode := findingsByCode(findings)
		require.Len(t, byCode[schemas.CodePerfLargeDocument], 1)
		assert.Empty(t, byCode[schemas.CodePerfVeryLargeDocument], "only the highest tier is reported")
	})

	t.Run("past 1MB is a warning", func(t *testing.T) {
		padding := strings.Repeat("x", 1100*1024)
		srv := serveHomepage(t, "<html><body>"+padding+"</body></html>", nil)
		ac := newTestContext(t, srv)

		findings, err := NewPerformance(nil).Analyze(context.Background(), ac)
		require.NoError(t, err)

		byCode := findingsByCode(findings)
		require.Len(t, byCode[schemas.CodePerfVeryLargeDocument], 1)
		assert.Equal(t, schemas.SeverityWarning, byCode[schemas.CodePerfVeryLargeDocument][0].Severity)
		assert.Empty(t, byCode[schemas.CodePerfLargeDocument])
	})
}

func TestPerformanceBlockingScripts(t *testing.T) {
	srv := serveHomepage(t, `<html><head>
<script src="/blocking.js"></script>
<script src="/deferred.js" defer></script>
<script src="/async.js" async></script>
<script type="module" src="/mod.js"></script>
</head><body><script src="/body.js"></script></body></html>`, nil)
	ac := newTestContext(t, srv)

	findings, err := NewPerformance(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodePerfBlockingScript], 1, "only the plain head script blocks")
	assert.Equal(t, "/blocking.js", byCode[schemas.CodePerfBlockingScript][0].Details["src"])
}

func TestPerformanceLargeInlineStyle(t *testing.T) {
	bigCSS := ".x{color:red}" + strings.Repeat("/*pad*/", 10*1024)
	srv := serveHomepage(t, `<html><head>
<style>body{margin:0}</style>
<style>`+bigCSS+`</style>
</head></html>`, nil)
	ac := newTestContext(t, srv)

	findings, err := NewPerformance(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodePerfLargeInlineStyle], 1)
	f := byCode[schemas.CodePerfLargeInlineStyle][0]
	assert.Equal(t, schemas.SeverityWarning, f.Severity)
	assert.EqualValues(t, 1, f.Details["block_index"], "the small first block is fine")
}

func TestPerformanceMissingPreconnect(t *testing.T) {
	srv := serveHomepage(t, `<html><head>
<link rel="preconnect" href="https://fonts.example">
<link rel="stylesheet" href="https://fonts.example/css2?family=Inter">
<script src="https://cdn.example/lib.js" defer></script>
<script src="https://cdn.example/other.js" defer></script>
<link rel="stylesheet" href="/local.css">
</head></html>`, nil)
	ac := newTestContext(t, srv)

	findings, err := NewPerformance(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodePerfMissingPreconnect], 1)
	f := byCode[schemas.CodePerfMissingPreconnect][0]
	assert.Equal(t, schemas.SeverityInfo, f.Severity)
	assert.Equal(t, []string{"https://cdn.example"}, f.Details["origins"],
		"hinted and same-origin resources are excluded; duplicates collapse")
}
