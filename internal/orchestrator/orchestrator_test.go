// File: internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/config"
)

// stubAnalyzer lets phase scheduling be tested without network access.
type stubAnalyzer struct {
	name     string
	category schemas.Category
	fn       func(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error)
}

func (s *stubAnalyzer) Name() string               { return s.name }
func (s *stubAnalyzer) Category() schemas.Category { return s.category }
func (s *stubAnalyzer) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	return s.fn(ctx, ac)
}

func passFinding(code schemas.Code, category schemas.Category) schemas.Finding {
	return schemas.NewFinding(code, schemas.SeverityPass, category,
		"stub message", "stub explanation", "stub suggestion")
}

func stubOrchestrator(t *testing.T, phases ...audit.Phase) *Orchestrator {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Audit.TargetURL = "https://example.com"
	return &Orchestrator{
		cfg:    cfg,
		logger: zap.NewNop(),
		phases: phases,
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := config.NewDefaultConfig()
	_, err := New(nil, zap.NewNop())
	require.Error(t, err)
	_, err = New(cfg, nil)
	require.Error(t, err)
}

func TestNewCrawlPhaseIsOptIn(t *testing.T) {
	cfg := config.NewDefaultConfig()

	orch, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, orch.phases, 2)

	cfg.Crawl.Enabled = true
	orch, err = New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, orch.phases, 3)
	assert.Equal(t, "crawl", orch.phases[2].Name)
}

func TestRunPhaseKeepsFulfilledResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	phase := audit.Phase{
		Name: "mixed",
		Analyzers: []audit.Analyzer{
			&stubAnalyzer{name: "ok-1", category: schemas.CategoryRedirects,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					return []schemas.Finding{passFinding("first.ok", schemas.CategoryRedirects)}, nil
				}},
			&stubAnalyzer{name: "fails", category: schemas.CategoryMetadata,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					return nil, errors.New("upstream unreachable")
				}},
			&stubAnalyzer{name: "panics", category: schemas.CategoryImages,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					panic("nil dereference in stub")
				}},
			&stubAnalyzer{name: "ok-2", category: schemas.CategorySecurity,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					return []schemas.Finding{passFinding("second.ok", schemas.CategorySecurity)}, nil
				}},
		},
	}

	orch := stubOrchestrator(t, phase)
	report, err := orch.Run(context.Background())
	require.NoError(t, err, "a failed analyzer never fails the run")

	require.Len(t, report.Results, 2, "failed and panicked analyzers are dropped")
	assert.Equal(t, schemas.CategoryRedirects, report.Results[0].Analyzer)
	assert.Equal(t, schemas.CategorySecurity, report.Results[1].Analyzer)
}

func TestRunPhaseResultsFollowRegistrationOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	// The slow analyzer registers first and must still report first.
	phase := audit.Phase{
		Name: "ordering",
		Analyzers: []audit.Analyzer{
			&stubAnalyzer{name: "slow", category: schemas.CategoryRobots,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					time.Sleep(50 * time.Millisecond)
					return []schemas.Finding{passFinding("slow.ok", schemas.CategoryRobots)}, nil
				}},
			&stubAnalyzer{name: "fast", category: schemas.CategorySitemap,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					return []schemas.Finding{passFinding("fast.ok", schemas.CategorySitemap)}, nil
				}},
		},
	}

	orch := stubOrchestrator(t, phase)
	report, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, schemas.CategoryRobots, report.Results[0].Analyzer)
	assert.Equal(t, schemas.CategorySitemap, report.Results[1].Analyzer)
}

func TestRunPhasesExecuteSequentially(t *testing.T) {
	defer goleak.VerifyNone(t)

	var order []string
	mk := func(label string, category schemas.Category) *stubAnalyzer {
		return &stubAnalyzer{name: label, category: category,
			fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
				order = append(order, label)
				return nil, nil
			}}
	}

	orch := stubOrchestrator(t,
		audit.Phase{Name: "one", Analyzers: []audit.Analyzer{mk("p1", schemas.CategoryRobots)}},
		audit.Phase{Name: "two", Analyzers: []audit.Analyzer{mk("p2", schemas.CategorySitemap)}},
		audit.Phase{Name: "three", Analyzers: []audit.Analyzer{mk("p3", schemas.CategoryCrawl)}},
	)

	_, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, order)
}

func TestRunReportShape(t *testing.T) {
	phase := audit.Phase{
		Name: "shape",
		Analyzers: []audit.Analyzer{
			&stubAnalyzer{name: "findings", category: schemas.CategoryMetadata,
				fn: func(context.Context, *audit.Context) ([]schemas.Finding, error) {
					return []schemas.Finding{
						schemas.NewFinding("meta.err", schemas.SeverityError, schemas.CategoryMetadata, "m", "e", "s"),
						schemas.NewFinding("meta.warn", schemas.SeverityWarning, schemas.CategoryMetadata, "m", "e", "s"),
						passFinding("meta.ok", schemas.CategoryMetadata),
					}, nil
				}},
		},
	}

	orch := stubOrchestrator(t, phase)
	report, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.AuditID)
	assert.Equal(t, "https://example.com", report.URL)
	assert.False(t, report.Timestamp.IsZero())
	assert.Equal(t, 1, report.Summary.Errors)
	assert.Equal(t, 1, report.Summary.Warnings)
	assert.Equal(t, 0, report.Summary.Info)
	assert.Equal(t, 1, report.Summary.Passed)
}

func TestRunRejectsUnparseableTarget(t *testing.T) {
	orch := stubOrchestrator(t)
	orch.cfg.Audit.TargetURL = "   "

	_, err := orch.Run(context.Background())
	require.Error(t, err)
}

func TestRunEndToEndAgainstTestServer(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `<html><head><title>e2e</title></head><body></body></html>`)
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "User-agent: *\nDisallow:\nSitemap: %s/sitemap.xml\n", srv.URL)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>%s/</loc></url></urlset>`, srv.URL)
	})

	cfg := config.NewDefaultConfig()
	cfg.Audit.TargetURL = srv.URL

	orch, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	report, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, report.Results)
	categories := map[schemas.Category]bool{}
	total := 0
	for _, res := range report.Results {
		categories[res.Analyzer] = true
		total += len(res.Findings)
	}
	assert.True(t, categories[schemas.CategoryRobots], "robots analyzer reported")
	assert.True(t, categories[schemas.CategorySitemap], "sitemap analyzer reported")
	summed := report.Summary.Errors + report.Summary.Warnings + report.Summary.Info + report.Summary.Passed
	assert.Equal(t, total, summed, "the summary accounts for every finding")
	assert.False(t, categories[schemas.CategoryCrawl], "crawl stays opt-in")
}
