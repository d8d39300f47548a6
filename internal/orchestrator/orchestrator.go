// File: internal/orchestrator/orchestrator.go
// Description: Manages the lifecycle of one audit run. It owns the shared
// audit context and the phase schedule; analyzers are injected fully built
// so the scheduling logic stays decoupled and testable.

package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/audit/analyzers"
	"github.com/seoscope/seoscope-cli/internal/config"
	"github.com/seoscope/seoscope-cli/internal/network"
)

// Orchestrator runs the audit phases and assembles the final report.
type Orchestrator struct {
	cfg    *config.Config
	logger *zap.Logger
	client *network.Client
	phases []audit.Phase
}

// New builds an Orchestrator with the standard phase schedule. Phase 1 has
// no prerequisites, phase 2 consumes the homepage and robots caches, phase 3
// consumes the sitemap URL cache and only exists when crawling is enabled.
func New(cfg *config.Config, logger *zap.Logger) (*Orchestrator, error) {
	if cfg == nil || logger == nil {
		return nil, fmt.Errorf("cannot initialize orchestrator with nil dependencies")
	}

	client := network.NewClient(cfg.Network, cfg.ResolveUserAgent(), logger)

	phases := []audit.Phase{
		{
			Name: "baseline",
			Analyzers: []audit.Analyzer{
				analyzers.NewRedirects(logger),
				analyzers.NewRobots(logger),
			},
		},
		{
			Name: "content",
			Analyzers: []audit.Analyzer{
				analyzers.NewSitemap(logger),
				analyzers.NewMetadata(logger),
				analyzers.NewFavicon(logger),
				analyzers.NewStructuredData(logger),
				analyzers.NewNextJS(logger),
				analyzers.NewHreflang(logger),
				analyzers.NewImages(logger),
				analyzers.NewSecurityHeaders(logger),
				analyzers.NewPerformance(logger),
			},
		},
	}
	if cfg.Crawl.Enabled {
		phases = append(phases, audit.Phase{
			Name:      "crawl",
			Analyzers: []audit.Analyzer{analyzers.NewCrawl(logger)},
		})
	}

	return &Orchestrator{
		cfg:    cfg,
		logger: logger.Named("orchestrator"),
		client: client,
		phases: phases,
	}, nil
}

// Run executes every phase in order and returns the assembled report. A
// failed analyzer is logged and dropped; Run itself fails only when the
// target URL cannot be normalized.
func (o *Orchestrator) Run(ctx context.Context) (*schemas.AuditReport, error) {
	start := time.Now()

	normalized, err := config.NormalizeTargetURL(o.cfg.Audit.TargetURL)
	if err != nil {
		return nil, fmt.Errorf("normalizing target URL: %w", err)
	}

	ac := audit.NewContext(o.cfg.Audit.TargetURL, normalized, o.client, o.logger)
	ac.Verbose = o.cfg.Audit.Verbose
	ac.RequestedPages = o.cfg.Audit.Pages
	ac.CrawlEnabled = o.cfg.Crawl.Enabled
	ac.CrawlPageLimit = o.cfg.Crawl.PageLimit
	ac.CrawlBatchSize = o.cfg.Crawl.BatchSize

	auditID := uuid.NewString()
	o.logger.Info("Starting audit",
		zap.String("auditID", auditID),
		zap.String("target", normalized),
		zap.Int("phases", len(o.phases)))

	var results []schemas.AnalyzerResult
	for _, phase := range o.phases {
		results = append(results, o.runPhase(ctx, phase, ac)...)
	}

	report := &schemas.AuditReport{
		AuditID:    auditID,
		URL:        normalized,
		Timestamp:  start.UTC(),
		DurationMs: time.Since(start).Milliseconds(),
		Summary:    schemas.Summarize(results),
		Results:    results,
	}

	o.logger.Info("Audit finished",
		zap.String("auditID", auditID),
		zap.Int64("durationMs", report.DurationMs),
		zap.Int("errors", report.Summary.Errors),
		zap.Int("warnings", report.Summary.Warnings))

	return report, nil
}

// runPhase launches every analyzer in the phase concurrently and waits for
// all of them to settle. Results come back in registration order regardless
// of completion order, keeping reports deterministic.
func (o *Orchestrator) runPhase(ctx context.Context, phase audit.Phase, ac *audit.Context) []schemas.AnalyzerResult {
	o.logger.Debug("Phase starting",
		zap.String("phase", phase.Name),
		zap.Int("analyzers", len(phase.Analyzers)))

	type outcome struct {
		findings []schemas.Finding
		err      error
	}
	outcomes := make([]outcome, len(phase.Analyzers))

	var wg sync.WaitGroup
	for i, an := range phase.Analyzers {
		wg.Add(1)
		go func(i int, an audit.Analyzer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = outcome{err: fmt.Errorf("analyzer panicked: %v", r)}
				}
			}()
			findings, err := an.Analyze(ctx, ac)
			outcomes[i] = outcome{findings: findings, err: err}
		}(i, an)
	}
	wg.Wait()

	results := make([]schemas.AnalyzerResult, 0, len(phase.Analyzers))
	for i, an := range phase.Analyzers {
		if outcomes[i].err != nil {
			// Keep-fulfilled policy: a partial report beats no report.
			o.logger.Warn("Analyzer failed, dropping its result",
				zap.String("analyzer", an.Name()),
				zap.Error(outcomes[i].err))
			continue
		}
		results = append(results, schemas.AnalyzerResult{
			Analyzer: an.Category(),
			Findings: outcomes[i].findings,
		})
	}

	o.logger.Debug("Phase finished", zap.String("phase", phase.Name))
	return results
}
