// File: internal/audit/analyzer.go
package audit

import (
	"context"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// Analyzer is one independent check module. Analyzers must be safe to run
// concurrently with their phase siblings; the only shared mutable state is
// the Context cache, which is internally synchronized.
type Analyzer interface {
	// Name identifies the analyzer in logs and in the report.
	Name() string
	// Category is the finding category the analyzer owns.
	Category() schemas.Category
	// Analyze inspects the target and returns findings. A returned error
	// drops the analyzer's result from the report; recoverable sub-check
	// failures must be absorbed inside Analyze instead.
	Analyze(ctx context.Context, ac *Context) ([]schemas.Finding, error)
}

// Phase groups analyzers that may run concurrently. Phases execute strictly
// in order: phase 1 (robots, redirects) has no prerequisites; phase 2 needs
// homepage HTML/headers or cached robots content; phase 3 (crawl) needs the
// sitemap URL cache populated by phase 2.
type Phase struct {
	Name      string
	Analyzers []Analyzer
}
