package schemas

import (
	"fmt"
	"time"
)

// -- Report Schemas --

// Severity classifies how serious a finding is. The values are lowercase so
// they serialize cleanly and sort naturally in downstream tooling.
type Severity string

// Constants defining the standard severity levels for findings.
const (
	SeverityError   Severity = "error"   // The page actively harms its own indexing or is misconfigured.
	SeverityWarning Severity = "warning" // Likely a problem, worth fixing.
	SeverityInfo    Severity = "info"    // Noteworthy observation, not necessarily wrong.
	SeverityPass    Severity = "pass"    // A check that was performed and came back clean.
)

// Category identifies which analyzer family produced a finding.
type Category string

// Constants for the analyzer categories. Each analyzer owns exactly one.
const (
	CategoryRedirects      Category = "redirects"
	CategoryRobots         Category = "robots"
	CategorySitemap        Category = "sitemap"
	CategoryMetadata       Category = "metadata"
	CategoryFavicon        Category = "favicon"
	CategoryStructuredData Category = "structured-data"
	CategoryNextJS         Category = "nextjs"
	CategoryHreflang       Category = "hreflang"
	CategoryImages         Category = "images"
	CategorySecurity       Category = "security"
	CategoryPerformance    Category = "performance"
	CategoryCrawl          Category = "crawl"
)

// Finding is a single reported observation. It is immutable once produced:
// analyzers build findings through NewFinding and never modify them afterwards.
type Finding struct {
	Code        Code     `json:"code"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	Explanation string   `json:"explanation"`
	Suggestion  string   `json:"suggestion"`

	// Details is a free-form bag for machine consumers. Each code documents
	// its own keys (hop lists, missing field names, byte sizes).
	Details map[string]any `json:"details,omitempty"`

	// URL identifies the resource the finding concerns when it is not the
	// audited homepage (a sampled page, a sitemap entry, an alternate page).
	URL string `json:"url,omitempty"`
}

// NewFinding constructs a Finding and panics if any required field is empty.
// A finding with a blank message or suggestion is a programming error in the
// analyzer that produced it, not a runtime condition worth handling.
func NewFinding(code Code, severity Severity, category Category, message, explanation, suggestion string) Finding {
	for name, v := range map[string]string{
		"code":        string(code),
		"severity":    string(severity),
		"category":    string(category),
		"message":     message,
		"explanation": explanation,
		"suggestion":  suggestion,
	} {
		if v == "" {
			panic(fmt.Sprintf("schemas: finding %q constructed with empty %s", code, name))
		}
	}
	return Finding{
		Code:        code,
		Severity:    severity,
		Category:    category,
		Message:     message,
		Explanation: explanation,
		Suggestion:  suggestion,
	}
}

// WithURL returns a copy of the finding scoped to a specific resource.
func (f Finding) WithURL(url string) Finding {
	f.URL = url
	return f
}

// WithDetails returns a copy of the finding carrying auxiliary data.
func (f Finding) WithDetails(details map[string]any) Finding {
	f.Details = details
	return f
}

// AnalyzerResult groups the findings of one analyzer for one run.
// Produced once per analyzer per run, never mutated after creation.
type AnalyzerResult struct {
	Analyzer Category  `json:"analyzer"`
	Findings []Finding `json:"findings"`
}

// Summary holds the per-severity finding counts across all results.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Passed   int `json:"passed"`
}

// AuditReport is the terminal artifact of a run. Its JSON serialization is
// the canonical persisted form consumed by the renderers and by report
// diffing.
type AuditReport struct {
	AuditID    string           `json:"audit_id"`
	URL        string           `json:"url"`
	Timestamp  time.Time        `json:"timestamp"`
	DurationMs int64            `json:"duration_ms"`
	Summary    Summary          `json:"summary"`
	Results    []AnalyzerResult `json:"results"`
}

// Summarize recomputes severity counts from scratch in a single pass over
// every result. The summary is never maintained incrementally; recomputing it
// from the findings themselves means it cannot drift.
func Summarize(results []AnalyzerResult) Summary {
	var s Summary
	for _, r := range results {
		for _, f := range r.Findings {
			switch f.Severity {
			case SeverityError:
				s.Errors++
			case SeverityWarning:
				s.Warnings++
			case SeverityInfo:
				s.Info++
			case SeverityPass:
				s.Passed++
			}
		}
	}
	return s
}

// -- Redirect Chain Schemas --

// RedirectHop records a single redirect response in a chain.
type RedirectHop struct {
	URL      string `json:"url"`
	Status   int    `json:"status"`
	Location string `json:"location"`
}

// RedirectChain is the resolved redirect path from a starting URL to its
// terminal response. IsCircular is set when a previously visited URL
// reappears before the hop limit is exhausted.
type RedirectChain struct {
	Hops       []RedirectHop `json:"hops"`
	FinalURL   string        `json:"final_url"`
	IsCircular bool          `json:"is_circular"`
}
