// File: internal/reporting/markdown_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// MarkdownReporter renders a report as a Markdown document, suitable for
// pasting into issues or publishing from CI.
type MarkdownReporter struct {
	writer io.WriteCloser
}

// NewMarkdownReporter takes ownership of the writer.
func NewMarkdownReporter(writer io.WriteCloser) *MarkdownReporter {
	return &MarkdownReporter{writer: writer}
}

// Write renders the report with one section per analyzer and a finding table
// in each.
func (r *MarkdownReporter) Write(report *schemas.AuditReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# SEO Audit Report\n\n")
	fmt.Fprintf(&b, "- **URL:** %s\n", report.URL)
	fmt.Fprintf(&b, "- **Audit ID:** `%s`\n", report.AuditID)
	fmt.Fprintf(&b, "- **Date:** %s\n", report.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Duration:** %dms\n\n", report.DurationMs)

	s := report.Summary
	fmt.Fprintf(&b, "**%d errors / %d warnings / %d info / %d passed**\n\n",
		s.Errors, s.Warnings, s.Info, s.Passed)

	for _, result := range report.Results {
		fmt.Fprintf(&b, "## %s\n\n", result.Analyzer)
		if len(result.Findings) == 0 {
			b.WriteString("_No findings._\n\n")
			continue
		}
		b.WriteString("| Severity | Finding | Suggestion |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range result.Findings {
			message := f.Message
			if f.URL != "" {
				message = fmt.Sprintf("%s (`%s`)", f.Message, f.URL)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				strings.ToUpper(string(f.Severity)), escapePipes(message), escapePipes(f.Suggestion))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// Close releases the underlying writer.
func (r *MarkdownReporter) Close() error {
	return r.writer.Close()
}

// escapePipes keeps cell content from breaking the table layout.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
