// File: internal/reporting/console_reporter.go
// Description: Human-oriented colored terminal rendering of a report.

package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// ANSI escape sequences used by the console renderer.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
)

// ConsoleReporter renders a report for terminals. Verbose mode adds the
// explanation and suggestion under each finding; colors are dropped when the
// output is not a terminal-bound stream.
type ConsoleReporter struct {
	writer  io.WriteCloser
	verbose bool
	color   bool
}

// NewConsoleReporter takes ownership of the writer. colorize should be true
// only for stdout; file output stays plain.
func NewConsoleReporter(writer io.WriteCloser, verbose, colorize bool) *ConsoleReporter {
	return &ConsoleReporter{writer: writer, verbose: verbose, color: colorize}
}

// Write renders the full report grouped by analyzer.
func (r *ConsoleReporter) Write(report *schemas.AuditReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%sSEO audit: %s%s\n", r.paint(ansiBold), report.URL, r.paint(ansiReset))
	fmt.Fprintf(&b, "%saudit %s, completed in %dms%s\n\n",
		r.paint(ansiDim), report.AuditID, report.DurationMs, r.paint(ansiReset))

	for _, result := range report.Results {
		fmt.Fprintf(&b, "%s[%s]%s\n", r.paint(ansiBold), result.Analyzer, r.paint(ansiReset))
		if len(result.Findings) == 0 {
			fmt.Fprintf(&b, "  %sno findings%s\n", r.paint(ansiDim), r.paint(ansiReset))
		}
		for _, f := range result.Findings {
			fmt.Fprintf(&b, "  %s %s\n", r.severityTag(f.Severity), f.Message)
			if f.URL != "" {
				fmt.Fprintf(&b, "    %s%s%s\n", r.paint(ansiDim), f.URL, r.paint(ansiReset))
			}
			if r.verbose {
				if f.Explanation != "" {
					fmt.Fprintf(&b, "    %s\n", f.Explanation)
				}
				if f.Suggestion != "" {
					fmt.Fprintf(&b, "    fix: %s\n", f.Suggestion)
				}
			}
		}
		b.WriteString("\n")
	}

	s := report.Summary
	fmt.Fprintf(&b, "%s%d errors, %d warnings, %d info, %d passed%s\n",
		r.paint(ansiBold), s.Errors, s.Warnings, s.Info, s.Passed, r.paint(ansiReset))

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// Close releases the underlying writer.
func (r *ConsoleReporter) Close() error {
	return r.writer.Close()
}

func (r *ConsoleReporter) severityTag(s schemas.Severity) string {
	switch s {
	case schemas.SeverityError:
		return r.paint(ansiRed) + "ERROR" + r.paint(ansiReset)
	case schemas.SeverityWarning:
		return r.paint(ansiYellow) + "WARN " + r.paint(ansiReset)
	case schemas.SeverityInfo:
		return r.paint(ansiCyan) + "INFO " + r.paint(ansiReset)
	case schemas.SeverityPass:
		return r.paint(ansiGreen) + "PASS " + r.paint(ansiReset)
	default:
		return string(s)
	}
}

func (r *ConsoleReporter) paint(code string) string {
	if !r.color {
		return ""
	}
	return code
}
