// File: internal/reporting/diff.go
// Description: Rendering of a report-to-report comparison. The diff itself
// is computed in api/schemas; this file only presents it.

package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// LoadReport reads a previously persisted JSON report from disk.
func LoadReport(path string) (*schemas.AuditReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	defer f.Close()
	return schemas.DecodeReport(f)
}

// WriteDiff renders a diff as plain text: counts first, then the new and
// resolved findings in full. Unchanged findings are summarized as a count
// only; repeating them adds nothing the current report does not already say.
func WriteDiff(w io.Writer, diff *schemas.ReportDiff) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%d new, %d resolved, %d unchanged\n\n",
		len(diff.New), len(diff.Resolved), len(diff.Unchanged))

	if len(diff.New) > 0 {
		b.WriteString("New findings:\n")
		for _, f := range diff.New {
			writeDiffLine(&b, "+", f)
		}
		b.WriteString("\n")
	}
	if len(diff.Resolved) > 0 {
		b.WriteString("Resolved findings:\n")
		for _, f := range diff.Resolved {
			writeDiffLine(&b, "-", f)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDiffLine(b *strings.Builder, marker string, f schemas.Finding) {
	if f.URL != "" {
		fmt.Fprintf(b, "  %s [%s] %s (%s)\n", marker, f.Severity, f.Message, f.URL)
		return
	}
	fmt.Fprintf(b, "  %s [%s] %s\n", marker, f.Severity, f.Message)
}
