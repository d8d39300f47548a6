// File: internal/reporting/reporter.go
// Description: Report rendering. A Reporter takes ownership of its writer;
// the factory maps a format name to a concrete renderer.

package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// Reporter writes a finished audit report to an output.
type Reporter interface {
	// Write renders one report.
	Write(report *schemas.AuditReport) error
	// Close finalizes the report and releases the underlying writer.
	Close() error
}

// nopWriteCloser wraps an io.Writer with a no-op Close, used for stdout.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for the given format. An empty or "stdout" output
// path writes to standard output; anything else creates a file.
func New(format, outputPath string, verbose bool) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "json":
		return NewJSONReporter(writer), nil
	case "console":
		return NewConsoleReporter(writer, verbose, isStdOut), nil
	case "markdown":
		return NewMarkdownReporter(writer), nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
