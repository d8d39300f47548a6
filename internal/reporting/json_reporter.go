// File: internal/reporting/json_reporter.go
package reporting

import (
	"io"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// JSONReporter emits the canonical JSON form of the report. This is the
// format consumed back by report diffing, so it must round-trip losslessly.
type JSONReporter struct {
	writer io.WriteCloser
}

// NewJSONReporter takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: writer}
}

// Write serializes the report as indented JSON.
func (r *JSONReporter) Write(report *schemas.AuditReport) error {
	return schemas.EncodeReport(r.writer, report)
}

// Close releases the underlying writer.
func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
