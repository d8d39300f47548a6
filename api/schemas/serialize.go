// File: api/schemas/serialize.go
// Description: Canonical JSON serialization of the audit report. The JSON
// form is the persisted artifact consumed by the renderers and by diffing.

package schemas

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// json is a jsoniter instance configured for stdlib-compatible output.
// jsoniter keeps report writing cheap even for large crawl-mode runs.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeReport writes the report as indented JSON to w.
func EncodeReport(w io.Writer, report *AuditReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding audit report: %w", err)
	}
	return nil
}

// DecodeReport parses a previously serialized report. The decoded report
// must reproduce identical summary counts and finding ordering; round-trip
// fidelity is part of the reporting contract.
func DecodeReport(r io.Reader) (*AuditReport, error) {
	var report AuditReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("decoding audit report: %w", err)
	}
	return &report, nil
}

// MarshalReport returns the canonical JSON bytes of the report.
func MarshalReport(report *AuditReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling audit report: %w", err)
	}
	return data, nil
}
