// File: internal/audit/analyzers/helpers_test.go
package analyzers

import (
	"net/http/httptest"
	"testing"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/config"
	"github.com/seoscope/seoscope-cli/internal/network"
)

// newTestContext builds an audit context pointed at a test server.
func newTestContext(t *testing.T, srv *httptest.Server) *audit.Context {
	t.Helper()
	client := network.NewClient(config.NetworkConfig{TimeoutMs: 5000}, "seoscope-test/1.0", nil)
	return audit.NewContext(srv.URL, srv.URL, client, nil)
}

// findingsByCode indexes findings for presence assertions.
func findingsByCode(findings []schemas.Finding) map[schemas.Code][]schemas.Finding {
	byCode := make(map[schemas.Code][]schemas.Finding)
	for _, f := range findings {
		byCode[f.Code] = append(byCode[f.Code], f)
	}
	return byCode
}

// countSeverity tallies findings of one severity.
func countSeverity(findings []schemas.Finding, severity schemas.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == severity {
			n++
		}
	}
	return n
}
