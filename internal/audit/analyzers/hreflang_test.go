// File: internal/audit/analyzers/hreflang_test.go
package analyzers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

func hreflangHead(entries ...[2]string) string {
	out := "<html><head>"
	for _, e := range entries {
		out += fmt.Sprintf(`<link rel="alternate" hreflang="%s" href="%s">`, e[0], e[1])
	}
	return out + "</head><body></body></html>"
}

func TestHreflangNoneIsSingleInfo(t *testing.T) {
	srv := serveHomepage(t, "<html><head></head></html>", nil)
	ac := newTestContext(t, srv)

	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, schemas.CodeHreflangNone, findings[0].Code)
	assert.Equal(t, schemas.SeverityInfo, findings[0].Severity)
}

func TestHreflangWellFormedCluster(t *testing.T) {
	// Homepage lists itself, a French alternate, and x-default; the alternate
	// links back. Nothing to report.
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead(
			[2]string{"en", srv.URL + "/"},
			[2]string{"fr", srv.URL + "/fr"},
			[2]string{"x-default", srv.URL + "/"},
		))
	})
	mux.HandleFunc("/fr", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead(
			[2]string{"fr", srv.URL + "/fr"},
			[2]string{"en", srv.URL + "/"},
			[2]string{"x-default", srv.URL + "/"},
		))
	})

	ac := newTestContext(t, srv)
	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestHreflangInvalidCode(t *testing.T) {
	srv := serveHomepage(t, hreflangHead(
		[2]string{"english", "/en"},
		[2]string{"x-default", "/"},
	), nil)
	ac := newTestContext(t, srv)

	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodeHreflangInvalidCode], 1)
	f := byCode[schemas.CodeHreflangInvalidCode][0]
	assert.Equal(t, schemas.SeverityError, f.Severity)
	assert.Equal(t, "english", f.Details["hreflang"])
}

func TestHreflangRegionCodesAreValid(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead(
			[2]string{"en-us", srv.URL + "/"},
			[2]string{"x-default", srv.URL + "/"},
		))
	})

	ac := newTestContext(t, srv)
	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	assert.Empty(t, byCode[schemas.CodeHreflangInvalidCode])
}

func TestHreflangMissingSelfReference(t *testing.T) {
	srv := serveHomepage(t, hreflangHead(
		[2]string{"x-default", "https://other.example/"},
	), nil)
	ac := newTestContext(t, srv)

	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodeHreflangMissingSelfRef], 1)
	assert.Equal(t, schemas.SeverityWarning, byCode[schemas.CodeHreflangMissingSelfRef][0].Severity)
}

func TestHreflangMissingXDefault(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead([2]string{"en", srv.URL + "/"}))
	})

	ac := newTestContext(t, srv)
	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodeHreflangMissingXDefault], 1)
}

func TestHreflangDuplicateReportedOnce(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead(
			[2]string{"en", srv.URL + "/"},
			[2]string{"en", srv.URL + "/en"},
			[2]string{"en", srv.URL + "/en-alt"},
			[2]string{"x-default", srv.URL + "/"},
		))
	})
	mux.HandleFunc("/en", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead([2]string{"en", srv.URL + "/"}))
	})
	mux.HandleFunc("/en-alt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead([2]string{"en", srv.URL + "/"}))
	})

	ac := newTestContext(t, srv)
	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodeHreflangDuplicate], 1, "a triplicated value is reported once")
	assert.Equal(t, "en", byCode[schemas.CodeHreflangDuplicate][0].Details["hreflang"])
}

func TestHreflangMissingReciprocal(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead(
			[2]string{"en", srv.URL + "/"},
			[2]string{"de", srv.URL + "/de"},
			[2]string{"x-default", srv.URL + "/"},
		))
	})
	// The German page declares only itself; no link back.
	mux.HandleFunc("/de", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead([2]string{"de", srv.URL + "/de"}))
	})

	ac := newTestContext(t, srv)
	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	require.Len(t, byCode[schemas.CodeHreflangMissingReciprocal], 1)
	f := byCode[schemas.CodeHreflangMissingReciprocal][0]
	assert.Equal(t, schemas.SeverityError, f.Severity)
	assert.Equal(t, srv.URL+"/de", f.URL)
}

func TestHreflangUnreachableAlternateIsSkipped(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hreflangHead(
			[2]string{"en", srv.URL + "/"},
			[2]string{"es", srv.URL + "/es"},
			[2]string{"x-default", srv.URL + "/"},
		))
	})
	mux.HandleFunc("/es", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ac := newTestContext(t, srv)
	findings, err := NewHreflang(nil).Analyze(context.Background(), ac)
	require.NoError(t, err)

	byCode := findingsByCode(findings)
	assert.Empty(t, byCode[schemas.CodeHreflangMissingReciprocal],
		"an unreachable alternate is not a reciprocity failure")
}

func TestNormalizeForComparison(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://Example.com/Path/", "https://example.com/Path"},
		{"https://example.com", "https://example.com/"},
		{"https://example.com/", "https://example.com/"},
		{"https://example.com/page#section", "https://example.com/page"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeForComparison(tc.in), "input %q", tc.in)
	}
}
