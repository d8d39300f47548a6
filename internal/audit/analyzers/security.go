// File: internal/audit/analyzers/security.go
// Description: Security response header checks. All four checks are
// informational; they overlap SEO through trust signals, not rankings.

package analyzers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
)

// SecurityHeaders inspects the homepage response headers.
type SecurityHeaders struct {
	logger *zap.Logger
}

// NewSecurityHeaders constructs the security header analyzer.
func NewSecurityHeaders(logger *zap.Logger) *SecurityHeaders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityHeaders{logger: logger.Named("security")}
}

func (a *SecurityHeaders) Name() string               { return "security" }
func (a *SecurityHeaders) Category() schemas.Category { return schemas.CategorySecurity }

// Analyze runs four independent header checks against cached headers, or a
// HEAD probe when nothing is cached yet. With no headers at all there is no
// signal, so no findings are asserted.
func (a *SecurityHeaders) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	headers, ok := ac.Headers()
	if !ok {
		probe, err := ac.Fetch.FetchHead(ctx, ac.NormalizedURL)
		if err != nil {
			a.logger.Debug("no headers available for security checks", zap.Error(err))
			return nil, nil
		}
		headers = probe.Headers
	}
	pageURL := ac.FinalURL()

	var findings []schemas.Finding

	if _, ok := headers["strict-transport-security"]; !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSecurityNoHSTS,
			schemas.SeverityInfo,
			schemas.CategorySecurity,
			"Strict-Transport-Security header absent",
			"Without HSTS, first visits over http:// can be intercepted before the redirect to HTTPS happens.",
			"Add Strict-Transport-Security: max-age=31536000; includeSubDomains once all subdomains serve HTTPS.",
		).WithURL(pageURL))
	}

	if !strings.EqualFold(strings.TrimSpace(headers["x-content-type-options"]), "nosniff") {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSecurityNoContentTypeOptions,
			schemas.SeverityInfo,
			schemas.CategorySecurity,
			`X-Content-Type-Options is not "nosniff"`,
			"Browsers may MIME-sniff responses without it, letting mislabeled uploads execute as script.",
			"Add X-Content-Type-Options: nosniff.",
		).WithURL(pageURL))
	}

	_, hasFrameOptions := headers["x-frame-options"]
	csp := strings.ToLower(headers["content-security-policy"])
	if !hasFrameOptions && !strings.Contains(csp, "frame-ancestors") {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSecurityNoFrameProtection,
			schemas.SeverityInfo,
			schemas.CategorySecurity,
			"No clickjacking protection",
			"Neither X-Frame-Options nor a CSP frame-ancestors directive is set, so any site can embed this page in an iframe.",
			"Add Content-Security-Policy: frame-ancestors 'self' (or X-Frame-Options: SAMEORIGIN for legacy browsers).",
		).WithURL(pageURL))
	}

	if _, ok := headers["referrer-policy"]; !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeSecurityNoReferrerPolicy,
			schemas.SeverityInfo,
			schemas.CategorySecurity,
			"Referrer-Policy header absent",
			"Outbound requests fall back to the browser default policy, which may leak full URLs to third parties.",
			"Add Referrer-Policy: strict-origin-when-cross-origin.",
		).WithURL(pageURL))
	}

	return findings, nil
}
