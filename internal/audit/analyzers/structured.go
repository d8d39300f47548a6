// File: internal/audit/analyzers/structured.go
// Description: JSON-LD structured data validation. Each script block is
// parsed independently; one broken block never hides its siblings.

package analyzers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

var jsonld = jsoniter.ConfigCompatibleWithStandardLibrary

// requiredFields lists the fields a well-known schema.org type needs before
// rich results become eligible. Only types in this table get field checks.
var requiredFields = map[string][]string{
	"Article":        {"headline", "author", "datePublished"},
	"BreadcrumbList": {"itemListElement"},
	"FAQPage":        {"mainEntity"},
	"Product":        {"name", "image", "offers"},
	"Organization":   {"name", "url"},
	"WebSite":        {"name", "url"},
	"LocalBusiness":  {"name", "address"},
}

// StructuredData audits the homepage's JSON-LD blocks.
type StructuredData struct {
	logger *zap.Logger
}

// NewStructuredData constructs the structured data analyzer.
func NewStructuredData(logger *zap.Logger) *StructuredData {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredData{logger: logger.Named("structured-data")}
}

func (a *StructuredData) Name() string               { return "structured-data" }
func (a *StructuredData) Category() schemas.Category { return schemas.CategoryStructuredData }

// Analyze inspects every application/ld+json block. Zero blocks yields a
// single warning and nothing else.
func (a *StructuredData) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	html, _, err := ac.EnsureHomepage(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := parse.NewDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parsing homepage HTML: %w", err)
	}

	blocks := doc.JSONLDBlocks()
	pageURL := ac.FinalURL()

	if len(blocks) == 0 {
		return []schemas.Finding{schemas.NewFinding(
			schemas.CodeStructuredDataMissing,
			schemas.SeverityWarning,
			schemas.CategoryStructuredData,
			"No JSON-LD structured data",
			"Without structured data the page is ineligible for rich results like sitelinks search boxes, breadcrumbs, and product snippets.",
			"Add a JSON-LD block describing the page, starting with Organization or WebSite.",
		).WithURL(pageURL)}, nil
	}

	var findings []schemas.Finding
	detectedTypes := map[string]bool{}

	for i, block := range blocks {
		var parsed any
		if err := jsonld.UnmarshalFromString(block, &parsed); err != nil {
			findings = append(findings, schemas.NewFinding(
				schemas.CodeStructuredDataInvalidJSON,
				schemas.SeverityError,
				schemas.CategoryStructuredData,
				fmt.Sprintf("JSON-LD block %d is not valid JSON", i+1),
				"Search engines discard unparseable blocks silently, so this markup contributes nothing.",
				"Fix the JSON syntax; a validator or the Rich Results Test pinpoints the error.",
			).WithDetails(map[string]any{"block_index": i, "parse_error": err.Error()}).WithURL(pageURL))
			continue
		}

		// A block may be one object or an array of objects; validate each
		// element separately.
		objects := []any{parsed}
		if arr, ok := parsed.([]any); ok {
			objects = arr
		}

		for _, obj := range objects {
			m, ok := obj.(map[string]any)
			if !ok {
				continue
			}
			findings = append(findings, a.validateObject(m, i, pageURL, detectedTypes)...)
		}
	}

	if len(detectedTypes) > 0 {
		types := make([]string, 0, len(detectedTypes))
		for t := range detectedTypes {
			types = append(types, t)
		}
		sort.Strings(types)
		findings = append(findings, schemas.NewFinding(
			schemas.CodeStructuredDataDetected,
			schemas.SeverityPass,
			schemas.CategoryStructuredData,
			"Structured data found: "+strings.Join(types, ", "),
			"The page declares recognizable schema.org types, making it a candidate for rich results.",
			"No action needed.",
		).WithDetails(map[string]any{"types": types}).WithURL(pageURL))
	}

	return findings, nil
}

// validateObject checks one JSON-LD object for @context, @type, and the
// required fields of recognized types.
func (a *StructuredData) validateObject(m map[string]any, blockIndex int, pageURL string, detectedTypes map[string]bool) []schemas.Finding {
	var findings []schemas.Finding

	if _, ok := m["@context"]; !ok {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeStructuredDataNoContext,
			schemas.SeverityWarning,
			schemas.CategoryStructuredData,
			fmt.Sprintf("JSON-LD object in block %d lacks @context", blockIndex+1),
			"Without @context the vocabulary is undefined and consumers may ignore the object.",
			`Add "@context": "https://schema.org" to the object.`,
		).WithDetails(map[string]any{"block_index": blockIndex}).WithURL(pageURL))
	}

	typeName := stringField(m, "@type")
	if typeName == "" {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeStructuredDataNoType,
			schemas.SeverityWarning,
			schemas.CategoryStructuredData,
			fmt.Sprintf("JSON-LD object in block %d lacks @type", blockIndex+1),
			"An object without @type cannot be matched to any rich result; the rest of its fields are meaningless to consumers.",
			"Declare the schema.org type of the object.",
		).WithDetails(map[string]any{"block_index": blockIndex}).WithURL(pageURL))
		// No type means no field table to check against.
		return findings
	}

	required, known := requiredFields[typeName]
	if !known {
		return findings
	}
	detectedTypes[typeName] = true

	var missing []string
	for _, field := range required {
		if isEmptyValue(m[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeStructuredDataMissingFields,
			schemas.SeverityWarning,
			schemas.CategoryStructuredData,
			fmt.Sprintf("%s object is missing required fields: %s", typeName, strings.Join(missing, ", ")),
			"Rich results for this type require these fields; incomplete objects are shown as plain results.",
			"Populate the missing fields or remove the incomplete object.",
		).WithDetails(map[string]any{
			"type":           typeName,
			"missing_fields": missing,
			"block_index":    blockIndex,
		}).WithURL(pageURL))
	}

	return findings
}

// isEmptyValue implements the "missing" test for required fields: absent,
// null, empty string, or an empty collection all count.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
