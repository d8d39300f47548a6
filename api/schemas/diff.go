package schemas

// FindingKey is the stable identity of a finding across runs. Two findings
// with the same code and URL refer to the same observation even if their
// message wording or details changed between versions.
type FindingKey struct {
	Code Code   `json:"code"`
	URL  string `json:"url"`
}

// ReportDiff classifies the findings of a current report against a baseline.
type ReportDiff struct {
	New       []Finding `json:"new"`
	Resolved  []Finding `json:"resolved"`
	Unchanged []Finding `json:"unchanged"`
}

// DiffReports compares two reports by {code, url} identity. Findings present
// only in cur are new, only in prev are resolved, in both are unchanged.
// Pass-severity findings are ignored on both sides; a check going from pass
// to warning shows up as new, which is the signal diff consumers care about.
func DiffReports(prev, cur *AuditReport) *ReportDiff {
	diff := &ReportDiff{}

	prevKeys := make(map[FindingKey]Finding)
	for _, r := range prev.Results {
		for _, f := range r.Findings {
			if f.Severity == SeverityPass {
				continue
			}
			prevKeys[FindingKey{Code: f.Code, URL: f.URL}] = f
		}
	}

	curKeys := make(map[FindingKey]bool)
	for _, r := range cur.Results {
		for _, f := range r.Findings {
			if f.Severity == SeverityPass {
				continue
			}
			key := FindingKey{Code: f.Code, URL: f.URL}
			curKeys[key] = true
			if _, ok := prevKeys[key]; ok {
				diff.Unchanged = append(diff.Unchanged, f)
			} else {
				diff.New = append(diff.New, f)
			}
		}
	}

	for _, r := range prev.Results {
		for _, f := range r.Findings {
			if f.Severity == SeverityPass {
				continue
			}
			if !curKeys[FindingKey{Code: f.Code, URL: f.URL}] {
				diff.Resolved = append(diff.Resolved, f)
			}
		}
	}

	return diff
}
