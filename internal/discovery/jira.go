package discovery

import (
	"regexp"
	"strings"

	"qcr/internal/domain"
)

// issueKey matches JIRA issue keys such as ABC-123 inside free text and URLs
var issueKey = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-\d+)\b`)

// RefsSource tells where the references of a case were read from
type RefsSource string

const (
	RefsNone        RefsSource = ""
	RefsCustomField RefsSource = "custom_field"
	RefsSystemField RefsSource = "system_field"
)

// ExtractIssueKeys returns the unique issue keys in text, in order of first
// appearance
func ExtractIssueKeys(text string) []string {
	if text == "" {
		return nil
	}
	var keys []string
	seen := make(map[string]struct{})
	for _, m := range issueKey.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// CaseReferences returns the raw references of a case: the custom field
// refsFieldID when set and non-empty, else the system refs/references field
func CaseReferences(tc *domain.TestCase, refsFieldID int64) ([]string, RefsSource) {
	if refsFieldID > 0 {
		if v, ok := tc.CustomField(refsFieldID); ok && !v.IsBlank() {
			return []string{v.String()}, RefsCustomField
		}
	}
	if refs := tc.References(); len(refs) > 0 {
		return refs, RefsSystemField
	}
	return nil, RefsNone
}

// ExtractFromCase returns the unique issue keys referenced by a case and
// where the references came from
func ExtractFromCase(tc *domain.TestCase, refsFieldID int64) ([]string, RefsSource) {
	refs, source := CaseReferences(tc, refsFieldID)
	keys := ExtractIssueKeys(strings.Join(refs, "\n"))
	return keys, source
}
