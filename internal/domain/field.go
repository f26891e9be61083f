package domain

import "strings"

// FieldDefinition describes a custom or system field of the workspace
type FieldDefinition struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Matches reports whether name equals the title or slug, ignoring case
func (f FieldDefinition) Matches(name string) bool {
	if name == "" {
		return false
	}
	return strings.EqualFold(f.Title, name) || (f.Slug != "" && strings.EqualFold(f.Slug, name))
}

// Attachment is a file stored in the workspace
type Attachment struct {
	Hash      string `json:"hash"`
	File      string `json:"file"`
	Mime      string `json:"mime,omitempty"`
	Size      int64  `json:"size"`
	Extension string `json:"extension,omitempty"`
	URL       string `json:"url,omitempty"`
}

// ExternalIssueLink links one case to a set of external issue ids
type ExternalIssueLink struct {
	CaseID         int64    `json:"case_id"`
	ExternalIssues []string `json:"external_issues"`
}
