package domain

// MigrationPlan is the resolved source and destination of a field migration
type MigrationPlan struct {
	SourceField        string `json:"source_field"`
	SourceSlug         string `json:"source_slug"`
	DestinationField   string `json:"destination_field"`
	DestinationFieldID int64  `json:"destination_field_id"`
}

// CSVUpdateStats is the tally of a CSV driven custom field update
type CSVUpdateStats struct {
	Rows     int `json:"rows"`
	Matched  int `json:"matched"`
	Updated  int `json:"updated"`
	NotFound int `json:"not_found"`
	Errors   int `json:"errors"`
}

// LinkStats is the tally of a JIRA linking run
type LinkStats struct {
	Total            int `json:"total"`
	WithRefs         int `json:"with_refs"`
	WithoutRefs      int `json:"without_refs"`
	WithIssues       int `json:"with_issues"`
	IssueOccurrences int `json:"issue_occurrences"`
	UniqueIssues     int `json:"unique_issues"`
	Batches          int `json:"batches"`
	BatchesAttached  int `json:"batches_attached"`
	CasesAttached    int `json:"cases_attached"`
	Errors           int `json:"errors"`
}
