package domain

// RecordState is the terminal (or current) state of one test case in a run
type RecordState string

const (
	StateFetched        RecordState = "fetched"
	StateAnalyzed       RecordState = "analyzed"
	StateNoChangeNeeded RecordState = "no_change"
	StatePendingUpdate  RecordState = "pending"
	StateApplied        RecordState = "applied"
	StateRejectedRetry  RecordState = "rejected_retry"
	StateFailed         RecordState = "failed"
	StateDryRun         RecordState = "dry_run"
)

// Terminal reports whether no further transition can happen
func (s RecordState) Terminal() bool {
	switch s {
	case StateNoChangeNeeded, StateApplied, StateFailed, StateDryRun:
		return true
	}
	return false
}

// RecordOutcome is what happened to one test case
type RecordOutcome struct {
	CaseID  int64         `json:"case_id"`
	Code    string        `json:"code"`
	Title   string        `json:"title"`
	State   RecordState   `json:"state"`
	Retried bool          `json:"retried,omitempty"`
	Payload UpdatePayload `json:"payload,omitempty"`
	Error   string        `json:"error,omitempty"`
	// Reviewed is toggled in the report viewer
	Reviewed bool `json:"reviewed,omitempty"`
}

// FieldsFixed counts how many cases had each field group updated
type FieldsFixed struct {
	Description    int `json:"description"`
	Preconditions  int `json:"preconditions"`
	Postconditions int `json:"postconditions"`
	Steps          int `json:"steps"`
	CustomFields   int `json:"custom_fields"`
}

// RunStats aggregates outcomes across a whole run
type RunStats struct {
	Total       int         `json:"total"`
	NeedsFixing int         `json:"needs_fixing"`
	Fixed       int         `json:"fixed"`
	Errors      int         `json:"errors"`
	Skipped     int         `json:"skipped"`
	Retried     int         `json:"retried"`
	FieldsFixed FieldsFixed `json:"fields_fixed"`
}

// Add folds one record outcome into the stats and returns the new value
func (s RunStats) Add(o RecordOutcome) RunStats {
	s.Total++
	switch o.State {
	case StateNoChangeNeeded:
		s.Skipped++
		return s
	case StateApplied, StateDryRun:
		s.NeedsFixing++
		s.Fixed++
	case StateFailed:
		s.NeedsFixing++
		s.Errors++
	}
	if o.Retried {
		s.Retried++
	}
	if o.State == StateFailed {
		return s
	}
	if _, ok := o.Payload.Fields["description"]; ok {
		s.FieldsFixed.Description++
	}
	if _, ok := o.Payload.Fields["preconditions"]; ok {
		s.FieldsFixed.Preconditions++
	}
	if _, ok := o.Payload.Fields["postconditions"]; ok {
		s.FieldsFixed.Postconditions++
	}
	if len(o.Payload.Steps) > 0 {
		s.FieldsFixed.Steps++
	}
	s.FieldsFixed.CustomFields += len(o.Payload.CustomField)
	return s
}

// DeleteStats is the tally of a bulk deletion
type DeleteStats struct {
	Total   int
	Deleted int
	Failed  int
	Workers int
}
