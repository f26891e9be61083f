package domain

// ReportMeta describes one command run
type ReportMeta struct {
	RunID           string   `json:"run_id"`
	Command         string   `json:"command"`
	Project         string   `json:"project"`
	Strategy        string   `json:"strategy,omitempty"`
	DryRun          bool     `json:"dry_run"`
	Stats           RunStats `json:"stats"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Timestamp       string   `json:"timestamp"`
}

// Report is the complete output of a run: metadata plus every record outcome
type Report struct {
	Meta    ReportMeta      `json:"meta"`
	Records []RecordOutcome `json:"records"`
}

// Pending returns the records that were not reviewed yet
func (r *Report) Pending() []RecordOutcome {
	var out []RecordOutcome
	for _, rec := range r.Records {
		if !rec.Reviewed {
			out = append(out, rec)
		}
	}
	return out
}

// Actionable returns records that carry an update or an error, skipping
// the no-change ones
func (r *Report) Actionable() []RecordOutcome {
	var out []RecordOutcome
	for _, rec := range r.Records {
		if rec.State != StateNoChangeNeeded {
			out = append(out, rec)
		}
	}
	return out
}
