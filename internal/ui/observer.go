package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"qcr/internal/domain"
)

// RunObserver reports driver progress on the console: a progress bar, or
// one line per case in verbose mode
type RunObserver struct {
	label    string
	verbose  bool
	out      io.Writer
	progress *ProgressBar
	done     int
}

// NewRunObserver creates a RunObserver on stdout
func NewRunObserver(label string, verbose bool) *RunObserver {
	return &RunObserver{label: label, verbose: verbose, out: os.Stdout}
}

// SetOutput redirects verbose lines and the progress bar to w
func (r *RunObserver) SetOutput(w io.Writer) {
	r.out = w
}

// Start is called once the number of cases is known
func (r *RunObserver) Start(total int) {
	r.done = 0
	if total == 0 {
		yellow.Fprintln(r.out, "No test cases to process")
		return
	}
	if r.verbose {
		cyan.Fprintf(r.out, "Analyzing %d test case(s)...\n", total)
		return
	}
	r.progress = NewProgressBarTo(r.out, r.label, total)
}

// Record is called after each case reaches its final state
func (r *RunObserver) Record(o domain.RecordOutcome, stats domain.RunStats) {
	r.done++
	if r.progress != nil {
		r.progress.Update(r.done, stats.Fixed, stats.Errors)
	}
	if !r.verbose || o.State == domain.StateNoChangeNeeded {
		return
	}

	fields := strings.Join(o.Payload.Keys(), ", ")
	switch o.State {
	case domain.StateApplied:
		suffix := ""
		if o.Retried {
			suffix = " (after placeholder retry)"
		}
		green.Fprintf(r.out, "  [OK] %s (%d) '%s': %s%s\n", o.Code, o.CaseID, o.Title, fields, suffix)
	case domain.StateDryRun:
		yellow.Fprintf(r.out, "  [DRY RUN] Would update %s (%d) '%s': %s\n", o.Code, o.CaseID, o.Title, fields)
	case domain.StateFailed:
		red.Fprintf(r.out, "  [ERROR] %s (%d) '%s': %s\n", o.Code, o.CaseID, o.Title, o.Error)
	default:
		fmt.Fprintf(r.out, "  [%s] %s (%d)\n", o.State, o.Code, o.CaseID)
	}
}

// Finish is called after the last case
func (r *RunObserver) Finish(domain.RunStats) {
	if r.progress != nil {
		r.progress.Finish()
		r.progress = nil
	}
}
