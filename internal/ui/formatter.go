package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"qcr/internal/domain"
)

const (
	labelWidth = 31
	valueWidth = 27
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter on stdout
func NewFormatter() *Formatter {
	return NewFormatterTo(os.Stdout)
}

// NewFormatterTo creates a Formatter writing to w
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{out: w}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Banner prints a boxed title
func (f *Formatter) Banner(title string) {
	inner := 63
	pad := inner - len([]rune(title))
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔"+strings.Repeat("═", inner)+"╗")
	cyan.Fprintln(f.out, "║"+strings.Repeat(" ", left)+title+strings.Repeat(" ", pad-left)+"║")
	cyan.Fprintln(f.out, "╚"+strings.Repeat("═", inner)+"╝")
	fmt.Fprintln(f.out)
}

// DryRunNotice tells the user nothing will be changed
func (f *Formatter) DryRunNotice() {
	yellow.Fprintln(f.out, "DRY RUN MODE - No changes will be made")
}

type tableRow struct {
	label string
	value any
	color *color.Color
}

// table prints label/value rows in the box layout
func (f *Formatter) table(rows []tableRow) {
	sep := "├" + strings.Repeat("─", labelWidth+2) + "┼" + strings.Repeat("─", valueWidth+2) + "┤"
	fmt.Fprintln(f.out, "┌"+strings.Repeat("─", labelWidth+2)+"┬"+strings.Repeat("─", valueWidth+2)+"┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-*s │ ", labelWidth, row.label)
		c := row.color
		if c == nil {
			c = white
		}
		c.Fprintf(f.out, "%-*v", valueWidth, row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, sep)
		}
	}
	fmt.Fprintln(f.out, "└"+strings.Repeat("─", labelWidth+2)+"┴"+strings.Repeat("─", valueWidth+2)+"┘")
}

// PrintRunSummary prints the tally of a repair or migration run
func (f *Formatter) PrintRunSummary(title string, stats domain.RunStats, dryRun bool, duration time.Duration) {
	f.Banner(title)
	fixedLabel := "Fixed"
	if dryRun {
		fixedLabel = "Would be fixed"
	}
	f.table([]tableRow{
		{label: "Total cases", value: stats.Total},
		{label: "Needs fixing", value: stats.NeedsFixing, color: yellow},
		{label: fixedLabel, value: stats.Fixed, color: green},
		{label: "No change needed", value: stats.Skipped},
		{label: "Retried with placeholders", value: stats.Retried, color: yellow},
		{label: "Errors", value: stats.Errors, color: red},
		{label: "Description", value: stats.FieldsFixed.Description},
		{label: "Preconditions", value: stats.FieldsFixed.Preconditions},
		{label: "Postconditions", value: stats.FieldsFixed.Postconditions},
		{label: "Steps", value: stats.FieldsFixed.Steps},
		{label: "Custom fields", value: stats.FieldsFixed.CustomFields},
		{label: "Duration", value: fmt.Sprintf("%.2fs", duration.Seconds())},
	})

	fmt.Fprintln(f.out)
	switch {
	case stats.Errors > 0:
		red.Fprintf(f.out, "✗ %d case(s) could not be updated\n", stats.Errors)
	case stats.NeedsFixing == 0:
		green.Fprintln(f.out, "✓ Nothing to fix")
	default:
		green.Fprintf(f.out, "✓ %d case(s) %s\n", stats.Fixed, strings.ToLower(fixedLabel))
	}
}

// PrintMigrationSummary prints the tally of a field migration
func (f *Formatter) PrintMigrationSummary(plan domain.MigrationPlan, stats domain.RunStats, dryRun bool) {
	f.Banner("Field Migration")
	migratedLabel := "Migrated"
	if dryRun {
		migratedLabel = "Would be migrated"
	}
	f.table([]tableRow{
		{label: "Source field", value: fmt.Sprintf("%s (%s)", plan.SourceField, plan.SourceSlug)},
		{label: "Destination field id", value: plan.DestinationFieldID},
		{label: "Total cases", value: stats.Total},
		{label: "Needs migration", value: stats.NeedsFixing, color: yellow},
		{label: migratedLabel, value: stats.Fixed, color: green},
		{label: "Skipped", value: stats.Skipped},
		{label: "Errors", value: stats.Errors, color: red},
	})
	if stats.NeedsFixing == 0 && stats.Total > 0 {
		fmt.Fprintln(f.out)
		green.Fprintln(f.out, "✓ No test cases need migration")
	}
}

// PrintCSVSummary prints the tally of a CSV update
func (f *Formatter) PrintCSVSummary(stats domain.CSVUpdateStats, notFound []string, verbose bool) {
	f.Banner("CSV Field Update")
	f.table([]tableRow{
		{label: "Total CSV rows", value: stats.Rows},
		{label: "Matched test cases", value: stats.Matched, color: green},
		{label: "Updated", value: stats.Updated, color: green},
		{label: "Not found in Qase", value: stats.NotFound, color: yellow},
		{label: "Errors", value: stats.Errors, color: red},
	})
	if verbose && len(notFound) > 0 {
		fmt.Fprintln(f.out)
		yellow.Fprintln(f.out, "Codes not found:")
		for _, code := range notFound {
			fmt.Fprintf(f.out, "  - %s\n", code)
		}
	}
}

// PrintLinkSummary prints the tally of a JIRA linking run
func (f *Formatter) PrintLinkSummary(stats domain.LinkStats, dryRun bool) {
	f.Banner("JIRA Issue Linking")
	rows := []tableRow{
		{label: "Total test cases", value: stats.Total},
		{label: "Cases with refs", value: stats.WithRefs},
		{label: "Cases without refs", value: stats.WithoutRefs},
		{label: "Cases with JIRA issues", value: stats.WithIssues, color: green},
		{label: "Issue occurrences", value: stats.IssueOccurrences},
		{label: "Unique issues", value: stats.UniqueIssues},
	}
	if stats.WithIssues > 0 {
		avg := float64(stats.IssueOccurrences) / float64(stats.WithIssues)
		rows = append(rows, tableRow{label: "Average issues per case", value: fmt.Sprintf("%.2f", avg)})
	}
	rows = append(rows, tableRow{label: "Batches", value: stats.Batches})
	if !dryRun {
		rows = append(rows,
			tableRow{label: "Batches attached", value: stats.BatchesAttached, color: green},
			tableRow{label: "Cases attached", value: stats.CasesAttached, color: green},
			tableRow{label: "Errors", value: stats.Errors, color: red},
		)
	}
	f.table(rows)
}

// PrintDeleteSummary prints the tally of a bulk deletion
func (f *Formatter) PrintDeleteSummary(what string, stats domain.DeleteStats) {
	f.Banner("Delete " + what)
	f.table([]tableRow{
		{label: "Total", value: stats.Total},
		{label: "Deleted", value: stats.Deleted, color: green},
		{label: "Failed", value: stats.Failed, color: red},
		{label: "Workers", value: stats.Workers},
	})
}

// PrintOutcomeTree prints the non-trivial outcomes grouped by state, with
// the error of each failed case
func (f *Formatter) PrintOutcomeTree(outcomes []domain.RecordOutcome) {
	groups := make(map[domain.RecordState][]domain.RecordOutcome)
	for _, o := range outcomes {
		if o.State == domain.StateNoChangeNeeded {
			continue
		}
		groups[o.State] = append(groups[o.State], o)
	}
	if len(groups) == 0 {
		return
	}

	states := make([]string, 0, len(groups))
	for s := range groups {
		states = append(states, string(s))
	}
	sort.Strings(states)

	fmt.Fprintln(f.out)
	for i, s := range states {
		state := domain.RecordState(s)
		lastGroup := i == len(states)-1
		branch, indent := "├── ", "│   "
		if lastGroup {
			branch, indent = "└── ", "    "
		}
		stateColor(state).Fprintf(f.out, "%s%s (%d)\n", branch, s, len(groups[state]))

		for j, o := range groups[state] {
			leaf := "├── "
			if j == len(groups[state])-1 {
				leaf = "└── "
			}
			line := fmt.Sprintf("%s%s%s '%s'", indent, leaf, o.Code, o.Title)
			if keys := o.Payload.Keys(); len(keys) > 0 {
				line += " [" + strings.Join(keys, ", ") + "]"
			}
			fmt.Fprintln(f.out, line)
			if o.Error != "" {
				red.Fprintf(f.out, "%s    %s\n", indent, o.Error)
			}
		}
	}
}

func stateColor(s domain.RecordState) *color.Color {
	switch s {
	case domain.StateApplied:
		return green
	case domain.StateFailed:
		return red
	case domain.StateDryRun:
		return yellow
	}
	return cyan
}
