package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/goccy/go-json"
	"github.com/rivo/tview"

	"qcr/internal/domain"
	"qcr/internal/storage"
)

// ReportViewer displays the outcomes of a run in an interactive TUI
type ReportViewer struct {
	storage storage.Storage
}

// NewReportViewer creates a new ReportViewer saving review marks to st
func NewReportViewer(st storage.Storage) *ReportViewer {
	return &ReportViewer{storage: st}
}

// actionableIndexes returns positions in report.Records of every record that
// carries an update or an error
func actionableIndexes(report *domain.Report) []int {
	var idx []int
	for i, rec := range report.Records {
		if rec.State != domain.StateNoChangeNeeded {
			idx = append(idx, i)
		}
	}
	return idx
}

// ToggleReviewed flips the reviewed mark of record i and persists the report
func (rv *ReportViewer) ToggleReviewed(report *domain.Report, i int) error {
	if i < 0 || i >= len(report.Records) {
		return fmt.Errorf("record %d out of range", i)
	}
	report.Records[i].Reviewed = !report.Records[i].Reviewed
	if rv.storage == nil {
		return nil
	}
	return rv.storage.Save(report)
}

// View displays the report in an interactive TUI
func (rv *ReportViewer) View(report *domain.Report) error {
	indexes := actionableIndexes(report)
	if len(indexes) == 0 {
		color.Green("✓ Nothing to review, no case needed an update")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for n, i := range indexes {
		list.AddItem(formatListItem(report.Records[i], n+1), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	footerView := tview.NewTextView().
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(formatReviewHeader(report, len(indexes)))
	}
	updateHeader()

	updateDetails := func() {
		n := list.GetCurrentItem()
		if n < 0 || n >= len(indexes) {
			return
		}
		rec := report.Records[indexes[n]]
		statsView.SetText(formatRecordStats(report.Meta, rec))
		detailsView.SetText(formatRecordDetails(rec))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				n := list.GetCurrentItem()
				if n < 0 || n >= len(indexes) {
					return nil
				}
				if err := rv.ToggleReviewed(report, indexes[n]); err != nil {
					footerView.SetText(fmt.Sprintf("[red]failed to save report: %v[white]", err))
				} else {
					footerView.SetText("")
				}
				list.SetItemText(n, formatListItem(report.Records[indexes[n]], n+1), "")
				updateHeader()
				updateDetails()
				return nil
			}
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true).
		AddItem(footerView, 1, 0, false)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func formatReviewHeader(report *domain.Report, total int) string {
	pending := 0
	for _, rec := range report.Actionable() {
		if !rec.Reviewed {
			pending++
		}
	}
	return fmt.Sprintf(" %s (%d cases, %d to review) | ↑↓ navigate, [yellow]R[white] mark reviewed, → details, ← back, q to exit ",
		report.Meta.Command, total, pending)
}

func formatListItem(rec domain.RecordOutcome, number int) string {
	label := rec.Code
	if label == "" {
		label = fmt.Sprintf("#%d", rec.CaseID)
	}
	if rec.Reviewed {
		return fmt.Sprintf("[gray]✓ %d. %s %s[white]", number, label, rec.Title)
	}
	tag := "green"
	if rec.State == domain.StateFailed {
		tag = "red"
	}
	return fmt.Sprintf("[yellow]%d.[%s] %s[white] %s", number, tag, label, rec.Title)
}

func formatRecordStats(meta domain.ReportMeta, rec domain.RecordOutcome) string {
	mode := "live"
	if meta.DryRun {
		mode = "dry run"
	}
	return fmt.Sprintf("[cyan]project:[white] [yellow]%s[white]  [cyan]run:[white] %s (%s)  [cyan]case:[white] [yellow]%d[white]\n",
		meta.Project, meta.RunID, mode, rec.CaseID)
}

// formatRecordDetails renders one outcome using tview color tags
func formatRecordDetails(rec domain.RecordOutcome) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	switch rec.State {
	case domain.StateFailed:
		fmt.Fprintf(w, "[red]✗ %s: %s[white]\n\n", rec.Code, rec.Title)
	default:
		fmt.Fprintf(w, "[green]✓ %s: %s[white]\n\n", rec.Code, rec.Title)
	}
	fmt.Fprintf(w, "[cyan]State:\t%s[white]\n", rec.State)
	if rec.Retried {
		fmt.Fprintf(w, "[yellow]Retried:\tempty step actions replaced with placeholders[white]\n")
	}
	if keys := rec.Payload.Keys(); len(keys) > 0 {
		fmt.Fprintf(w, "[cyan]Fields:\t%s[white]\n", strings.Join(keys, ", "))
	}
	fmt.Fprintf(w, "\n")

	if rec.Error != "" {
		fmt.Fprintf(w, "[yellow]Error:[white]\n%s\n\n", tview.Escape(rec.Error))
	}

	if !rec.Payload.IsEmpty() {
		data, err := json.MarshalIndent(rec.Payload, "", "  ")
		if err == nil {
			fmt.Fprintf(w, "[yellow]Payload:[white]\n%s\n", tview.Escape(string(data)))
		}
	}

	w.Flush()
	return builder.String()
}

var _ Viewer = (*ReportViewer)(nil)
