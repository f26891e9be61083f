package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewProgressBar creates a new progress bar on stderr
func NewProgressBar(label string, count int) *ProgressBar {
	return NewProgressBarTo(os.Stderr, label, count)
}

// NewProgressBarTo creates a progress bar writing to w
func NewProgressBarTo(w io.Writer, label string, count int) *ProgressBar {
	p := &ProgressBar{label: label}
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	p.bar = bar
	return p
}

func (p *ProgressBar) describe(okCount, failCount int) string {
	return color.CyanString("%s: ", p.label) +
		color.GreenString("[ok: %d", okCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}

// Update sets the processed count and the ok/failed tallies
func (p *ProgressBar) Update(done, okCount, failCount int) {
	_ = p.bar.Set(done)
	p.bar.Describe(p.describe(okCount, failCount))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}
