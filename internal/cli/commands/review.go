package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"qcr/internal/config"
	"qcr/internal/storage"
	"qcr/internal/ui"
)

// ReviewCommand opens a saved run report in the interactive viewer
type ReviewCommand struct {
	config *config.Config
}

// NewReviewCommand creates a new ReviewCommand
func NewReviewCommand(cfg *config.Config) *ReviewCommand {
	return &ReviewCommand{config: cfg}
}

// Execute runs the command
func (rc *ReviewCommand) Execute(cmd *cobra.Command, args []string) error {
	path := rc.config.Flags.ReportPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no report given: pass a report file or --report")
	}

	st := storage.NewJSONStorage(path)
	report, err := st.Load()
	if err != nil {
		return err
	}

	var viewer ui.Viewer = ui.NewReportViewer(st)
	return viewer.View(report)
}
