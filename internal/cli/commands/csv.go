package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qcr/internal/config"
	"qcr/internal/discovery"
	"qcr/internal/domain"
	"qcr/internal/migration"
	"qcr/internal/ui"
)

// UpdateFromCSVCommand writes CSV values into a custom field
type UpdateFromCSVCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewUpdateFromCSVCommand creates a new UpdateFromCSVCommand
func NewUpdateFromCSVCommand(cfg *config.Config, formatter *ui.Formatter) *UpdateFromCSVCommand {
	return &UpdateFromCSVCommand{config: cfg, formatter: formatter}
}

// Execute runs the command
func (uc *UpdateFromCSVCommand) Execute(cmd *cobra.Command, args []string) error {
	path := uc.config.Flags.CSVPath
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no CSV file given: pass --csv")
	}

	rows, err := discovery.LoadCSV(path, uc.config.CSVColumn)
	if err != nil {
		return err
	}

	s, err := openSession(uc.config, cmd.Name(), true)
	if err != nil {
		return err
	}
	defer s.close()

	dryRun := uc.config.IsDryRun()
	if dryRun {
		uc.formatter.DryRunNotice()
	}
	color.Cyan("Loaded %d row(s) from %s (column %q)", len(rows), path, uc.config.CSVColumn)

	updater := migration.NewCSVUpdater(s.client, migration.CSVOptions{
		Rows:      rows,
		FieldName: uc.config.CSVFieldName,
		FieldID:   uc.config.CSVFieldID,
		DryRun:    dryRun,
		Logger:    s.logger,
	})
	updater.SetObserver(ui.NewRunObserver("Updating", uc.config.Flags.Verbose))

	res, err := updater.Run(cmd.Context())
	if err != nil {
		return err
	}

	uc.formatter.PrintCSVSummary(res.Stats, res.NotFound, uc.config.Flags.Verbose)
	if res.Stats.Errors > 0 {
		uc.formatter.PrintOutcomeTree(res.Run.Outcomes)
	}

	return s.saveReport(domain.ReportMeta{
		Command: cmd.Name(),
		Stats:   res.Run.Stats,
	}, res.Run.Outcomes, res.Run.Duration)
}
