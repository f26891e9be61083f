package commands

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qcr/internal/config"
	"qcr/internal/domain"
	"qcr/internal/migration"
	"qcr/internal/ui"
)

// MigrateFieldCommand moves a system field into a custom field
type MigrateFieldCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewMigrateFieldCommand creates a new MigrateFieldCommand
func NewMigrateFieldCommand(cfg *config.Config, formatter *ui.Formatter) *MigrateFieldCommand {
	return &MigrateFieldCommand{config: cfg, formatter: formatter}
}

// Execute runs the command
func (mc *MigrateFieldCommand) Execute(cmd *cobra.Command, args []string) error {
	s, err := openSession(mc.config, cmd.Name(), true)
	if err != nil {
		return err
	}
	defer s.close()

	dryRun := mc.config.IsDryRun()
	if dryRun {
		mc.formatter.DryRunNotice()
	}
	color.Cyan("Migrating %q to %q...", mc.config.SourceField, mc.config.DestinationField)

	fm := migration.NewFieldMigrator(s.client, migration.FieldOptions{
		SourceField:        mc.config.SourceField,
		DestinationField:   mc.config.DestinationField,
		DestinationFieldID: mc.config.DestinationFieldID,
		DryRun:             dryRun,
		Logger:             s.logger,
	})
	fm.SetObserver(ui.NewRunObserver("Migrating", mc.config.Flags.Verbose))

	start := time.Now()
	res, err := fm.Run(cmd.Context())
	if err != nil {
		return err
	}

	mc.formatter.PrintMigrationSummary(fm.Resolved(), res.Stats, dryRun)
	if res.Stats.Errors > 0 {
		mc.formatter.PrintOutcomeTree(res.Outcomes)
	}

	return s.saveReport(domain.ReportMeta{
		Command: cmd.Name(),
		Stats:   res.Stats,
	}, res.Outcomes, time.Since(start))
}
