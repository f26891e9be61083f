package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qcr/internal/config"
	"qcr/internal/discovery"
	"qcr/internal/domain"
	"qcr/internal/reconcile"
	"qcr/internal/repair"
	"qcr/internal/ui"
)

// RepairCommand runs one repair strategy over every case of the project
type RepairCommand struct {
	config    *config.Config
	strategy  string
	title     string
	formatter *ui.Formatter
}

// NewRepairCommand creates a new RepairCommand for strategy
func NewRepairCommand(cfg *config.Config, strategy, title string, formatter *ui.Formatter) *RepairCommand {
	return &RepairCommand{
		config:    cfg,
		strategy:  strategy,
		title:     title,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RepairCommand) Execute(cmd *cobra.Command, args []string) error {
	s, err := openSession(rc.config, cmd.Name(), true)
	if err != nil {
		return err
	}
	defer s.close()

	repairer, err := repair.New(rc.strategy, repair.Options{Extension: rc.config.Extension})
	if err != nil {
		return err
	}

	opts := reconcile.Options{
		DryRun: rc.config.IsDryRun(),
		Logger: s.logger.With(zap.String("strategy", repairer.Name())),
	}
	filter := discovery.NewFilter(rc.config.Flags.Filter)
	if !filter.Empty() {
		opts.Filter = filter.Keep
	}

	if opts.DryRun {
		rc.formatter.DryRunNotice()
	}
	color.Cyan("Fetching test cases from project %s...", rc.config.ProjectCode)

	driver := reconcile.NewDriver(s.client, reconcile.RepairAnalyzer(repairer), opts)
	driver.SetObserver(ui.NewRunObserver(rc.title, rc.config.Flags.Verbose))

	res, err := driver.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch test cases: %w", err)
	}

	rc.formatter.PrintRunSummary(rc.title, res.Stats, opts.DryRun, res.Duration)
	if rc.config.Flags.Verbose || res.Stats.Errors > 0 {
		rc.formatter.PrintOutcomeTree(res.Outcomes)
	}

	return s.saveReport(domain.ReportMeta{
		Command:  cmd.Name(),
		Strategy: repairer.Name(),
		Stats:    res.Stats,
	}, res.Outcomes, res.Duration)
}
