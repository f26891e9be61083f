package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qcr/internal/config"
	"qcr/internal/migration"
	"qcr/internal/ui"
)

// LinkJiraCommand attaches JIRA issues found in case references
type LinkJiraCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewLinkJiraCommand creates a new LinkJiraCommand
func NewLinkJiraCommand(cfg *config.Config, formatter *ui.Formatter) *LinkJiraCommand {
	return &LinkJiraCommand{config: cfg, formatter: formatter}
}

// Execute runs the command
func (lc *LinkJiraCommand) Execute(cmd *cobra.Command, args []string) error {
	s, err := openSession(lc.config, cmd.Name(), true)
	if err != nil {
		return err
	}
	defer s.close()

	dryRun := lc.config.IsDryRun()
	if dryRun {
		lc.formatter.DryRunNotice()
	}
	issues := lc.config.Tests.ExternalIssues
	color.Cyan("Linking %s issues in batches of %d...", issues.Type, issues.BatchSize)

	linker := migration.NewLinker(s.client, migration.LinkOptions{
		IssueType:   issues.Type,
		BatchSize:   issues.BatchSize,
		RefsField:   lc.config.JiraRefsField,
		RefsFieldID: lc.config.JiraRefsFieldID,
		DryRun:      dryRun,
		Logger:      s.logger,
	})

	res, err := linker.Run(cmd.Context())
	if err != nil {
		return err
	}

	lc.formatter.PrintLinkSummary(res.Stats, dryRun)
	if dryRun && lc.config.Flags.Verbose {
		for _, link := range res.Links {
			color.Yellow("  [DRY RUN] case %d: %v", link.CaseID, link.ExternalIssues)
		}
	}
	if len(res.FailedCases) > 0 {
		color.Red("✗ Could not link case(s): %v", res.FailedCases)
	}
	return nil
}
