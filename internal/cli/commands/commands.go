package commands

import (
	"github.com/spf13/cobra"

	"qcr/internal/cli"
	"qcr/internal/config"
	"qcr/internal/repair"
	"qcr/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	FixRefs            *RepairCommand
	RemoveAttachments  *RepairCommand
	FixHTML            *RepairCommand
	Review             *ReviewCommand
	MigrateField       *MigrateFieldCommand
	UpdateFromCSV      *UpdateFromCSVCommand
	LinkJira           *LinkJiraCommand
	DeleteCustomFields *DeleteCustomFieldsCommand
	DeleteAttachments  *DeleteAttachmentsCommand
}

// NewCommands creates all commands with dependencies. cfg is filled in
// before each command runs.
func NewCommands(cfg *config.Config) *Commands {
	formatter := ui.NewFormatter()

	return &Commands{
		FixRefs:            NewRepairCommand(cfg, repair.StrategyReferences, "Fix References", formatter),
		RemoveAttachments:  NewRepairCommand(cfg, repair.StrategyAttachments, "Remove Attachments", formatter),
		FixHTML:            NewRepairCommand(cfg, repair.StrategyHTML, "Fix HTML", formatter),
		Review:             NewReviewCommand(cfg),
		MigrateField:       NewMigrateFieldCommand(cfg, formatter),
		UpdateFromCSV:      NewUpdateFromCSVCommand(cfg, formatter),
		LinkJira:           NewLinkJiraCommand(cfg, formatter),
		DeleteCustomFields: NewDeleteCustomFieldsCommand(cfg, formatter),
		DeleteAttachments:  NewDeleteAttachmentsCommand(cfg, formatter),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "Path to the config file (default config.json)")
	pf.StringVar(&flags.Token, "token", "", "Qase API token (overrides config and "+config.EnvAPIToken+")")
	pf.StringVar(&flags.Project, "project", "", "Qase project code (overrides config and "+config.EnvProjectCode+")")
	pf.StringVar(&flags.BaseURL, "base-url", "", "Qase API base URL")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Show what would change without changing anything")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Print every change and debug logs")
	pf.StringVar(&flags.LogFile, "log-file", "", "Write JSON logs to this file")
	pf.StringVar(&flags.ReportPath, "report", "", "Save a JSON run report to this file")

	// Load config after flags are parsed
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		flags.Apply(loaded)
		*cfg = *loaded
		cmd.SilenceUsage = true
		return nil
	}

	// Repair commands
	fixRefsCmd := &cobra.Command{
		Use:   "fix-refs",
		Short: "Unescape broken file references",
		Long:  "Rewrite escaped markdown and HTML-entity references to files with the configured extension back into working links",
		Args:  cobra.NoArgs,
		RunE:  c.FixRefs.Execute,
	}
	fixRefsCmd.Flags().StringVar(&flags.Extension, "ext", "", "File extension of the references to fix (default csv)")
	addFilterFlag(fixRefsCmd, flags)
	rootCmd.AddCommand(fixRefsCmd)

	removeAttachmentsCmd := &cobra.Command{
		Use:   "remove-attachments",
		Short: "Strip attachment markup from test cases",
		Long:  "Remove markdown image and attachment links from descriptions, conditions, steps and custom fields",
		Args:  cobra.NoArgs,
		RunE:  c.RemoveAttachments.Execute,
	}
	addFilterFlag(removeAttachmentsCmd, flags)
	rootCmd.AddCommand(removeAttachmentsCmd)

	fixHTMLCmd := &cobra.Command{
		Use:   "fix-html",
		Short: "Strip HTML markup from test cases",
		Long:  "Convert HTML markup in test case fields to plain text",
		Args:  cobra.NoArgs,
		RunE:  c.FixHTML.Execute,
	}
	addFilterFlag(fixHTMLCmd, flags)
	rootCmd.AddCommand(fixHTMLCmd)

	// Review command
	reviewCmd := &cobra.Command{
		Use:   "review [report.json]",
		Short: "Review a saved run report interactively",
		Long:  "Open a run report written with --report in an interactive viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Review.Execute,
	}
	rootCmd.AddCommand(reviewCmd)

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate-field",
		Short: "Move a system field into a custom field",
		Long:  "Copy the source system field of every test case into a custom field and clear the source",
		Args:  cobra.NoArgs,
		RunE:  c.MigrateField.Execute,
	}
	migrateCmd.Flags().StringVar(&flags.SourceField, "source-field", "", "System field to migrate from (title or slug)")
	migrateCmd.Flags().StringVar(&flags.DestinationField, "destination-field", "", "Custom field to migrate to (title)")
	migrateCmd.Flags().Int64Var(&flags.DestinationFieldID, "destination-field-id", 0, "Custom field id to migrate to (skips the lookup)")
	rootCmd.AddCommand(migrateCmd)

	csvCmd := &cobra.Command{
		Use:   "update-from-csv",
		Short: "Update a custom field from a CSV file",
		Long:  "Write the values of a CSV column into a custom field of the test cases listed in the ID column",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.UpdateFromCSV.Execute,
	}
	csvCmd.Flags().StringVar(&flags.CSVPath, "csv", "", "CSV file with ID and value columns")
	csvCmd.Flags().StringVar(&flags.CSVField, "field", "", "Custom field to update (default "+config.DefaultCSVFieldName+")")
	csvCmd.Flags().Int64Var(&flags.CSVFieldID, "field-id", 0, "Custom field id to update (skips the lookup)")
	csvCmd.Flags().StringVar(&flags.CSVColumn, "column", "", "CSV column to read (defaults to the field name)")
	rootCmd.AddCommand(csvCmd)

	linkCmd := &cobra.Command{
		Use:   "link-jira",
		Short: "Link JIRA issues found in case references",
		Long:  "Extract JIRA issue keys from the refs field of every test case and attach them as external issues",
		Args:  cobra.NoArgs,
		RunE:  c.LinkJira.Execute,
	}
	linkCmd.Flags().StringVar(&flags.IssueType, "type", "", "External issue type: jira-cloud or jira-server")
	linkCmd.Flags().IntVar(&flags.BatchSize, "batch-size", 0, "Cases per attach request")
	linkCmd.Flags().StringVar(&flags.RefsField, "refs-field", "", "Custom field holding references")
	linkCmd.Flags().Int64Var(&flags.RefsFieldID, "refs-field-id", 0, "Custom field id holding references")
	rootCmd.AddCommand(linkCmd)

	// Deletion commands
	deleteFieldsCmd := &cobra.Command{
		Use:   "delete-custom-fields",
		Short: "Delete all custom fields",
		Long:  "Delete every custom field of the workspace in parallel, after confirmation",
		Args:  cobra.NoArgs,
		RunE:  c.DeleteCustomFields.Execute,
	}
	addDeleteFlags(deleteFieldsCmd, flags)
	rootCmd.AddCommand(deleteFieldsCmd)

	deleteAttachmentsCmd := &cobra.Command{
		Use:   "delete-attachments",
		Short: "Delete attachments of an exact size",
		Long:  "Delete every attachment whose size in bytes equals --size in parallel, after confirmation",
		Args:  cobra.NoArgs,
		RunE:  c.DeleteAttachments.Execute,
	}
	deleteAttachmentsCmd.Flags().Int64Var(&flags.Size, "size", 0, "Attachment size in bytes")
	_ = deleteAttachmentsCmd.MarkFlagRequired("size")
	addDeleteFlags(deleteAttachmentsCmd, flags)
	rootCmd.AddCommand(deleteAttachmentsCmd)
}

func addFilterFlag(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter test cases by title (supports wildcards, e.g. 'Login*' or '*payment*')")
}

func addDeleteFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of parallel workers (default 10)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")
}
