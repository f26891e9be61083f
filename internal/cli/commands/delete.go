package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qcr/internal/config"
	"qcr/internal/execution"
	"qcr/internal/ui"
)

// confirmFunc asks the user to approve a destructive action
type confirmFunc func(prompt string) (bool, error)

// DeleteCustomFieldsCommand deletes every custom field of the workspace
type DeleteCustomFieldsCommand struct {
	config    *config.Config
	formatter *ui.Formatter
	confirm   confirmFunc
}

// NewDeleteCustomFieldsCommand creates a new DeleteCustomFieldsCommand
func NewDeleteCustomFieldsCommand(cfg *config.Config, formatter *ui.Formatter) *DeleteCustomFieldsCommand {
	return &DeleteCustomFieldsCommand{config: cfg, formatter: formatter, confirm: ui.Confirm}
}

// Execute runs the command
func (dc *DeleteCustomFieldsCommand) Execute(cmd *cobra.Command, args []string) error {
	s, err := openSession(dc.config, cmd.Name(), false)
	if err != nil {
		return err
	}
	defer s.close()

	fields, err := s.client.ListCustomFields(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list custom fields: %w", err)
	}
	if len(fields) == 0 {
		color.Green("✓ No custom fields found")
		return nil
	}

	color.Cyan("Found %d custom field(s):", len(fields))
	tasks := make([]execution.DeleteTask, 0, len(fields))
	for _, f := range fields {
		fmt.Printf("  - [%d] %s\n", f.ID, f.Title)
		tasks = append(tasks, execution.DeleteTask{ID: strconv.FormatInt(f.ID, 10), Label: f.Title})
	}

	prompt := fmt.Sprintf("Are you sure you want to delete all %d custom field(s)?", len(fields))
	if ok, err := approveDeletion(dc.config, dc.confirm, prompt, len(tasks)); !ok || err != nil {
		return err
	}

	deleter := execution.DeleterFunc(func(ctx context.Context, task execution.DeleteTask) error {
		id, err := strconv.ParseInt(task.ID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid custom field id %q: %w", task.ID, err)
		}
		return s.client.DeleteCustomField(ctx, id)
	})
	return runDeletion(cmd.Context(), s, dc.formatter, "Custom Fields", tasks, deleter)
}

// DeleteAttachmentsCommand deletes every attachment of an exact size
type DeleteAttachmentsCommand struct {
	config    *config.Config
	formatter *ui.Formatter
	confirm   confirmFunc
}

// NewDeleteAttachmentsCommand creates a new DeleteAttachmentsCommand
func NewDeleteAttachmentsCommand(cfg *config.Config, formatter *ui.Formatter) *DeleteAttachmentsCommand {
	return &DeleteAttachmentsCommand{config: cfg, formatter: formatter, confirm: ui.Confirm}
}

// Execute runs the command
func (dc *DeleteAttachmentsCommand) Execute(cmd *cobra.Command, args []string) error {
	size := dc.config.Flags.Size
	if size <= 0 {
		return fmt.Errorf("--size must be a positive number of bytes")
	}

	s, err := openSession(dc.config, cmd.Name(), false)
	if err != nil {
		return err
	}
	defer s.close()

	attachments, err := s.client.ListAttachments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}

	var tasks []execution.DeleteTask
	for _, a := range attachments {
		if a.Size == size {
			tasks = append(tasks, execution.DeleteTask{ID: a.Hash, Label: a.File})
		}
	}
	color.Cyan("Found %d attachment(s), %d with size %d bytes", len(attachments), len(tasks), size)
	if len(tasks) == 0 {
		return nil
	}
	if dc.config.Flags.Verbose {
		for _, task := range tasks {
			fmt.Printf("  - %s (%s)\n", task.Label, task.ID)
		}
	}

	prompt := fmt.Sprintf("Are you sure you want to delete all %d attachment(s) with size %d?", len(tasks), size)
	if ok, err := approveDeletion(dc.config, dc.confirm, prompt, len(tasks)); !ok || err != nil {
		return err
	}

	deleter := execution.DeleterFunc(func(ctx context.Context, task execution.DeleteTask) error {
		return s.client.DeleteAttachment(ctx, task.ID)
	})
	return runDeletion(cmd.Context(), s, dc.formatter, "Attachments", tasks, deleter)
}

// approveDeletion handles dry run, --yes and the confirmation prompt
func approveDeletion(cfg *config.Config, confirm confirmFunc, prompt string, count int) (bool, error) {
	if cfg.IsDryRun() {
		color.Yellow("DRY RUN: would delete %d item(s)", count)
		return false, nil
	}
	if cfg.Flags.Yes {
		return true, nil
	}
	ok, err := confirm(prompt)
	if err != nil {
		return false, err
	}
	if !ok {
		color.Yellow("Deletion cancelled")
	}
	return ok, nil
}

func runDeletion(ctx context.Context, s *session, formatter *ui.Formatter, what string, tasks []execution.DeleteTask, deleter execution.Deleter) error {
	pool := execution.NewDeletePool(s.cfg.Workers, execution.NewRunner(deleter, s.logger))
	pool.SetProgress(ui.NewProgressBar("Deleting", len(tasks)))

	var executor execution.Executor = pool
	stats, results := executor.Execute(ctx, tasks)

	for _, r := range results {
		if r.Err != nil {
			color.Red("  ✗ %s (%s): %v", r.Task.Label, r.Task.ID, r.Err)
		}
	}
	s.logger.Info("deletion finished",
		zap.String("what", what),
		zap.Int("deleted", stats.Deleted),
		zap.Int("failed", stats.Failed))

	formatter.PrintDeleteSummary(what, stats)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d deletion(s) failed", stats.Failed, stats.Total)
	}
	return nil
}
