package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qcr/internal/cli"
	"qcr/internal/cli/commands"
	"qcr/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "qcr",
		Short:   "Qase test case repair toolkit",
		Long:    `Repair broken markup in Qase test cases and run bulk maintenance: field migration, CSV imports, JIRA linking and cleanup.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
