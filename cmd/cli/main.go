package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scrape-dash-go/pkg/cli"
	"scrape-dash-go/pkg/cli/logger"
	"scrape-dash-go/pkg/config"
)

var Version = "0.0.0"

func newRootCmd() *cobra.Command {
	var app *cli.App

	cmd := &cobra.Command{
		Use:           "scrape-dash",
		Short:         "Trigger ingredient scraping and follow its logs.",
		Long:          "Terminal dashboard for the ingredient scraping service: a button that starts a scraping job and a live view of the service's log stream.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.CLI.LogFile, cfg.CLI.LogLevel); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			app = cli.NewApp(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.CloseLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start one scraping job and print the server's response",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.HandleRunCommand(cmd.Context(), cmd.OutOrStdout())
		},
	}

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream the service's log lines to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.HandleLogsCommand(cmd.Context(), cmd.OutOrStdout())
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.ShowConfig(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:     "set section.key=value",
			Short:   "Set a config value",
			Example: "  scrape-dash config set server.api_url=http://localhost:8000",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.SetConfig(args[0]); err != nil {
					return fmt.Errorf("failed to set config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated successfully")
				return nil
			},
		},
	)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of scrape-dash",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scrape-dash version: %s\n", Version)
		},
	}

	cmd.AddCommand(runCmd, logsCmd, configCmd, versionCmd)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
