// Package main provides the CLI entrypoint for barkeep.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/barkeep/internal/logging"
)

var logLevel string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "barkeep",
		Short:         "Status bar helpers for tablet presets and keystroke display",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newTabletCmd())
	rootCmd.AddCommand(newKeysCmd())

	return rootCmd
}

func newLogger() *logging.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(logLevel))
}
