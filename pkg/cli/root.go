// Package cli implements the semlens command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"semlens/internal/config"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadFromEnv()

	var (
		logLevel  string
		logFormat string
	)

	rootCmd := &cobra.Command{
		Use:           "semlens",
		Short:         "Compile dbt project metadata into a queryable semantic layer",
		Long:          "semlens turns a dbt manifest and a live warehouse catalog into validated explores: per-model tables with dimensions, metrics, joins, and lineage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// precedence: flag > env > default
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json)")

	rootCmd.AddCommand(newCompileCmd(cfg))
	rootCmd.AddCommand(newLineageCmd(cfg))
	return rootCmd
}
