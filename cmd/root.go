package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"uilens/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "uilens",
	Short: "Cross-file static analysis for component-based UI codebases.",
	Long: `uilens resolves imports across a component codebase, follows
re-export chains to real definitions, builds dependency closures, and
combines per-file statement coverage into weighted scores. It backs the
lint and coverage hosts; this CLI is a thin way to run the same engine
by hand.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		logger.SetErrorWriter()
		if logfile != "" {
			if f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				logger.SetWriterForAll(f)
			} else {
				logger.Warn("Could not open logfile %s: %v", logfile, err)
			}
		}
	},
}

var logfile string
var verbose bool

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
