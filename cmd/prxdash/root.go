package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prxdash",
		Short: "prxdash - aggregate and rank paraphrase evaluation scores",
		Long: `prxdash aggregates judge scores for paraphrased instructions.

Each score file holds one record per evaluated prompt, mapping paraphrase
styles to a vector of per-metric scores. prxdash computes per-style
statistics, rolls styles up into families, highlights top-percentile cells,
picks the best style, and merges models into one comparison table.

Projects are configured with .prxdash.yaml, found by walking up from the
config directory. Run "prxdash init" to create one.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", ".", "Directory to start the .prxdash.yaml lookup from")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newSummaryCommand())
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newTopCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
