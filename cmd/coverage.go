package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"uilens/core/config"
	"uilens/core/coverage"
)

var coverageRoot string
var coverageFile string

// coverageCmd aggregates statement coverage over a dependency closure.
var coverageCmd = &cobra.Command{
	Use:   "coverage <entry file>",
	Short: "Aggregate statement coverage across a dependency closure",
	Long: `Builds the dependency closure of the entry file, weighs each
member by its architectural role, and folds the raw istanbul statement
counts into a single weighted score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(coverageRoot)
		if err != nil {
			return err
		}

		covPath := coverageFile
		if covPath == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			covPath = cfg.CoverageFile
		}

		raw, err := coverage.LoadIstanbul(covPath)
		if err != nil {
			return err
		}

		entry, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		result := eng.AggregateCoverage(entry, raw)

		fmt.Printf("Component coverage: %6.2f%%\n", result.ComponentCoverage)
		fmt.Printf("Aggregate coverage: %6.2f%%\n", result.AggregateCoverage)
		fmt.Printf("Files analyzed: %d\n", len(result.FilesAnalyzed))
		for _, report := range result.FilesAnalyzed {
			fmt.Printf("  %6.2f%%  %-10s %.2f  %s\n",
				report.Percentage, report.Category, report.Weight, report.Path)
		}
		if len(result.UncoveredFiles) > 0 {
			fmt.Printf("Uncovered files:\n")
			for _, file := range result.UncoveredFiles {
				fmt.Printf("  %s\n", file)
			}
		}
		if result.LowestCoverageFile != nil {
			fmt.Printf("Lowest coverage: %s (%.2f%%)\n",
				result.LowestCoverageFile.Path, result.LowestCoverageFile.Percentage)
		}
		return nil
	},
}

func init() {
	coverageCmd.Flags().StringVar(&coverageRoot, "root", "", "Project root (defaults to config or cwd)")
	coverageCmd.Flags().StringVar(&coverageFile, "coverage-file", "", "Path to istanbul coverage-final.json")
	rootCmd.AddCommand(coverageCmd)
}
