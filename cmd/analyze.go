package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"uilens/core/config"
	"uilens/core/discover"
	"uilens/core/engine"
)

var analyzeRoot string
var analyzeAll bool

// analyzeCmd prints the dependency closure and role of an entry file.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [entry file]",
	Short: "Build the dependency closure of an entry file",
	Long: `Resolves every import reachable from the entry file, prints the
in-project dependency closure, and categorizes each member file.
With --all, analyzes every discovered source file under the root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(analyzeRoot)
		if err != nil {
			return err
		}

		var entries []string
		if analyzeAll {
			entries, err = discover.Files(eng.Root())
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}
		} else {
			if len(args) != 1 {
				return fmt.Errorf("an entry file is required unless --all is set")
			}
			entry, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			entries = []string{entry}
		}

		for _, entry := range entries {
			graph := eng.DependencyGraph(entry)
			fmt.Printf("%s (%d dependencies)\n", graph.Root, graph.Size())
			for _, dep := range graph.Sorted() {
				cat := eng.Categorize(dep)
				fmt.Printf("  %-10s %.2f  %s\n", cat.Category, cat.Weight, dep)
			}
		}
		return nil
	},
}

// newEngine builds an engine from config, with the root flag taking
// precedence over the configured project root.
func newEngine(rootFlag string) (*engine.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	root := cfg.ProjectRoot
	if rootFlag != "" {
		root = rootFlag
	}
	return engine.New(root, cfg)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRoot, "root", "", "Project root (defaults to config or cwd)")
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "Analyze every discovered source file")
	rootCmd.AddCommand(analyzeCmd)
}
