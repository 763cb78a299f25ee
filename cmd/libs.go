package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var libsRoot string

// libsCmd reports which UI libraries a component depends on.
var libsCmd = &cobra.Command{
	Use:   "libs <context file> <component> <import specifier>",
	Short: "Report the UI libraries a component depends on",
	Long: `Analyzes a component as imported at the given site: a specifier
matching a known library signature is reported directly; a local
component is resolved and its body walked transitively, so libraries
hidden behind chains of wrapper components surface too.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(libsRoot)
		if err != nil {
			return err
		}

		contextFile, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		info := eng.AnalyzeLibraryUsage(contextFile, args[1], args[2])

		if info.Library != "" {
			fmt.Printf("Direct library: %s\n", info.Library)
		}
		if info.IsLocalComponent {
			fmt.Printf("Local component: yes\n")
		}
		if len(info.InternalLibraries) > 0 {
			fmt.Printf("Through local components:\n")
			for _, lib := range info.Libraries() {
				if lib != info.Library {
					fmt.Printf("  %s\n", lib)
				}
			}
		}
		for _, ev := range info.EvidenceChain {
			if ev.Library != "" {
				fmt.Printf("  %s -> %s (%s)\n", ev.From, ev.To, ev.Library)
			} else {
				fmt.Printf("  %s -> %s\n", ev.From, ev.To)
			}
		}
		if info.Library == "" && len(info.InternalLibraries) == 0 {
			fmt.Printf("No known UI library usage found\n")
		}
		return nil
	},
}

func init() {
	libsCmd.Flags().StringVar(&libsRoot, "root", "", "Project root (defaults to config or cwd)")
	rootCmd.AddCommand(libsCmd)
}
