package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"uilens/core/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of uilens",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("uilens %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
