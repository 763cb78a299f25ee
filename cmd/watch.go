package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uilens/core/config"
	"uilens/core/logger"
	"uilens/core/watcher"
)

var watchRoot string

// watchCmd keeps the engine caches warm across file edits.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and invalidate analysis caches on change",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		eng, err := newEngine(watchRoot)
		if err != nil {
			return err
		}

		fw, err := watcher.New(eng.Root(), cfg.Watch.Exclude, eng,
			time.Duration(cfg.Watch.Debounce)*time.Millisecond)
		if err != nil {
			return err
		}
		defer fw.Close()

		fw.OnChange = func() error {
			stats := eng.Stats()
			logger.Info("Caches after invalidation: parse=%d resolve=%d graphs=%d",
				stats["parse"].Size, stats["resolve"].Size, stats["graphs"].Size)
			return nil
		}

		fmt.Printf("Watching %s\n", eng.Root())
		return fw.Watch()
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchRoot, "root", "", "Project root (defaults to config or cwd)")
	rootCmd.AddCommand(watchCmd)
}
