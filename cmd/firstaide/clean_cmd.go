package main

import (
	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/log"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clean [DIR]",
		Short:   "Remove the cache directory",
		GroupID: GroupUtility,
		Long: `Remove the cache directory.

The next hook reports the environment as not built until "firstaide build"
runs again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Info("Remove cache dir at %s.", cfg.CacheDir)
			return cache.Clean(cfg.CacheDir, cfg.BuildDir)
		},
	}

	return cmd
}
