package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/build"
	"github.com/firstaide/firstaide/internal/direnv"
	"github.com/firstaide/firstaide/internal/log"
	"github.com/firstaide/firstaide/internal/ui/progress"
)

func newBuildCmd(g *globals, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build [DIR]",
		Short:   "Build the development environment and cache it",
		GroupID: GroupCore,
		Long: `Build the development environment and cache it.

Runs direnv twice, once outside the project and once inside it with
FIRSTAIDE_BUILD=1 set, records the difference between the two
environments, and checksums the watched files. The previous cache is only
replaced once every step has succeeded.`,
		Example: `  firstaide build           # Build the project containing the working directory
  firstaide build ~/src/app # Build a specific project`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			b := &build.Builder{
				Config:   cfg,
				Loader:   direnv.New(cfg, stderr),
				Reporter: progress.NewReporter(l, stderr, g.quiet),
			}
			entry, err := b.Run(ctx)
			if err != nil {
				return err
			}

			l.Info("Done: %d variables cached, %d files watched.", len(entry.Diff), len(entry.Sums))
			return nil
		},
	}

	return cmd
}
