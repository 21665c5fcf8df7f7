package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/hook"
	"github.com/firstaide/firstaide/internal/output"
	"github.com/firstaide/firstaide/internal/status"
	"github.com/firstaide/firstaide/internal/ui/static"
	"github.com/firstaide/firstaide/internal/ui/styles"
)

func newStatusCmd() *cobra.Command {
	var (
		files bool
		diff  bool
	)

	cmd := &cobra.Command{
		Use:     "status [DIR]",
		Short:   "Show whether the cached environment is up to date",
		GroupID: GroupUtility,
		Long: `Show whether the cached environment is up to date.

The state is decided the same way the hook decides it: okay when the
watched files match the cache, stale when they do not, unknown when there
is no readable cache.`,
		Example: `  firstaide status          # One-line state
  firstaide status --files  # Per-file table
  firstaide status --diff   # Diff of cached and current checksums`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			r := status.Inspect(ctx, cfg)
			w := out.Styled()

			label := strings.ToUpper(r.State.String())
			title := r.State.Title()
			if r.Corrupt() {
				label = "CORRUPT"
				title = hook.CorruptTitle
			}
			fmt.Fprintf(w, "%s %s\n", styles.ForLevel(stateLevel(r)).Render(label), title)
			if r.Corrupt() {
				fmt.Fprintf(w, "%s\n", styles.MutedStyle.Render(r.LoadErr.Error()))
			}
			if r.WatchErr != nil {
				fmt.Fprintf(w, "%s\n", styles.ErrorStyle.Render(r.WatchErr.Error()))
			}

			if files {
				fmt.Fprint(w, "\n", fileTable(r))
			}

			if diff {
				d, err := status.ManifestDiff(r)
				if err != nil {
					return err
				}
				if d != "" {
					fmt.Fprint(w, "\n", d)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&files, "files", false, "List watched files and whether each changed")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a unified diff of cached and current checksums")

	return cmd
}

func stateLevel(r *status.Report) styles.Level {
	switch {
	case r.Corrupt():
		return styles.LevelError
	case r.State == hook.Okay:
		return styles.LevelOK
	case r.State == hook.Stale:
		return styles.LevelWarn
	default:
		return styles.LevelError
	}
}

func fileLevel(s status.FileState) styles.Level {
	switch s {
	case status.Unchanged:
		return styles.LevelOK
	case status.Missing:
		return styles.LevelError
	default:
		return styles.LevelWarn
	}
}

func fileTable(r *status.Report) string {
	rows := make([][]string, len(r.Files))
	for i, f := range r.Files {
		rows[i] = []string{f.Path, f.State.String()}
	}
	return static.RenderTable([]string{"FILE", "STATE"}, rows, func(row, col int) lipgloss.Style {
		if col != 1 || row < 0 || row >= len(r.Files) {
			return styles.ForLevel(styles.LevelNone)
		}
		return styles.ForLevel(fileLevel(r.Files[row].State))
	})
}
