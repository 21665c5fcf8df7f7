package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/direnv"
	"github.com/firstaide/firstaide/internal/hook"
	"github.com/firstaide/firstaide/internal/output"
)

func newHookCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hook [DIR]",
		Short:   "Print the script that activates the cached environment",
		GroupID: GroupCore,
		Long: `Print the script that activates the cached environment.

The script is meant to be evaluated by direnv from the project's .envrc.
It applies the cached environment when the watched files are unchanged,
applies it with a warning when they have changed, and applies nothing when
there is no usable cache. In all three cases it registers watches so that
direnv re-evaluates when a watched file or the cache changes.`,
		Example: `  # .envrc
  if [ -z "$FIRSTAIDE_BUILD" ]; then
    eval "$(firstaide hook)"
  else
    use nix
  fi`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			e := &hook.Engine{Config: cfg, Loader: direnv.New(cfg, stderr)}
			script, err := e.Run(ctx)
			if err != nil {
				return err
			}
			return output.FromContext(ctx).Emit(script)
		},
	}

	return cmd
}
