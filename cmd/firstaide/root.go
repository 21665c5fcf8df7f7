package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/log"
	"github.com/firstaide/firstaide/internal/output"
)

// exitError is the exit status for every failure.
const exitError = 2

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupUtility = "utility"
)

// globals holds the persistent flags.
type globals struct {
	verbose bool
	quiet   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "firstaide",
		Short: "First, as in prior to, aide.",
		Long: `firstaide builds a project's development environment once with direnv,
caches the variables the build introduced, and replays them on every shell
entry for as long as the watched files are unchanged.

Source the output of "firstaide hook" from the project's .envrc, and run
"firstaide build" whenever the hook reports the environment as stale.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l := log.New(stderr, g.verbose, g.quiet)
			ctx := log.WithLogger(cmd.Context(), l)
			ctx = output.WithPrinter(ctx, output.New(stdout, os.Environ()))
			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	rootCmd.AddCommand(newBuildCmd(g, stderr))
	rootCmd.AddCommand(newHookCmd(stderr))
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCompletionCmd(stdout))
	rootCmd.AddCommand(newEnvCmd())

	return rootCmd
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "firstaide: %v\n", err)
		return exitError
	}
	return 0
}

// loadConfig loads the config for the optional DIR argument.
func loadConfig(args []string) (*config.Config, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	return config.Load(dir)
}
