package main

import (
	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/direnv"
)

// newEnvCmd is run by direnv during a capture; it is not meant for users.
func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    direnv.EnvCommand + " FILE",
		Short:  "Write the current environment to FILE",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return direnv.Dump(args[0])
		},
	}

	return cmd
}
