package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/output"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init [DIR]",
		Short:   "Create a " + config.FileName + " with commented defaults",
		GroupID: GroupUtility,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			path, err := config.Init(dir, force)
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
