package commands

import (
	"fmt"

	"github.com/iwvelando/donation-impact/internal/config"
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/spf13/cobra"
)

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the built-in configuration as a YAML starting point",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := constants.ExampleConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteExample(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
}
