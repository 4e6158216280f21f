package commands

import (
	"github.com/spf13/cobra"
)

func addConfig(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := o.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	topLevel.AddCommand(cmd)
}
