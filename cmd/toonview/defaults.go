package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/spf13/cobra"
)

func newDefaultsCmd(opts *options) *cobra.Command {
	var current bool

	cmd := &cobra.Command{
		Use:   "defaults <out.yaml>",
		Short: "Write the default configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if current {
				cfg = opts.cfg
			}
			if err := config.Save(cfg, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "write the loaded configuration, including file and env overrides")
	return cmd
}
