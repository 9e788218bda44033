package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/config"
)

func configCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default user config if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger := newLogger(opts.logLevel, cmd.ErrOrStderr())
				path, created, err := config.NewLoader(logger).EnsureUserConfig()
				if err != nil {
					return fmt.Errorf("init user config: %w", err)
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.setup(cmd)
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)

	return cmd
}
