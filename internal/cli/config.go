package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and check the configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configCheckCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML: built-in defaults, overlaid by
the config file, overlaid by MINDLAYOUT_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// configCheckCommand creates the "config check" subcommand.
func (c *CLI) configCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and connect to the cache backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printSuccess("Configuration is valid")
			printKeyValue("strategy", cfg.Layout.Strategy)
			printKeyValue("cache", cfg.Cache.Backend)
			printKeyValue("server", cfg.Server.Addr)

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Connecting to %s cache...", cfg.Cache.Backend))
			spinner.Start()
			err = pingCache(cmd.Context(), cfg.Cache)
			if err != nil {
				spinner.StopWithError("Cache unreachable")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Cache backend %q ready", cfg.Cache.Backend))
			return nil
		},
	}
}
