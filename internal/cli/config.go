package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacview/pkg/config"
)

// configCommand creates the config command. Without a subcommand it prints
// the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

Settings are merged from built-in defaults, the config file, PACVIEW_*
environment variables (for example PACVIEW_UI_SORT=size) and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Encode(os.Stdout, cfg)
		},
	}

	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagConfig)
			path = config.Path(path)

			if err := config.WriteFile(path, config.Defaults(), force); err != nil {
				return err
			}

			printSuccess("Configuration written")
			printFile(path)
			printNewline()
			printNextStep("Show effective settings", appName+" config")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
