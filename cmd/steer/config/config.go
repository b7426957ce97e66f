// Package configcmder provides the config command for managing persistent
// steer configuration stored in the .steer/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent steer configuration.

Configuration is stored as config.toml in the .steer/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  client.api_target, client.timeout_seconds,
  console.page_limit, console.start_tab

Use subcommands to get, set, or list configuration values:
  steer config set <key> <value>    Set a configuration value
  steer config get <key>            Get a configuration value
  steer config list                 List all configuration values

Examples:
  steer config set client.api_target http://backend:8000
  steer config set console.start_tab querylogs
  steer config get client.api_target
  steer config list`

const configShortDesc string = "Manage persistent steer configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
