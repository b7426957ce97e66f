// Package steercmder
package steercmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/promptsteer/steer/cmd/steer/config"
	consolecmder "github.com/promptsteer/steer/cmd/steer/console"
	docscmder "github.com/promptsteer/steer/cmd/steer/docs"
	statuscmder "github.com/promptsteer/steer/cmd/steer/status"
	versioncmder "github.com/promptsteer/steer/cmd/steer/version"
)

const steerLongDesc string = `Steer is an admin console for your retrieval assistant.

Open the interactive console with:
  steer console

Or script against the backend directly:
  steer status         Show a backend summary
  steer docs list      List indexed documents
  steer config list    Show persistent configuration`

const steerShortDesc string = "Steer - Assistant Admin Console"

func NewSteerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steer",
		Short: steerShortDesc,
		Long:  steerLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .steer/ config directory")

	// Add subcommands
	cmd.AddCommand(consolecmder.NewConsoleCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(docscmder.NewDocsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
