// Package docscmder provides the docs command group: scriptable access to
// the vector store documents that back retrieval (list, show, delete).
package docscmder

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/config"
	"github.com/promptsteer/steer/pkg/logger"
)

const docsLongDesc string = `Inspect and manage indexed documents without opening the console.

Examples:
  steer docs list
  steer docs show 3f8a2c71-9b0e-4d55-a1f2-6c0d8e9b1a23
  steer docs delete 3f8a2c71-9b0e-4d55-a1f2-6c0d8e9b1a23`

const docsShortDesc string = "Manage indexed documents"

func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: docsShortDesc,
		Long:  docsLongDesc,
	}

	cmd.PersistentFlags().StringP("api-target", "a", "", "Backend base URL (overrides config)")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

// newDocsClient resolves the backend target the same way the console does:
// flag first, then config file, then STEER_ environment.
func newDocsClient(cmd *cobra.Command) (*adminapi.Client, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}

	target, _ := cmd.Flags().GetString("api-target")
	if target == "" {
		target = v.GetString("client.api_target")
	}
	timeout := time.Duration(v.GetUint("client.timeout_seconds")) * time.Second

	return adminapi.NewClient(target, timeout, logger.NewLogger(debug)), nil
}
