// Package consolecmder provides the console command, a full-screen terminal
// UI for administering the assistant backend: intent mappings, query logs,
// few-shot examples, and the vector document store.
package consolecmder

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/config"
	"github.com/promptsteer/steer/pkg/logger"
)

const consoleLongDesc string = `Open the steer admin console.

The console is a full-screen terminal UI with four tabs:
  intents     Manage keyword-to-behavior intent mappings
  querylogs   Browse past queries, view stats, promote logs to few-shots
  fewshots    Curate few-shot examples and inspect their audit trail
  dashboard   Inspect the vector store collection and its documents

The backend address resolves from, in order: the --api-target flag, the
STEER_CLIENT_API_TARGET environment variable, client.api_target in
.steer/config.toml, and finally http://localhost:8000.

Examples:
  steer console
  steer console --tab querylogs
  steer console --api-target http://backend:8000`

const consoleShortDesc string = "Open the admin console TUI"

type consoleCommander struct {
	apiTarget string
	tab       string
	limit     uint
}

func NewConsoleCmd() *cobra.Command {
	cmder := &consoleCommander{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: consoleShortDesc,
		Long:  consoleLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(debug, configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", "", "Backend base URL (overrides config)")
	cmd.Flags().StringVarP(&cmder.tab, "tab", "t", "", "Starting tab: intents|querylogs|fewshots|dashboard")
	cmd.Flags().UintVarP(&cmder.limit, "limit", "l", 0, "Page size for list fetches (overrides config)")

	return cmd
}

func (c *consoleCommander) run(debug bool, configDir string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("console requires a terminal; use the status and docs subcommands for scripting")
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}

	target := c.apiTarget
	if target == "" {
		target = v.GetString("client.api_target")
	}

	limit := c.limit
	if limit == 0 {
		limit = v.GetUint("console.page_limit")
	}

	tab := c.tab
	if tab == "" {
		tab = v.GetString("console.start_tab")
	}
	startTab, err := parseTab(tab)
	if err != nil {
		return err
	}

	timeout := time.Duration(v.GetUint("client.timeout_seconds")) * time.Second
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	client := adminapi.NewClient(target, timeout, log)

	return runConsoleTUI(client, startTab, int(limit))
}

func parseTab(name string) (consoleTab, error) {
	switch name {
	case "", "intents":
		return tabIntents, nil
	case "querylogs":
		return tabQueryLogs, nil
	case "fewshots":
		return tabFewShots, nil
	case "dashboard":
		return tabDashboard, nil
	}
	return tabIntents, fmt.Errorf("unknown tab %q (want intents|querylogs|fewshots|dashboard)", name)
}
