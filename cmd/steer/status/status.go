// Package statuscmder provides the status command, a scriptable one-shot
// summary of the backend: query volume, few-shot conversion, and the vector
// collection.
package statuscmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
	"github.com/promptsteer/steer/pkg/config"
	"github.com/promptsteer/steer/pkg/logger"
)

const statusLongDesc string = `Show a one-shot summary of the assistant backend.

Fetches the query log statistics, the intent and few-shot counts, and the
vector collection info, then prints a short report. Exits non-zero when the
backend is unreachable.

Examples:
  steer status
  steer status --api-target http://backend:8000`

const statusShortDesc string = "Show backend status"

type statusCommander struct {
	apiTarget string
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(debug, configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", "", "Backend base URL (overrides config)")

	return cmd
}

func (c *statusCommander) run(debug bool, configDir string) error {
	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}

	target := c.apiTarget
	if target == "" {
		target = v.GetString("client.api_target")
	}
	timeout := time.Duration(v.GetUint("client.timeout_seconds")) * time.Second

	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	client := adminapi.NewClient(target, timeout, log)
	return runStatus(os.Stdout, client)
}

func runStatus(w io.Writer, client *adminapi.Client) error {
	ctx := context.Background()

	fmt.Fprintf(w, "\n  %s %s\n\n", cliui.KeyStyle.Render("Backend:"), cliui.ValueStyle.Render(client.Target()))

	var stats *adminapi.QueryLogStats
	err := cliui.Step(w, "fetching query log stats", func() error {
		var stepErr error
		stats, stepErr = client.QueryLogStats(ctx)
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	var intents []adminapi.Intent
	_ = cliui.Step(w, "fetching intents", func() error {
		var stepErr error
		intents, stepErr = client.ListIntents(ctx)
		return stepErr
	})

	var fewShots []adminapi.FewShot
	_ = cliui.Step(w, "fetching few-shots", func() error {
		var stepErr error
		fewShots, stepErr = client.ListFewShots(ctx, adminapi.FewShotFilters{})
		return stepErr
	})

	var info *adminapi.CollectionInfo
	_ = cliui.Step(w, "fetching collection info", func() error {
		var stepErr error
		info, stepErr = client.CollectionStats(ctx)
		return stepErr
	})

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Queries:   "), cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.TotalQueries)))
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Converted: "), cliui.ValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", stats.ConvertedToFewShot, stats.ConversionRate)))
	for _, byIntent := range stats.ByIntent {
		fmt.Fprintf(w, "    %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%-12s", adminapi.IntentType(byIntent.Intent).Label())),
			cliui.ValueStyle.Render(fmt.Sprintf("%d", byIntent.Count)),
		)
	}

	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Intents:   "), cliui.ValueStyle.Render(fmt.Sprintf("%d", len(intents))))

	active := 0
	for _, fewShot := range fewShots {
		if fewShot.IsActive {
			active++
		}
	}
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Few-shots: "), cliui.ValueStyle.Render(fmt.Sprintf("%d (%d active)", len(fewShots), active)))

	if info != nil {
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Collection:"),
			cliui.ValueStyle.Render(fmt.Sprintf("%s · %d points · %d dims · %s", info.Name, info.PointsCount, info.VectorSize, info.Distance)))
	} else {
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Collection:"), cliui.DimStyle.Render("unavailable"))
	}

	fmt.Fprintln(w)
	return nil
}
