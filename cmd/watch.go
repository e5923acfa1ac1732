package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd runs the pipeline on a daily schedule.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run daily and post the digest to Slack until interrupted.",
	Long: `Run devpulse as a long-lived process that analyzes the team once a day
and posts the digest to Slack.

The run fires at --report-time in --timezone. Every iteration derives a fresh
window ending at the moment it fires, spanning --lookback-days. A failed run
is logged and the loop keeps going; the next day's run is unaffected.

Slack credentials are required in watch mode since the digest is the whole
point of the loop. Stop with Ctrl-C (SIGINT) or SIGTERM.

Examples:
  # Daily digest at 09:00 UTC (defaults)
  devpulse watch

  # Standup-aligned digest in Pacific time
  devpulse watch --report-time 08:45 --timezone America/Los_Angeles

  # Weekly-scale window, daily cadence
  devpulse watch --lookback-days 7`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWatch(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Watch loop failed", err)
		}
	},
}
