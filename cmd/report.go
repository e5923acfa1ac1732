package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd runs the scoring pipeline and renders the full team report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Produce the full team report with trends and recommendations.",
	Long: `Run the full analysis and render a team-level report instead of the
per-engineer leaderboard.

The report includes:
- Team summary (active engineers, PR/commit/ticket totals, average score)
- Score distribution across high/medium/low performance bands
- Trend labels for overall health, GitHub activity, Jira delivery
- Insights derived from the run's strongest and weakest score components
- Threshold-based recommendations for process follow-up

Examples:
  # Render the weekly team report
  devpulse report

  # Report over a sprint and post the digest to Slack
  devpulse report --lookback-days 14 --notify

  # Machine-readable report for dashboards
  devpulse report --output json --output-file report.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
