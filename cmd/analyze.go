package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the scoring pipeline and renders the leaderboard.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank engineers by productivity score over the lookback window.",
	Long: `Fetch activity from GitHub and Jira for the lookback window and rank
every engineer by a combined productivity score.

Each engineer is scored on four components:
- GitHub activity (PRs created/merged, commits, reviews, lines changed)
- Jira delivery (tickets completed, story points, comments)
- Collaboration (reviews given, substantial review and ticket comments)
- Quality (depth of written PR bodies, commit messages, ticket descriptions)

Scores are normalized across the run's population, so a score is only
meaningful relative to teammates in the same window.

Examples:
  # Rank the last 7 days (default window)
  devpulse analyze

  # Look back a full month and show everyone
  devpulse analyze --lookback-days 30 --limit 100

  # Export scores to CSV for tracking
  devpulse analyze --output csv --output-file scores.csv

  # Post the digest to Slack after the run
  devpulse analyze --notify

  # One-off run without touching the store
  devpulse analyze --no-store`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
