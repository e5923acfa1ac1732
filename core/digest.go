package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/devpulse/schema"
)

// Medal shortcodes rendered by Slack, podium order.
var medalEmojis = []string{":first_place_medal:", ":second_place_medal:", ":third_place_medal:"}

// Insights beyond this count stay out of the digest to keep it scannable.
const digestInsightLimit = 2

// BuildSlackDigest renders an analysis result as a Slack mrkdwn message:
// header, team overview, podium of top contributors, a couple of
// insights, and a closing nudge.
func BuildSlackDigest(result *schema.AnalysisResult) string {
	if result == nil || len(result.Scores) == 0 {
		return "No productivity data available for today's report."
	}
	summary := result.Summary

	var b strings.Builder
	b.WriteString(":rocket: *Daily Productivity Report* :rocket:\n")
	fmt.Fprintf(&b, "*Period:* %s\n\n", result.Period)

	b.WriteString(":bar_chart: *Team Overview*\n")
	fmt.Fprintf(&b, "• Active Engineers: %d/%d\n", summary.ActiveEngineers, summary.TotalEngineers)
	fmt.Fprintf(&b, "• Pull Requests: %d\n", summary.TotalPRs)
	fmt.Fprintf(&b, "• Commits: %d\n", summary.TotalCommits)
	fmt.Fprintf(&b, "• Tickets Completed: %d\n", summary.TotalTicketsCompleted)
	fmt.Fprintf(&b, "• Average Score: %.1f/100\n\n", summary.AverageScore)

	b.WriteString(":star: *Top Contributors*\n")
	for i, s := range result.TopScores(len(medalEmojis)) {
		fmt.Fprintf(&b, "%s %s - Score: %.1f (PRs: %d, Tickets: %d)\n",
			medalEmojis[i], s.Engineer, s.TotalScore, s.Github.PRsCreated, s.Jira.TicketsCompleted)
	}
	b.WriteString("\n")

	if len(result.Insights) > 0 {
		b.WriteString(":bulb: *Key Insights*\n")
		for _, insight := range result.Insights[:min(digestInsightLimit, len(result.Insights))] {
			fmt.Fprintf(&b, "• %s\n", insight)
		}
		b.WriteString("\n")
	}

	b.WriteString(":point_right: Keep up the great work, team!")
	return b.String()
}
