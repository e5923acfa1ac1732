package core

import (
	"fmt"
	"sort"

	"github.com/huangsam/devpulse/schema"
)

// Display names for the component areas called out in team summaries.
var componentAreaNames = map[schema.Component]string{
	schema.GithubComponent:        "GitHub Activity",
	schema.JiraComponent:          "Jira Delivery",
	schema.CollaborationComponent: "Collaboration",
	schema.QualityComponent:       "Code Quality",
}

// Classification thresholds shared by the summary builders.
const (
	activeScoreFloor   = 10.0
	highPerformerFloor = 70.0
	lowPerformerFloor  = 30.0
	highTrendShare     = 0.3
	moderateTrendShare = 0.1

	excellentHealthFloor = 70.0
	goodHealthFloor      = 50.0
	fairHealthFloor      = 30.0

	highGithubPerHead     = 10.0
	moderateGithubPerHead = 5.0
	highJiraPerHead       = 3.0
	moderateJiraPerHead   = 1.5
	highCollabFloor       = 60.0
	moderateCollabFloor   = 40.0

	weakComponentFloor = 40.0
	weakQualityFloor   = 50.0
)

// buildTeamSummary reduces the ranked score list into headline numbers.
func buildTeamSummary(scores []schema.EnrichedScore) schema.TeamSummary {
	summary := schema.TeamSummary{Trend: schema.StableTrend}
	if len(scores) == 0 {
		return summary
	}

	summary.TotalEngineers = len(scores)
	var highPerformers int
	for _, s := range scores {
		if s.TotalScore > activeScoreFloor {
			summary.ActiveEngineers++
		}
		if s.TotalScore > highPerformerFloor {
			highPerformers++
		}
		summary.TotalPRs += s.Github.PRsCreated
		summary.TotalCommits += s.Github.CommitsMade
		summary.TotalTicketsCompleted += s.Jira.TicketsCompleted
		summary.AverageScore += s.TotalScore
	}
	summary.AverageScore /= float64(len(scores))

	share := float64(highPerformers) / float64(len(scores))
	switch {
	case share > highTrendShare:
		summary.Trend = schema.HighTrend
	case share > moderateTrendShare:
		summary.Trend = schema.ModerateTrend
	default:
		summary.Trend = schema.LowTrend
	}

	areas := rankComponentAreas(scores)
	summary.TopAreas = areas[:2]
	summary.ImprovementAreas = areas[len(areas)-2:]
	return summary
}

// rankComponentAreas orders the four component areas best first. Ties keep
// the declaration order of the components.
func rankComponentAreas(scores []schema.EnrichedScore) []string {
	type area struct {
		name string
		mean float64
	}
	areas := make([]area, 0, len(schema.AllComponents))
	for _, c := range schema.AllComponents {
		areas = append(areas, area{name: componentAreaNames[c], mean: componentMean(scores, c)})
	}
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].mean > areas[j].mean })

	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = a.name
	}
	return names
}

// buildDetailedSummary assembles the drill-down sections of a report.
func buildDetailedSummary(scores []schema.EnrichedScore) schema.DetailedSummary {
	details := schema.DetailedSummary{ComponentAverages: map[schema.Component]float64{}}
	if len(scores) == 0 {
		return details
	}

	for _, s := range scores {
		switch schema.GetPerformanceBand(s.TotalScore) {
		case schema.HighBand:
			details.Distribution.High++
		case schema.MediumBand:
			details.Distribution.Medium++
		default:
			details.Distribution.Low++
		}
		if s.Github.PRsCreated > 0 {
			details.Patterns.PRCreators++
		}
		if s.Github.PRsReviewed > 2 {
			details.Patterns.ActiveReviewers++
		}
		if s.Jira.TicketsCompleted > 0 {
			details.Patterns.TicketCompleters++
		}
		if s.CollaborationScore > highCollabFloor {
			details.Patterns.StrongCollaborators++
		}
	}
	for _, c := range schema.AllComponents {
		details.ComponentAverages[c] = componentMean(scores, c)
	}
	return details
}

// buildTrends classifies run health against coarse per-head thresholds.
func buildTrends(scores []schema.EnrichedScore) schema.TrendSet {
	trends := schema.TrendSet{
		OverallHealth:      schema.StableTrend,
		GithubActivity:     schema.ModerateTrend,
		JiraDelivery:       schema.ModerateTrend,
		CollaborationLevel: schema.ModerateTrend,
	}
	if len(scores) == 0 {
		return trends
	}
	heads := float64(len(scores))

	switch avg := meanTotal(scores); {
	case avg > excellentHealthFloor:
		trends.OverallHealth = schema.ExcellentHealth
	case avg > goodHealthFloor:
		trends.OverallHealth = schema.GoodHealth
	case avg > fairHealthFloor:
		trends.OverallHealth = schema.FairHealth
	default:
		trends.OverallHealth = schema.NeedsAttentionHealth
	}

	var githubActivity int
	var ticketsCompleted int
	for _, s := range scores {
		githubActivity += s.Github.PRsCreated + s.Github.CommitsMade + s.Github.PRsReviewed
		ticketsCompleted += s.Jira.TicketsCompleted
	}
	switch {
	case float64(githubActivity) > heads*highGithubPerHead:
		trends.GithubActivity = schema.HighTrend
	case float64(githubActivity) > heads*moderateGithubPerHead:
		trends.GithubActivity = schema.ModerateTrend
	default:
		trends.GithubActivity = schema.LowTrend
	}
	switch {
	case float64(ticketsCompleted) > heads*highJiraPerHead:
		trends.JiraDelivery = schema.HighTrend
	case float64(ticketsCompleted) > heads*moderateJiraPerHead:
		trends.JiraDelivery = schema.ModerateTrend
	default:
		trends.JiraDelivery = schema.LowTrend
	}

	switch avgCollab := componentMean(scores, schema.CollaborationComponent); {
	case avgCollab > highCollabFloor:
		trends.CollaborationLevel = schema.HighTrend
	case avgCollab > moderateCollabFloor:
		trends.CollaborationLevel = schema.ModerateTrend
	default:
		trends.CollaborationLevel = schema.LowTrend
	}
	return trends
}

// buildInsights turns notable run patterns into short sentences.
func buildInsights(scores []schema.EnrichedScore, trends schema.TrendSet) []string {
	var insights []string
	if len(scores) == 0 {
		return insights
	}

	var highPerformers int
	for _, s := range scores {
		if s.TotalScore > highPerformerFloor {
			highPerformers++
		}
	}
	if float64(highPerformers) > float64(len(scores))*highTrendShare {
		insights = append(insights, "Strong team performance with multiple high contributors")
	}
	if trends.GithubActivity == schema.HighTrend {
		insights = append(insights, "High GitHub activity indicates active development")
	}
	if trends.JiraDelivery == schema.HighTrend {
		insights = append(insights, "Excellent ticket completion rate")
	}
	if trends.CollaborationLevel == schema.LowTrend {
		insights = append(insights, "Consider increasing code review and collaboration activities")
	}
	if componentMean(scores, schema.QualityComponent) > highPerformerFloor {
		insights = append(insights, "High code quality standards maintained")
	}
	return insights
}

// buildRecommendations evaluates the recommendation rules in a fixed order
// so output stays deterministic across runs.
func buildRecommendations(summary schema.TeamSummary, scores []schema.EnrichedScore) []string {
	if len(scores) == 0 {
		return []string{"Insufficient data for recommendations"}
	}

	var recs []string
	if summary.AverageScore < weakComponentFloor {
		recs = append(recs, "Team productivity is below average. Consider reviewing current processes and providing additional support.")
	}
	if componentMean(scores, schema.GithubComponent) < weakComponentFloor {
		recs = append(recs, "GitHub activity is low. Encourage more frequent commits, PR creation, and code reviews.")
	}
	if componentMean(scores, schema.JiraComponent) < weakComponentFloor {
		recs = append(recs, "Jira delivery metrics are low. Review sprint planning and ticket estimation processes.")
	}
	if componentMean(scores, schema.CollaborationComponent) < weakComponentFloor {
		recs = append(recs, "Team collaboration is below optimal. Encourage more peer reviews and knowledge sharing.")
	}
	if componentMean(scores, schema.QualityComponent) < weakQualityFloor {
		recs = append(recs, "Code quality metrics suggest room for improvement. Consider adopting coding standards and documentation practices.")
	}

	var low, high int
	for _, s := range scores {
		if s.TotalScore < lowPerformerFloor {
			low++
		}
		if s.TotalScore > highPerformerFloor {
			high++
		}
	}
	if low > 0 {
		recs = append(recs, fmt.Sprintf("%d engineer(s) may benefit from additional mentoring and support.", low))
	}
	if high > 0 {
		recs = append(recs, fmt.Sprintf("Recognize and celebrate %d top performer(s) for their excellent contributions.", high))
	}
	return recs
}

// componentMean averages one component score across the population.
func componentMean(scores []schema.EnrichedScore, c schema.Component) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.ComponentScore(c)
	}
	return sum / float64(len(scores))
}

// meanTotal averages the total score across the population.
func meanTotal(scores []schema.EnrichedScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.TotalScore
	}
	return sum / float64(len(scores))
}
