package core

import (
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enriched builds a minimal score entry with only a total.
func enriched(name string, total float64) schema.EnrichedScore {
	return schema.EnrichedScore{ProductivityScore: schema.ProductivityScore{
		Engineer:   name,
		TotalScore: total,
	}}
}

// trendScore builds a score entry with the counters the trend rules read.
func trendScore(total float64, prs, commits, reviewed, completed int, collab float64) schema.EnrichedScore {
	return schema.EnrichedScore{ProductivityScore: schema.ProductivityScore{
		TotalScore:         total,
		CollaborationScore: collab,
		Github:             schema.GithubStats{PRsCreated: prs, CommitsMade: commits, PRsReviewed: reviewed},
		Jira:               schema.JiraStats{TicketsCompleted: completed},
	}}
}

// TestBuildTeamSummaryEmpty verifies the zero-value summary of an empty run.
func TestBuildTeamSummaryEmpty(t *testing.T) {
	summary := buildTeamSummary(nil)
	assert.Zero(t, summary.TotalEngineers)
	assert.Zero(t, summary.ActiveEngineers)
	assert.Zero(t, summary.TotalPRs)
	assert.Zero(t, summary.TotalCommits)
	assert.Zero(t, summary.TotalTicketsCompleted)
	assert.Zero(t, summary.AverageScore)
	assert.Equal(t, schema.StableTrend, summary.Trend)
	assert.Empty(t, summary.TopAreas)
	assert.Empty(t, summary.ImprovementAreas)
}

// TestBuildTeamSummary verifies headline aggregation and area ranking.
func TestBuildTeamSummary(t *testing.T) {
	totals := []float64{80, 75, 20, 5}
	scores := make([]schema.EnrichedScore, len(totals))
	for i, total := range totals {
		scores[i] = schema.EnrichedScore{ProductivityScore: schema.ProductivityScore{
			TotalScore:         total,
			GithubScore:        90,
			JiraScore:          60,
			CollaborationScore: 40,
			QualityScore:       10,
			Github:             schema.GithubStats{PRsCreated: 1, CommitsMade: 3},
			Jira:               schema.JiraStats{TicketsCompleted: 2},
		}}
	}

	summary := buildTeamSummary(scores)
	assert.Equal(t, 4, summary.TotalEngineers)
	assert.Equal(t, 3, summary.ActiveEngineers, "a total of 5 is below the activity floor")
	assert.Equal(t, 4, summary.TotalPRs)
	assert.Equal(t, 12, summary.TotalCommits)
	assert.Equal(t, 8, summary.TotalTicketsCompleted)
	assert.InDelta(t, 45.0, summary.AverageScore, 1e-9)
	assert.Equal(t, schema.HighTrend, summary.Trend)
	assert.Equal(t, []string{"GitHub Activity", "Jira Delivery"}, summary.TopAreas)
	assert.Equal(t, []string{"Collaboration", "Code Quality"}, summary.ImprovementAreas)
}

// TestBuildTeamSummaryTrendLabels verifies the high-performer share cuts.
func TestBuildTeamSummaryTrendLabels(t *testing.T) {
	tests := []struct {
		name     string
		totals   []float64
		expected string
	}{
		{name: "majority high", totals: []float64{80, 75, 20, 5}, expected: schema.HighTrend},
		{name: "some high", totals: []float64{80, 20, 20, 20}, expected: schema.ModerateTrend},
		{name: "none high", totals: []float64{60, 50, 20, 5}, expected: schema.LowTrend},
		{
			name:     "exact thirty percent is not high",
			totals:   []float64{90, 90, 90, 1, 1, 1, 1, 1, 1, 1},
			expected: schema.ModerateTrend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := make([]schema.EnrichedScore, len(tt.totals))
			for i, total := range tt.totals {
				scores[i] = enriched("e", total)
			}
			assert.Equal(t, tt.expected, buildTeamSummary(scores).Trend)
		})
	}
}

// TestBuildDetailedSummary verifies band buckets and activity patterns.
func TestBuildDetailedSummary(t *testing.T) {
	scores := []schema.EnrichedScore{
		{ProductivityScore: schema.ProductivityScore{
			TotalScore: 85, GithubScore: 30, JiraScore: 15, CollaborationScore: 65, QualityScore: 10,
			Github: schema.GithubStats{PRsCreated: 2, PRsReviewed: 3},
			Jira:   schema.JiraStats{TicketsCompleted: 1},
		}},
		{ProductivityScore: schema.ProductivityScore{
			TotalScore: 55, GithubScore: 60, JiraScore: 30, CollaborationScore: 30, QualityScore: 20,
			Github: schema.GithubStats{PRsReviewed: 2},
		}},
		{ProductivityScore: schema.ProductivityScore{
			TotalScore: 20, GithubScore: 90, JiraScore: 45, CollaborationScore: 10, QualityScore: 30,
			Github: schema.GithubStats{PRsCreated: 1},
		}},
	}

	details := buildDetailedSummary(scores)
	assert.Equal(t, 1, details.Distribution.High)
	assert.Equal(t, 1, details.Distribution.Medium)
	assert.Equal(t, 1, details.Distribution.Low)

	assert.Equal(t, 2, details.Patterns.PRCreators)
	assert.Equal(t, 1, details.Patterns.ActiveReviewers, "two reviewed pull requests is not active")
	assert.Equal(t, 1, details.Patterns.TicketCompleters)
	assert.Equal(t, 1, details.Patterns.StrongCollaborators)

	require.Len(t, details.ComponentAverages, len(schema.AllComponents))
	assert.InDelta(t, 60.0, details.ComponentAverages[schema.GithubComponent], 1e-9)
	assert.InDelta(t, 30.0, details.ComponentAverages[schema.JiraComponent], 1e-9)
	assert.InDelta(t, 35.0, details.ComponentAverages[schema.CollaborationComponent], 1e-9)
	assert.InDelta(t, 20.0, details.ComponentAverages[schema.QualityComponent], 1e-9)
}

// TestBuildDetailedSummaryEmpty verifies the empty-run shape.
func TestBuildDetailedSummaryEmpty(t *testing.T) {
	details := buildDetailedSummary(nil)
	assert.Zero(t, details.Distribution)
	assert.Zero(t, details.Patterns)
	assert.NotNil(t, details.ComponentAverages)
	assert.Empty(t, details.ComponentAverages)
}

// TestBuildTrends verifies the coarse health classification.
func TestBuildTrends(t *testing.T) {
	tests := []struct {
		name     string
		scores   []schema.EnrichedScore
		expected schema.TrendSet
	}{
		{
			name:   "empty run",
			scores: nil,
			expected: schema.TrendSet{
				OverallHealth:      schema.StableTrend,
				GithubActivity:     schema.ModerateTrend,
				JiraDelivery:       schema.ModerateTrend,
				CollaborationLevel: schema.ModerateTrend,
			},
		},
		{
			name: "thriving team",
			scores: []schema.EnrichedScore{
				trendScore(80, 5, 5, 5, 4, 70),
				trendScore(80, 5, 5, 5, 4, 70),
			},
			expected: schema.TrendSet{
				OverallHealth:      schema.ExcellentHealth,
				GithubActivity:     schema.HighTrend,
				JiraDelivery:       schema.HighTrend,
				CollaborationLevel: schema.HighTrend,
			},
		},
		{
			name: "steady team",
			scores: []schema.EnrichedScore{
				trendScore(60, 2, 2, 2, 2, 50),
				trendScore(60, 2, 2, 2, 2, 50),
			},
			expected: schema.TrendSet{
				OverallHealth:      schema.GoodHealth,
				GithubActivity:     schema.ModerateTrend,
				JiraDelivery:       schema.ModerateTrend,
				CollaborationLevel: schema.ModerateTrend,
			},
		},
		{
			name: "struggling team",
			scores: []schema.EnrichedScore{
				trendScore(25, 1, 1, 0, 0, 20),
				trendScore(25, 1, 1, 0, 0, 20),
			},
			expected: schema.TrendSet{
				OverallHealth:      schema.NeedsAttentionHealth,
				GithubActivity:     schema.LowTrend,
				JiraDelivery:       schema.LowTrend,
				CollaborationLevel: schema.LowTrend,
			},
		},
		{
			name:   "boundary average is not excellent",
			scores: []schema.EnrichedScore{trendScore(70, 0, 0, 0, 0, 0)},
			expected: schema.TrendSet{
				OverallHealth:      schema.GoodHealth,
				GithubActivity:     schema.LowTrend,
				JiraDelivery:       schema.LowTrend,
				CollaborationLevel: schema.LowTrend,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildTrends(tt.scores))
		})
	}
}

// TestBuildInsights verifies the insight rules and their order.
func TestBuildInsights(t *testing.T) {
	t.Run("empty run", func(t *testing.T) {
		assert.Empty(t, buildInsights(nil, schema.TrendSet{}))
	})

	t.Run("all rules fire", func(t *testing.T) {
		scores := make([]schema.EnrichedScore, 4)
		for i, total := range []float64{85, 80, 30, 20} {
			scores[i] = schema.EnrichedScore{ProductivityScore: schema.ProductivityScore{
				TotalScore:   total,
				QualityScore: 80,
			}}
		}
		trends := schema.TrendSet{
			GithubActivity:     schema.HighTrend,
			JiraDelivery:       schema.HighTrend,
			CollaborationLevel: schema.LowTrend,
		}

		assert.Equal(t, []string{
			"Strong team performance with multiple high contributors",
			"High GitHub activity indicates active development",
			"Excellent ticket completion rate",
			"Consider increasing code review and collaboration activities",
			"High code quality standards maintained",
		}, buildInsights(scores, trends))
	})

	t.Run("quiet run", func(t *testing.T) {
		scores := []schema.EnrichedScore{
			enriched("alice", 75),
			enriched("bob", 40),
			enriched("carol", 40),
			enriched("dave", 40),
		}
		trends := schema.TrendSet{
			GithubActivity:     schema.ModerateTrend,
			JiraDelivery:       schema.ModerateTrend,
			CollaborationLevel: schema.ModerateTrend,
		}
		assert.Empty(t, buildInsights(scores, trends))
	})
}

// TestBuildRecommendations verifies the rule set and its fixed order.
func TestBuildRecommendations(t *testing.T) {
	t.Run("empty run", func(t *testing.T) {
		assert.Equal(t, []string{"Insufficient data for recommendations"},
			buildRecommendations(schema.TeamSummary{}, nil))
	})

	t.Run("weak team triggers every rule", func(t *testing.T) {
		scores := []schema.EnrichedScore{
			{ProductivityScore: schema.ProductivityScore{
				TotalScore: 20, GithubScore: 10, JiraScore: 20, CollaborationScore: 35, QualityScore: 45,
			}},
			{ProductivityScore: schema.ProductivityScore{
				TotalScore: 25, GithubScore: 20, JiraScore: 30, CollaborationScore: 25, QualityScore: 35,
			}},
		}
		summary := buildTeamSummary(scores)

		assert.Equal(t, []string{
			"Team productivity is below average. Consider reviewing current processes and providing additional support.",
			"GitHub activity is low. Encourage more frequent commits, PR creation, and code reviews.",
			"Jira delivery metrics are low. Review sprint planning and ticket estimation processes.",
			"Team collaboration is below optimal. Encourage more peer reviews and knowledge sharing.",
			"Code quality metrics suggest room for improvement. Consider adopting coding standards and documentation practices.",
			"2 engineer(s) may benefit from additional mentoring and support.",
		}, buildRecommendations(summary, scores))
	})

	t.Run("strong team earns recognition only", func(t *testing.T) {
		scores := make([]schema.EnrichedScore, 3)
		for i, total := range []float64{85, 90, 75} {
			scores[i] = schema.EnrichedScore{ProductivityScore: schema.ProductivityScore{
				TotalScore: total, GithubScore: 80, JiraScore: 80, CollaborationScore: 80, QualityScore: 80,
			}}
		}
		summary := buildTeamSummary(scores)

		assert.Equal(t, []string{
			"Recognize and celebrate 3 top performer(s) for their excellent contributions.",
		}, buildRecommendations(summary, scores))
	})
}
