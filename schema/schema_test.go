package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPerformanceBand checks band boundaries.
func TestGetPerformanceBand(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{name: "top of scale", score: 100, expected: HighBand},
		{name: "high boundary", score: 70, expected: HighBand},
		{name: "just below high", score: 69.99, expected: MediumBand},
		{name: "medium boundary", score: 40, expected: MediumBand},
		{name: "just below medium", score: 39.99, expected: LowBand},
		{name: "zero", score: 0, expected: LowBand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPerformanceBand(tt.score))
		})
	}
}

// TestEnrichScores verifies rank assignment and band labeling.
func TestEnrichScores(t *testing.T) {
	scores := []*ProductivityScore{
		{Engineer: "alice", TotalScore: 92.5},
		{Engineer: "bob", TotalScore: 55.0},
		{Engineer: "carol", TotalScore: 12.0},
	}

	enriched := EnrichScores(scores)

	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, HighBand, enriched[0].Band)
	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, MediumBand, enriched[1].Band)
	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, LowBand, enriched[2].Band)
	assert.Equal(t, "alice", enriched[0].Engineer)
}

// TestGetComponentWeights ensures weights cover all components and sum to one.
func TestGetComponentWeights(t *testing.T) {
	weights := GetComponentWeights()

	sum := 0.0
	for _, c := range AllComponents {
		w, ok := weights[c]
		assert.True(t, ok, "missing weight for %s", c)
		sum += w
	}
	assert.InEpsilon(t, 1.0, sum, 1e-9)
}

// TestComponentScore checks component lookup on a score.
func TestComponentScore(t *testing.T) {
	s := ProductivityScore{
		GithubScore:        10,
		JiraScore:          20,
		CollaborationScore: 30,
		QualityScore:       40,
	}

	assert.Equal(t, 10.0, s.ComponentScore(GithubComponent))
	assert.Equal(t, 20.0, s.ComponentScore(JiraComponent))
	assert.Equal(t, 30.0, s.ComponentScore(CollaborationComponent))
	assert.Equal(t, 40.0, s.ComponentScore(QualityComponent))
}

// TestCountFetch verifies raw record counting.
func TestCountFetch(t *testing.T) {
	t.Run("nil data", func(t *testing.T) {
		counts := CountFetch(nil)
		assert.Zero(t, counts.PullRequests)
		assert.Zero(t, counts.SkippedRecords)
	})

	t.Run("populated data", func(t *testing.T) {
		data := &PlatformData{
			Github: &GithubData{
				PullRequests: make([]PullRequest, 3),
				Commits:      make([]Commit, 5),
				Reviews:      make([]Review, 1),
				Skipped:      2,
			},
			Jira: &JiraData{
				Tickets:  make([]Ticket, 4),
				Comments: make([]TicketComment, 2),
				Skipped:  1,
			},
		}
		counts := CountFetch(data)
		assert.Equal(t, 3, counts.PullRequests)
		assert.Equal(t, 5, counts.Commits)
		assert.Equal(t, 1, counts.Reviews)
		assert.Equal(t, 4, counts.Tickets)
		assert.Equal(t, 2, counts.TicketComments)
		assert.Zero(t, counts.Transitions)
		assert.Equal(t, 3, counts.SkippedRecords)
	})
}

// TestTopScores checks the display cap on ranked scores.
func TestTopScores(t *testing.T) {
	result := AnalysisResult{Scores: make([]EnrichedScore, 5)}

	assert.Len(t, result.TopScores(3), 3)
	assert.Len(t, result.TopScores(10), 5)
	assert.Len(t, result.TopScores(0), 5)
}

// TestAnalysisResultRoundTrip verifies that a result survives JSON
// serialization with its numeric fields intact.
func TestAnalysisResultRoundTrip(t *testing.T) {
	generated := time.Date(2025, 11, 8, 9, 0, 0, 0, time.UTC)
	original := AnalysisResult{
		GeneratedAt: generated,
		Period:      "2025-11-01 to 2025-11-08",
		PeriodStart: generated.AddDate(0, 0, -7),
		PeriodEnd:   generated,
		Scores: []EnrichedScore{{
			Rank: 1,
			Band: HighBand,
			ProductivityScore: ProductivityScore{
				Engineer:           "alice",
				GithubScore:        68.7832,
				JiraScore:          76.6536,
				CollaborationScore: 34.0,
				QualityScore:       26.8333,
				VelocityScore:      70.5,
				TotalScore:         100.0,
				PercentileRank:     66.6667,
				Github:             GithubStats{PRsCreated: 4, LinesAdded: 1500},
				Jira:               JiraStats{TicketsCompleted: 3, StoryPointsCompleted: 8.5, TimeToCompletion: 61.25},
				Breakdown:          map[BreakdownKey]float64{BreakdownPRs: 13.0, BreakdownCompleted: 18.0},
			},
		}},
		Summary: TeamSummary{TotalEngineers: 1, ActiveEngineers: 1, AverageScore: 57.125, Trend: HighTrend},
		Fetch:   FetchCounts{PullRequests: 4, Tickets: 3},
		Stages:  []StageStat{{Name: "fetch", Items: 7, DurationMs: 12.345}},
	}

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded AnalysisResult
	require.NoError(t, json.Unmarshal(payload, &decoded))

	require.Len(t, decoded.Scores, 1)
	got := decoded.Scores[0]
	want := original.Scores[0]
	assert.InDelta(t, want.GithubScore, got.GithubScore, 0.005)
	assert.InDelta(t, want.JiraScore, got.JiraScore, 0.005)
	assert.InDelta(t, want.CollaborationScore, got.CollaborationScore, 0.005)
	assert.InDelta(t, want.QualityScore, got.QualityScore, 0.005)
	assert.InDelta(t, want.VelocityScore, got.VelocityScore, 0.005)
	assert.InDelta(t, want.TotalScore, got.TotalScore, 0.005)
	assert.InDelta(t, want.PercentileRank, got.PercentileRank, 0.005)
	assert.InDelta(t, want.Jira.StoryPointsCompleted, got.Jira.StoryPointsCompleted, 0.005)
	assert.InDelta(t, want.Jira.TimeToCompletion, got.Jira.TimeToCompletion, 0.005)
	assert.InDelta(t, want.Breakdown[BreakdownPRs], got.Breakdown[BreakdownPRs], 0.005)
	assert.Equal(t, want.Github, got.Github)
	assert.Equal(t, want.Rank, got.Rank)
	assert.Equal(t, want.Band, got.Band)
	assert.Equal(t, original.Summary, decoded.Summary)
	assert.Equal(t, original.Fetch, decoded.Fetch)
	assert.InDelta(t, 12.345, decoded.Stages[0].DurationMs, 0.005)
	assert.True(t, original.GeneratedAt.Equal(decoded.GeneratedAt))
}
