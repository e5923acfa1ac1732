package schema

import "time"

// Team trend labels.
const (
	HighTrend     = "high"
	ModerateTrend = "moderate"
	LowTrend      = "low"
	StableTrend   = "stable" // placeholder trend for an empty run
)

// Overall health labels, from best to worst.
const (
	ExcellentHealth      = "excellent"
	GoodHealth           = "good"
	FairHealth           = "fair"
	NeedsAttentionHealth = "needs_attention"
)

// TeamSummary aggregates all scores of one run. Derived, stateless,
// recomputed every run.
type TeamSummary struct {
	TotalEngineers        int      `json:"total_engineers"`
	ActiveEngineers       int      `json:"active_engineers"` // total score above 10
	TotalPRs              int      `json:"total_prs"`
	TotalCommits          int      `json:"total_commits"`
	TotalTicketsCompleted int      `json:"total_tickets_completed"`
	AverageScore          float64  `json:"average_score"`
	Trend                 string   `json:"trend"`
	TopAreas              []string `json:"top_areas"`
	ImprovementAreas      []string `json:"improvement_areas"`
}

// ScoreDistribution buckets engineers by performance band.
type ScoreDistribution struct {
	High   int `json:"high"`   // total >= 70
	Medium int `json:"medium"` // 40 <= total < 70
	Low    int `json:"low"`    // total < 40
}

// ActivityPatterns counts engineers participating in key activities.
type ActivityPatterns struct {
	PRCreators          int `json:"pr_creators"`
	ActiveReviewers     int `json:"active_reviewers"` // more than 2 PRs reviewed
	TicketCompleters    int `json:"ticket_completers"`
	StrongCollaborators int `json:"strong_collaborators"` // collaboration score above 60
}

// DetailedSummary carries the drill-down sections of a team report.
type DetailedSummary struct {
	Distribution      ScoreDistribution     `json:"distribution"`
	ComponentAverages map[Component]float64 `json:"component_averages"`
	Patterns          ActivityPatterns      `json:"patterns"`
}

// TrendSet holds the coarse health labels computed for one run.
type TrendSet struct {
	OverallHealth      string `json:"overall_health"`
	GithubActivity     string `json:"github_activity"`
	JiraDelivery       string `json:"jira_delivery"`
	CollaborationLevel string `json:"collaboration_level"`
}

// StageStat records instrumentation for one pipeline stage boundary.
type StageStat struct {
	Name       string  `json:"name"`
	Items      int     `json:"items"`
	DurationMs float64 `json:"duration_ms"`
}

// AnalysisResult is the complete outcome of one analysis run. It is plain
// serializable data (numbers, strings, nested structs and slices only) so any
// presentation layer can consume it without touching pipeline internals.
type AnalysisResult struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	Period           string          `json:"period"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	Scores           []EnrichedScore `json:"scores"`
	Summary          TeamSummary     `json:"summary"`
	Details          DetailedSummary `json:"details"`
	Trends           TrendSet        `json:"trends"`
	Insights         []string        `json:"insights"`
	Recommendations  []string        `json:"recommendations"`
	Fetch            FetchCounts     `json:"fetch"`
	Stages           []StageStat     `json:"stages"`
	DocumentsIndexed int             `json:"documents_indexed"`
}

// TopScores returns up to limit of the highest ranked scores.
func (r *AnalysisResult) TopScores(limit int) []EnrichedScore {
	if limit <= 0 || limit >= len(r.Scores) {
		return r.Scores
	}
	return r.Scores[:limit]
}
