package schema

import "time"

// RunRecord is a row from the devpulse_analysis_runs table.
type RunRecord struct {
	RunID         int64      `json:"run_id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
	EngineerCount int        `json:"engineer_count"`
	DurationMs    *int64     `json:"duration_ms,omitempty"`
	ConfigParams  *string    `json:"config_params,omitempty"` // JSON-encoded run parameters
}

// ScoreRecord is a row from the devpulse_engineer_scores table.
type ScoreRecord struct {
	RunID              int64   `json:"run_id"`
	Engineer           string  `json:"engineer"`
	GithubScore        float64 `json:"github_score"`
	JiraScore          float64 `json:"jira_score"`
	CollaborationScore float64 `json:"collaboration_score"`
	QualityScore       float64 `json:"quality_score"`
	VelocityScore      float64 `json:"velocity_score"`
	TotalScore         float64 `json:"total_score"`
	PercentileRank     float64 `json:"percentile_rank"`
	PRsCreated         int     `json:"prs_created"`
	PRsMerged          int     `json:"prs_merged"`
	CommitsMade        int     `json:"commits_made"`
	TicketsCompleted   int     `json:"tickets_completed"`
	StoryPoints        float64 `json:"story_points"`
}

// StoreStatus summarizes the persistence layer for the status command.
type StoreStatus struct {
	Backend        StoreBackend     `json:"backend"`
	TotalRuns      int              `json:"total_runs"`
	TotalScores    int              `json:"total_scores"`
	TotalDocuments int              `json:"total_documents"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	LastRunAt      *time.Time       `json:"last_run_at,omitempty"`
}
