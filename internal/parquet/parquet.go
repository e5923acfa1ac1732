// Package parquet provides data structures and functions for exporting
// productivity analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/devpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single productivity analysis run with metadata.
// This struct maps to the devpulse_analysis_runs database table.
type AnalysisRun struct {
	// RunID is the unique identifier for this analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// StartedAt is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the analysis completed (nullable, stored as TIMESTAMP with nanosecond precision)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// PeriodStart is the beginning of the analyzed activity window (nullable)
	PeriodStart *time.Time `parquet:"period_start,optional,snappy"`

	// PeriodEnd is the end of the analyzed activity window (nullable)
	PeriodEnd *time.Time `parquet:"period_end,optional,snappy"`

	// EngineerCount is the number of engineers scored in this run
	EngineerCount int32 `parquet:"engineer_count,snappy"`

	// DurationMs is the duration of the analysis run in milliseconds (nullable)
	DurationMs *int64 `parquet:"duration_ms,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// EngineerScore represents the scores and stats for a single engineer in a run.
// This struct maps to the devpulse_engineer_scores database table.
type EngineerScore struct {
	// RunID references the parent analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// Engineer is the display name the score was keyed by
	Engineer string `parquet:"engineer,snappy"`

	// GithubScore is the code-hosting component score (0-100)
	GithubScore float64 `parquet:"github_score,snappy"`

	// JiraScore is the issue-tracking component score (0-100)
	JiraScore float64 `parquet:"jira_score,snappy"`

	// CollaborationScore is the review and comment component score (0-100)
	CollaborationScore float64 `parquet:"collaboration_score,snappy"`

	// QualityScore is the text-quality component score (0-100)
	QualityScore float64 `parquet:"quality_score,snappy"`

	// VelocityScore is the throughput component score (0-100)
	VelocityScore float64 `parquet:"velocity_score,snappy"`

	// TotalScore is the weighted, population-rescaled overall score
	TotalScore float64 `parquet:"total_score,snappy"`

	// PercentileRank is the engineer's standing within the run population
	PercentileRank float64 `parquet:"percentile_rank,snappy"`

	// PRsCreated is the number of pull requests opened in the window
	PRsCreated int32 `parquet:"prs_created,snappy"`

	// PRsMerged is the number of pull requests merged in the window
	PRsMerged int32 `parquet:"prs_merged,snappy"`

	// CommitsMade is the number of commits authored in the window
	CommitsMade int32 `parquet:"commits_made,snappy"`

	// TicketsCompleted is the number of tickets resolved in the window
	TicketsCompleted int32 `parquet:"tickets_completed,snappy"`

	// StoryPoints is the sum of story points on completed tickets
	StoryPoints float64 `parquet:"story_points,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteEngineerScoresParquet writes a slice of EngineerScore structs to a Parquet file.
func WriteEngineerScoresParquet(data []EngineerScore, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the EngineerScore struct tags
	writer := parquet.NewGenericWriter[EngineerScore](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	startedAt1 := now.Add(-2 * time.Hour)
	finishedAt1 := now.Add(-1*time.Hour - 55*time.Minute)
	periodStart1 := startedAt1.AddDate(0, 0, -14)
	durationMs1 := finishedAt1.Sub(startedAt1).Milliseconds()
	configParams1 := `{"lookback_days":14,"github_org":"acme","jira_project":"DEV"}`

	startedAt2 := now.Add(-24 * time.Hour)
	finishedAt2 := now.Add(-23*time.Hour - 58*time.Minute)
	periodStart2 := startedAt2.AddDate(0, 0, -30)
	durationMs2 := finishedAt2.Sub(startedAt2).Milliseconds()
	configParams2 := `{"lookback_days":30,"github_org":"acme","jira_project":"DEV"}`

	startedAt3 := now.Add(-10 * time.Minute)
	// Note: finishedAt3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []AnalysisRun{
		{
			RunID:         1,
			StartedAt:     startedAt1,
			FinishedAt:    &finishedAt1,
			PeriodStart:   &periodStart1,
			PeriodEnd:     &startedAt1,
			EngineerCount: 8,
			DurationMs:    &durationMs1,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			StartedAt:     startedAt2,
			FinishedAt:    &finishedAt2,
			PeriodStart:   &periodStart2,
			PeriodEnd:     &startedAt2,
			EngineerCount: 12,
			DurationMs:    &durationMs2,
			ConfigParams:  &configParams2,
		},
		{
			RunID:         3,
			StartedAt:     startedAt3,
			FinishedAt:    nil, // Still running - nullable field
			PeriodStart:   nil,
			PeriodEnd:     nil,
			EngineerCount: 0,
			DurationMs:    nil, // Not yet calculated - nullable field
			ConfigParams:  nil, // No config stored - nullable field
		},
	}
}

// MockFetchEngineerScores generates sample EngineerScore data for demonstration.
func MockFetchEngineerScores() []EngineerScore {
	return []EngineerScore{
		{
			RunID:              1,
			Engineer:           "Alice Chen",
			GithubScore:        82.4,
			JiraScore:          74.0,
			CollaborationScore: 68.5,
			QualityScore:       71.2,
			VelocityScore:      79.8,
			TotalScore:         84.3,
			PercentileRank:     92.0,
			PRsCreated:         9,
			PRsMerged:          8,
			CommitsMade:        31,
			TicketsCompleted:   6,
			StoryPoints:        21.0,
		},
		{
			RunID:              1,
			Engineer:           "Bob Lee",
			GithubScore:        61.0,
			JiraScore:          58.3,
			CollaborationScore: 72.1,
			QualityScore:       55.9,
			VelocityScore:      60.4,
			TotalScore:         63.7,
			PercentileRank:     54.0,
			PRsCreated:         5,
			PRsMerged:          4,
			CommitsMade:        18,
			TicketsCompleted:   4,
			StoryPoints:        11.0,
		},
		{
			RunID:              2,
			Engineer:           "Carol Diaz",
			GithubScore:        40.2,
			JiraScore:          66.8,
			CollaborationScore: 49.0,
			QualityScore:       58.1,
			VelocityScore:      45.6,
			TotalScore:         51.2,
			PercentileRank:     33.0,
			PRsCreated:         2,
			PRsMerged:          2,
			CommitsMade:        7,
			TicketsCompleted:   5,
			StoryPoints:        13.0,
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to AnalysisRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			RunID:         record.RunID,
			StartedAt:     record.StartedAt,
			FinishedAt:    record.FinishedAt,
			PeriodStart:   record.PeriodStart,
			PeriodEnd:     record.PeriodEnd,
			EngineerCount: int32(record.EngineerCount),
			DurationMs:    record.DurationMs,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertScoreRecords converts schema.ScoreRecord to EngineerScore for Parquet export.
func ConvertScoreRecords(records []schema.ScoreRecord) []EngineerScore {
	result := make([]EngineerScore, len(records))
	for i, record := range records {
		result[i] = EngineerScore{
			RunID:              record.RunID,
			Engineer:           record.Engineer,
			GithubScore:        record.GithubScore,
			JiraScore:          record.JiraScore,
			CollaborationScore: record.CollaborationScore,
			QualityScore:       record.QualityScore,
			VelocityScore:      record.VelocityScore,
			TotalScore:         record.TotalScore,
			PercentileRank:     record.PercentileRank,
			PRsCreated:         int32(record.PRsCreated),
			PRsMerged:          int32(record.PRsMerged),
			CommitsMade:        int32(record.CommitsMade),
			TicketsCompleted:   int32(record.TicketsCompleted),
			StoryPoints:        record.StoryPoints,
		}
	}
	return result
}
