package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/devpulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	schema := parquet.SchemaOf(new(AnalysisRun))
	require.NotNil(t, schema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"started_at",
		"finished_at",
		"period_start",
		"period_end",
		"engineer_count",
		"duration_ms",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestEngineerScoreStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	schema := parquet.SchemaOf(new(EngineerScore))
	require.NotNil(t, schema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"engineer",
		"github_score",
		"jira_score",
		"collaboration_score",
		"quality_score",
		"velocity_score",
		"total_score",
		"percentile_rank",
		"prs_created",
		"prs_merged",
		"commits_made",
		"tickets_completed",
		"story_points",
	}

	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteAnalysisRunsParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "analysis_runs.parquet")

	// Get mock data
	data := MockFetchAnalysisRuns()
	require.NotEmpty(t, data, "Mock data should not be empty")

	// Write data to Parquet file
	err := WriteAnalysisRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[AnalysisRun](file)
	defer reader.Close()

	// Read all rows
	readData := make([]AnalysisRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	// Verify data integrity
	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].EngineerCount, readData[i].EngineerCount, "EngineerCount should match")

		// Check nullable fields
		if data[i].FinishedAt == nil {
			assert.Nil(t, readData[i].FinishedAt, "FinishedAt should be nil")
		} else {
			require.NotNil(t, readData[i].FinishedAt, "FinishedAt should not be nil")
			assert.WithinDuration(t, *data[i].FinishedAt, *readData[i].FinishedAt, time.Nanosecond, "FinishedAt should match within nanosecond precision")
		}

		if data[i].DurationMs == nil {
			assert.Nil(t, readData[i].DurationMs, "DurationMs should be nil")
		} else {
			require.NotNil(t, readData[i].DurationMs, "DurationMs should not be nil")
			assert.Equal(t, *data[i].DurationMs, *readData[i].DurationMs, "DurationMs should match")
		}

		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams, "ConfigParams should be nil")
		} else {
			require.NotNil(t, readData[i].ConfigParams, "ConfigParams should not be nil")
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams, "ConfigParams should match")
		}
	}
}

func TestWriteEngineerScoresParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "engineer_scores.parquet")

	// Get mock data
	data := MockFetchEngineerScores()
	require.NotEmpty(t, data, "Mock data should not be empty")

	// Write data to Parquet file
	err := WriteEngineerScoresParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[EngineerScore](file)
	defer reader.Close()

	// Read all rows
	readData := make([]EngineerScore, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	// Verify data integrity
	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].Engineer, readData[i].Engineer, "Engineer should match")
		assert.InDelta(t, data[i].GithubScore, readData[i].GithubScore, 0.01, "GithubScore should match")
		assert.InDelta(t, data[i].JiraScore, readData[i].JiraScore, 0.01, "JiraScore should match")
		assert.InDelta(t, data[i].TotalScore, readData[i].TotalScore, 0.01, "TotalScore should match")
		assert.InDelta(t, data[i].PercentileRank, readData[i].PercentileRank, 0.01, "PercentileRank should match")
		assert.Equal(t, data[i].PRsCreated, readData[i].PRsCreated, "PRsCreated should match")
		assert.Equal(t, data[i].PRsMerged, readData[i].PRsMerged, "PRsMerged should match")
		assert.Equal(t, data[i].CommitsMade, readData[i].CommitsMade, "CommitsMade should match")
		assert.Equal(t, data[i].TicketsCompleted, readData[i].TicketsCompleted, "TicketsCompleted should match")
		assert.InDelta(t, data[i].StoryPoints, readData[i].StoryPoints, 0.01, "StoryPoints should match")
	}
}

func TestWriteAnalysisRunsParquet_EmptyData(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_analysis_runs.parquet")

	// Write empty data
	err := WriteAnalysisRunsParquet([]AnalysisRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.GreaterOrEqual(t, info.Size(), int64(0), "Output file should exist even when empty")
}

func TestConvertRunRecords(t *testing.T) {
	started := time.Date(2025, 11, 8, 10, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Second)
	durationMs := int64(2000)
	params := `{"lookback_days":14}`

	records := []schema.RunRecord{
		{
			RunID:         7,
			StartedAt:     started,
			FinishedAt:    &finished,
			EngineerCount: 5,
			DurationMs:    &durationMs,
			ConfigParams:  &params,
		},
		{
			RunID:     8,
			StartedAt: started,
		},
	}

	converted := ConvertRunRecords(records)
	require.Len(t, converted, 2)
	assert.Equal(t, int64(7), converted[0].RunID)
	assert.Equal(t, int32(5), converted[0].EngineerCount)
	assert.Equal(t, &durationMs, converted[0].DurationMs)
	assert.Equal(t, &params, converted[0].ConfigParams)
	assert.Nil(t, converted[1].FinishedAt)
	assert.Nil(t, converted[1].DurationMs)
}

func TestConvertScoreRecords(t *testing.T) {
	records := []schema.ScoreRecord{
		{
			RunID:            7,
			Engineer:         "Alice Chen",
			GithubScore:      82.4,
			TotalScore:       84.3,
			PRsCreated:       9,
			PRsMerged:        8,
			CommitsMade:      31,
			TicketsCompleted: 6,
			StoryPoints:      21.0,
		},
	}

	converted := ConvertScoreRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(7), converted[0].RunID)
	assert.Equal(t, "Alice Chen", converted[0].Engineer)
	assert.Equal(t, 82.4, converted[0].GithubScore)
	assert.Equal(t, int32(9), converted[0].PRsCreated)
	assert.Equal(t, int32(31), converted[0].CommitsMade)
	assert.Equal(t, 21.0, converted[0].StoryPoints)
}
