package iostore

import (
	"errors"
	"fmt"

	"github.com/huangsam/devpulse/internal/parquet"
)

// ExecuteStoreExport performs the actual export of analysis data to Parquet files.
func ExecuteStoreExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run tracking is disabled, nothing to export")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total score records: %d\n", status.TableSizes[scoresTable])

	// Retrieve all analysis runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	// Retrieve all engineer scores
	scores, err := store.GetAllScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve engineer scores: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetScores := parquet.ConvertScoreRecords(scores)

	// Write analysis runs to Parquet
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	// Write engineer scores to Parquet
	scoresFile := outputFile + ".engineer_scores.parquet"
	if err := parquet.WriteEngineerScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write engineer scores: %w", err)
	}
	fmt.Printf("Exported %d score records to: %s\n", len(parquetScores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
