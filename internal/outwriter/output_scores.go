package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteScoreResults outputs the engineer leaderboard, dispatching based on the output format configured.
func WriteScoreResults(scores []schema.EnrichedScore, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeScoreJSONResults(scores, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeScoreCSVResults(scores, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(scores, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeScoreJSONResults handles opening the file and calling the JSON writer.
func writeScoreJSONResults(scores []schema.EnrichedScore, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForScores(w, scores)
	}, "Wrote JSON")
}

// writeScoreCSVResults handles opening the file and calling the CSV writer.
func writeScoreCSVResults(scores []schema.EnrichedScore, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForScores(csvWriter, scores, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeScoreTable generates and writes the human-readable leaderboard.
func writeScoreTable(scores []schema.EnrichedScore, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Engineer", "Total", "Band", "GitHub", "Jira", "Collab", "Quality", "PRs", "Commits", "Tickets"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, s := range scores {
		row := []string{
			strconv.Itoa(s.Rank),          // Rank
			s.Engineer,                    // Engineer
			fmtFloat(s.TotalScore),        // Total
			bandLabel(cfg, s.TotalScore),  // Band
			fmtFloat(s.GithubScore),       // GitHub
			fmtFloat(s.JiraScore),         // Jira
			fmtFloat(s.CollaborationScore), // Collab
			fmtFloat(s.QualityScore),      // Quality
			fmt.Sprintf(intFmt, s.Github.PRsCreated),     // PRs
			fmt.Sprintf(intFmt, s.Github.CommitsMade),    // Commits
			fmt.Sprintf(intFmt, s.Jira.TicketsCompleted), // Tickets
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	numEngineers := len(scores)
	totalPRs := 0
	totalTickets := 0
	for _, s := range scores {
		totalPRs += s.Github.PRsCreated
		totalTickets += s.Jira.TicketsCompleted
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d engineers (total PRs: %d, total tickets: %d)\n", numEngineers, totalPRs, totalTickets); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForScores writes the leaderboard in CSV format.
func writeCSVResultsForScores(w *csv.Writer, scores []schema.EnrichedScore, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"engineer",
		"total_score",
		"band",
		"percentile",
		"github_score",
		"jira_score",
		"collaboration_score",
		"quality_score",
		"velocity_score",
		"prs_created",
		"prs_merged",
		"commits",
		"reviews_given",
		"tickets_completed",
		"story_points",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range scores {
		rec := []string{
			strconv.Itoa(s.Rank),           // Rank
			s.Engineer,                     // Engineer
			fmtFloat(s.TotalScore),         // Total Score
			s.Band,                         // Performance Band
			fmtFloat(s.PercentileRank),     // Percentile
			fmtFloat(s.GithubScore),        // GitHub Score
			fmtFloat(s.JiraScore),          // Jira Score
			fmtFloat(s.CollaborationScore), // Collaboration Score
			fmtFloat(s.QualityScore),       // Quality Score
			fmtFloat(s.VelocityScore),      // Velocity Score
			fmt.Sprintf(intFmt, s.Github.PRsCreated),       // PRs Created
			fmt.Sprintf(intFmt, s.Github.PRsMerged),        // PRs Merged
			fmt.Sprintf(intFmt, s.Github.CommitsMade),      // Commits
			fmt.Sprintf(intFmt, s.Github.ReviewsGiven),     // Reviews Given
			fmt.Sprintf(intFmt, s.Jira.TicketsCompleted),   // Tickets Completed
			fmtFloat(s.Jira.StoryPointsCompleted),          // Story Points
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForScores writes the leaderboard in JSON format.
// EnrichedScore already carries rank and band, so no wrapper is needed.
func writeJSONResultsForScores(w io.Writer, scores []schema.EnrichedScore) error {
	return writeJSON(w, scores)
}
