package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// sectionColor styles report section titles in table output.
var sectionColor = color.New(color.FgCyan, color.Bold)

// WriteReportResults outputs the full team report, dispatching based on the output format configured.
// CSV mode flattens to the per-engineer score rows since the nested sections
// have no tabular shape.
func WriteReportResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForScores(csvWriter, result.Scores, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote report")
	}
	return nil
}

// writeReportText generates and writes the human-readable team report.
func writeReportText(result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "📊 Team Productivity Report (%s)\n", result.Period); err != nil {
		return err
	}

	summary := result.Summary
	if err := printSection(writer, cfg, "Team Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Engineers: "+intFmt+" total, "+intFmt+" active\n", summary.TotalEngineers, summary.ActiveEngineers); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Output: "+intFmt+" PRs, "+intFmt+" commits, "+intFmt+" tickets completed\n", summary.TotalPRs, summary.TotalCommits, summary.TotalTicketsCompleted); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Average score: %s (trend: %s)\n", fmtFloat(summary.AverageScore), summary.Trend); err != nil {
		return err
	}
	if len(summary.TopAreas) > 0 {
		if _, err := fmt.Fprintf(writer, "  Top areas: %s\n", strings.Join(summary.TopAreas, ", ")); err != nil {
			return err
		}
	}
	if len(summary.ImprovementAreas) > 0 {
		if _, err := fmt.Fprintf(writer, "  Improvement areas: %s\n", strings.Join(summary.ImprovementAreas, ", ")); err != nil {
			return err
		}
	}

	if err := printSection(writer, cfg, "Leaderboard"); err != nil {
		return err
	}
	if err := writeScoreTable(result.TopScores(cfg.ResultLimit), cfg, fmtFloat, intFmt, duration, writer); err != nil {
		return err
	}

	details := result.Details
	if err := printSection(writer, cfg, "Score Distribution"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  High: "+intFmt+", Medium: "+intFmt+", Low: "+intFmt+"\n", details.Distribution.High, details.Distribution.Medium, details.Distribution.Low); err != nil {
		return err
	}

	if err := printSection(writer, cfg, "Component Averages"); err != nil {
		return err
	}
	for _, component := range schema.AllComponents {
		if _, err := fmt.Fprintf(writer, "  %s: %s\n", component, fmtFloat(details.ComponentAverages[component])); err != nil {
			return err
		}
	}

	if err := printSection(writer, cfg, "Activity Patterns"); err != nil {
		return err
	}
	patterns := details.Patterns
	if _, err := fmt.Fprintf(writer, "  PR creators: "+intFmt+", active reviewers: "+intFmt+"\n", patterns.PRCreators, patterns.ActiveReviewers); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Ticket completers: "+intFmt+", strong collaborators: "+intFmt+"\n", patterns.TicketCompleters, patterns.StrongCollaborators); err != nil {
		return err
	}

	if err := printSection(writer, cfg, "Trends"); err != nil {
		return err
	}
	trends := result.Trends
	if _, err := fmt.Fprintf(writer, "  Overall health: %s\n", trends.OverallHealth); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  GitHub activity: %s, Jira delivery: %s, collaboration: %s\n", trends.GithubActivity, trends.JiraDelivery, trends.CollaborationLevel); err != nil {
		return err
	}

	if len(result.Insights) > 0 {
		if err := printSection(writer, cfg, "Insights"); err != nil {
			return err
		}
		if err := printBullets(writer, result.Insights); err != nil {
			return err
		}
	}

	if len(result.Recommendations) > 0 {
		if err := printSection(writer, cfg, "Recommendations"); err != nil {
			return err
		}
		if err := printBullets(writer, result.Recommendations); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "\nReport generated in %v ("+intFmt+" documents indexed)\n", duration, result.DocumentsIndexed); err != nil {
		return err
	}
	return nil
}

// printSection writes a report section title, colored when configured.
func printSection(w io.Writer, cfg *contract.Config, title string) error {
	var err error
	if cfg.UseColors {
		_, err = sectionColor.Fprintf(w, "\n%s\n", title)
	} else {
		_, err = fmt.Fprintf(w, "\n%s\n", title)
	}
	return err
}

// printBullets writes one indented line per item.
func printBullets(w io.Writer, items []string) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "  - %s\n", item); err != nil {
			return err
		}
	}
	return nil
}
