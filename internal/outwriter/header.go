package outwriter

import (
	"fmt"

	"github.com/huangsam/devpulse/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each analysis run.
func LogAnalysisHeader(cfg *contract.Config) {
	project := cfg.JiraProject
	if project == "" {
		project = "all projects"
	}

	// Line 1: The analysis summary (Org and Jira project)
	fmt.Printf("🔎 Org: %s (Jira: %s)\n", cfg.GithubOrg, project)

	// Line 2: The actual date range being analyzed
	fmt.Printf("📅 Range: %s → %s\n", cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
}

// LogWatchHeader prints a header for the watch daemon.
func LogWatchHeader(cfg *contract.Config) {
	project := cfg.JiraProject
	if project == "" {
		project = "all projects"
	}
	fmt.Printf("🔎 Org: %s (Jira: %s)\n", cfg.GithubOrg, project)
	fmt.Printf("⏰ Daily report at %02d:%02d %s → %s\n",
		cfg.ReportHour, cfg.ReportMinute, cfg.Location, cfg.SlackChannel)
}

// LogSearchHeader prints a header for an offline search.
func LogSearchHeader(query string, corpusSize int) {
	fmt.Printf("🔎 Query: %q\n", query)
	fmt.Printf("📚 Corpus: %d stored documents\n", corpusSize)
}
