// Package cmd defines the command-line interface for devpulse.
package cmd

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("github-org", "", "GitHub organization whose repositories are analyzed")
	rootCmd.PersistentFlags().String("github-api-url", contract.DefaultGithubAPIURL, "GitHub API base URL (override for GitHub Enterprise)")
	rootCmd.PersistentFlags().String("jira-url", "", "Jira site URL (e.g., https://yourteam.atlassian.net)")
	rootCmd.PersistentFlags().String("jira-email", "", "Jira account email for API authentication")
	rootCmd.PersistentFlags().String("jira-project", "", "Jira project key to scope ticket queries")
	rootCmd.PersistentFlags().String("slack-channel", "", "Slack channel that receives the digest")
	rootCmd.PersistentFlags().Int("lookback-days", contract.DefaultLookbackDays, "Number of days to look back from now")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of engineers to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent scoring workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("indexer", string(schema.TFIDFIndexer), "Text indexing strategy: tfidf or none")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("notify", false, "Post the digest to Slack after the run")
	rootCmd.PersistentFlags().Bool("no-store", false, "Skip persisting run results and documents")
	rootCmd.PersistentFlags().String("timezone", contract.DefaultTimezone, "IANA timezone for the watch schedule")
	rootCmd.PersistentFlags().String("report-time", contract.DefaultReportTime, "Daily report time for watch mode (HH:MM)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("debug", false, "Print stage instrumentation to stderr")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of searchCmd to Viper
	searchCmd.Flags().Int("top-k", 5, "Number of results to return")
	searchCmd.Flags().String("author", "", "Partition results into this engineer's work vs related work by others")
	if err := viper.BindPFlags(searchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding search flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
