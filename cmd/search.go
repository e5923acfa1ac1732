package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// searchSetup loads the store plus the output settings search rendering needs.
// Search runs offline against persisted documents, so no platform credentials
// are required here.
func searchSetup() error {
	if err := storeSetup(); err != nil {
		return err
	}

	outputStr := strings.ToLower(viper.GetString("output"))
	if outputStr == "" {
		outputStr = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(outputStr)
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode '%s'. must be text, csv, json", viper.GetString("output"))
	}
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")

	useColors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors

	return nil
}

// searchSetupWrapper wraps searchSetup to provide PreRunE for the search command.
func searchSetupWrapper(_ *cobra.Command, _ []string) error {
	return searchSetup()
}

// searchCmd answers similarity queries from stored documents.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search past engineering work by text similarity.",
	Long: `Search the persisted document corpus (PR bodies, commit messages, ticket
descriptions and comments) by text similarity.

The corpus is whatever previous analysis runs stored, so this command works
offline: no GitHub or Jira credentials and no network calls.

With --author, results are partitioned into that engineer's own work and
related work by others, which helps answer "who has touched something like
this before?".

Examples:
  # Find prior work on a topic
  devpulse search "rate limiter"

  # More results
  devpulse search "flaky integration test" --top-k 10

  # What has alice done on this, and who else worked nearby?
  devpulse search "payment retries" --author alice

  # Feed results into other tooling
  devpulse search "schema migration" --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: searchSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		query := args[0]
		topK := viper.GetInt("top-k")
		author := viper.GetString("author")
		if err := core.ExecuteSearch(rootCtx, cfg, storeManager, query, author, topK); err != nil {
			contract.LogFatal("Cannot run search", err)
		}
	},
}
