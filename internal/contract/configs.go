package contract

import (
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/devpulse/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 7
	MaxLookbackDays     = 365
	DefaultResultLimit  = 10
	MaxResultLimit      = 500
	DefaultPrecision    = 1
	DefaultReportTime   = "09:00"
	DefaultTimezone     = "UTC"
	DefaultGithubAPIURL = "https://api.github.com"
	DefaultSlackAPIURL  = "https://slack.com/api"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config. It is passed explicitly
// into every pipeline stage; nothing in core reads ambient global state.
type Config struct {
	GithubToken  string
	GithubOrg    string
	GithubAPIURL string

	JiraURL      string
	JiraEmail    string
	JiraAPIToken string
	JiraProject  string

	SlackToken   string
	SlackChannel string
	SlackAPIURL  string

	StartTime    time.Time
	EndTime      time.Time
	LookbackDays int

	ResultLimit int
	Workers     int
	Precision   int
	Width       int // Terminal width override (0 = auto-detect)
	Output      schema.OutputMode
	OutputFile  string

	Indexer schema.IndexerKind

	StoreBackend   schema.StoreBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Notify    bool // post the digest to the messaging channel after a run
	StoreRuns bool // persist run results and documents

	Location     *time.Location
	ReportHour   int
	ReportMinute int

	UseColors bool // Enable colored labels in table output
	Debug     bool // Print stage instrumentation to stderr
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	GithubToken  string `mapstructure:"github-token"`
	GithubOrg    string `mapstructure:"github-org"`
	GithubAPIURL string `mapstructure:"github-api-url"`

	JiraURL      string `mapstructure:"jira-url"`
	JiraEmail    string `mapstructure:"jira-email"`
	JiraAPIToken string `mapstructure:"jira-api-token"`
	JiraProject  string `mapstructure:"jira-project"`

	SlackToken   string `mapstructure:"slack-bot-token"`
	SlackChannel string `mapstructure:"slack-channel"`
	SlackAPIURL  string `mapstructure:"slack-api-url"`

	LookbackDays   int    `mapstructure:"lookback-days"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Indexer        string `mapstructure:"indexer"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Notify         bool   `mapstructure:"notify"`
	NoStore        bool   `mapstructure:"no-store"`
	Timezone       string `mapstructure:"timezone"`
	ReportTime     string `mapstructure:"report-time"`
	Color          string `mapstructure:"color"`
	Debug          bool   `mapstructure:"debug"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// Period formats the analysis window for headers and digests.
func (c *Config) Period() string {
	return fmt.Sprintf("%s to %s", c.StartTime.Format("2006-01-02"), c.EndTime.Format("2006-01-02"))
}

// placeholderMarkers flag credentials that were copied from a template and
// never filled in.
var placeholderMarkers = []string{"your_", "token_here", "example"}

// IsPlaceholder reports whether a credential value looks like template filler.
func IsPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct. It fails fast before any fetch or scoring work.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateCredentials(cfg, input); err != nil {
		return err
	}
	if err := validateMessaging(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeWindow(cfg, input); err != nil {
		return err
	}
	if err := processSchedule(cfg, input); err != nil {
		return err
	}
	if err := validateStoreConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateCredentials checks the platform credentials needed for a fetch.
func validateCredentials(cfg *Config, input *ConfigRawInput) error {
	if input.GithubToken == "" || IsPlaceholder(input.GithubToken) {
		return fmt.Errorf("github-token is required (set DEVPULSE_GITHUB_TOKEN or GITHUB_TOKEN)")
	}
	if input.GithubOrg == "" {
		return fmt.Errorf("github-org is required (set DEVPULSE_GITHUB_ORG or GITHUB_ORG)")
	}
	cfg.GithubToken = input.GithubToken
	cfg.GithubOrg = input.GithubOrg

	cfg.GithubAPIURL = strings.TrimSuffix(input.GithubAPIURL, "/")
	if cfg.GithubAPIURL == "" {
		cfg.GithubAPIURL = DefaultGithubAPIURL
	}
	if err := validateHTTPURL("github-api-url", cfg.GithubAPIURL); err != nil {
		return err
	}

	if input.JiraURL == "" {
		return fmt.Errorf("jira-url is required (set DEVPULSE_JIRA_URL or JIRA_URL)")
	}
	cfg.JiraURL = strings.TrimSuffix(input.JiraURL, "/")
	if err := validateHTTPURL("jira-url", cfg.JiraURL); err != nil {
		return err
	}
	if input.JiraEmail == "" {
		return fmt.Errorf("jira-email is required (set DEVPULSE_JIRA_EMAIL or JIRA_EMAIL)")
	}
	if input.JiraAPIToken == "" || IsPlaceholder(input.JiraAPIToken) {
		return fmt.Errorf("jira-api-token is required (set DEVPULSE_JIRA_API_TOKEN or JIRA_API_TOKEN)")
	}
	cfg.JiraEmail = input.JiraEmail
	cfg.JiraAPIToken = input.JiraAPIToken
	cfg.JiraProject = input.JiraProject

	return nil
}

// validateMessaging checks the messaging sink settings. The sink is optional
// unless digest delivery was requested.
func validateMessaging(cfg *Config, input *ConfigRawInput) error {
	cfg.Notify = input.Notify
	cfg.SlackToken = input.SlackToken
	cfg.SlackAPIURL = strings.TrimSuffix(input.SlackAPIURL, "/")
	if cfg.SlackAPIURL == "" {
		cfg.SlackAPIURL = DefaultSlackAPIURL
	}

	cfg.SlackChannel = input.SlackChannel
	if cfg.SlackChannel != "" && !strings.HasPrefix(cfg.SlackChannel, "#") && !strings.HasPrefix(cfg.SlackChannel, "C") {
		cfg.SlackChannel = "#" + cfg.SlackChannel
	}

	if !cfg.Notify {
		return nil
	}
	if cfg.SlackToken == "" || IsPlaceholder(cfg.SlackToken) {
		return fmt.Errorf("slack-bot-token is required for digest delivery (set DEVPULSE_SLACK_BOT_TOKEN or SLACK_BOT_TOKEN)")
	}
	if cfg.SlackChannel == "" {
		return fmt.Errorf("slack-channel is required for digest delivery")
	}
	return nil
}

// validateSimpleInputs handles flat flag parsing and range checks.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Limit < 1 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxResultLimit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Workers = input.Workers
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}

	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6")
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative")
	}
	cfg.Width = input.Width

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	cfg.Indexer = schema.IndexerKind(strings.ToLower(input.Indexer))
	if _, ok := schema.ValidIndexerKinds[cfg.Indexer]; !ok {
		return fmt.Errorf("invalid indexer '%s'. must be tfidf, none", input.Indexer)
	}

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors

	cfg.StoreRuns = !input.NoStore
	cfg.Debug = input.Debug
	return nil
}

// processTimeWindow derives the default analysis window from the lookback.
func processTimeWindow(cfg *Config, input *ConfigRawInput) error {
	if input.LookbackDays < 1 || input.LookbackDays > MaxLookbackDays {
		return fmt.Errorf("lookback-days must be between 1 and %d", MaxLookbackDays)
	}
	cfg.LookbackDays = input.LookbackDays
	cfg.EndTime = time.Now().UTC()
	cfg.StartTime = cfg.EndTime.AddDate(0, 0, -cfg.LookbackDays)
	return nil
}

// processSchedule parses the daemon schedule settings.
func processSchedule(cfg *Config, input *ConfigRawInput) error {
	tz := input.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
	}
	cfg.Location = loc

	reportTime := input.ReportTime
	if reportTime == "" {
		reportTime = DefaultReportTime
	}
	hour, minute, err := ParseClock(reportTime)
	if err != nil {
		return err
	}
	cfg.ReportHour = hour
	cfg.ReportMinute = minute
	return nil
}

// validateStoreConfig validates the persistence backend configuration.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateStoreConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ValidateStoreConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateStoreConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' or use a postgres:// URL")
		}
	}
	return nil
}

// validateHTTPURL checks that a setting parses as an http(s) URL.
func validateHTTPURL(name, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid %s '%s': scheme must be http or https", name, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid %s '%s': missing host", name, value)
	}
	return nil
}

// ParseClock parses an HH:MM string into hour and minute.
func ParseClock(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time '%s': expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in '%s': expected 00-23", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in '%s': expected 00-59", value)
	}
	return hour, minute, nil
}

// ProcessProfilingConfig validates profiling settings from the raw prefix value.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	if prefix == "" {
		profile.Enabled = false
		return nil
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("profile prefix cannot contain whitespace")
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}
