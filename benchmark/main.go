// Package main provides a performance benchmarking tool for the Devpulse CLI.
// It measures execution times across different team sizes and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Platform activity is synthesized by in-process fixture servers, so runs are
// reproducible and no GitHub or Jira credentials are needed.
//
// Prerequisites:
// - devpulse binary installed and available in PATH
//
// Usage: go run benchmark/main.go [team-sizes]
//
//	team-sizes: Comma-separated engineer counts to benchmark (default 10,50,200)
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	TeamSize    int
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Workers     int
	NoStoreRuns int
	StoreRuns   int
	TeamSizes   []int
}

func main() {
	// Parse command line arguments
	teamSizes := []int{10, 50, 200}
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [team-sizes]\n", os.Args[0])
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		parsed, err := parseTeamSizes(os.Args[1])
		if err != nil {
			fmt.Printf("Invalid team sizes %q: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		teamSizes = parsed
	}

	config := BenchmarkConfig{
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoStoreRuns: 3,
		StoreRuns:   4,
		TeamSizes:   teamSizes,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the devpulse binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("devpulse"); err != nil {
		return fmt.Errorf("devpulse binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured team sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: team sizes %v, %v timeout, %d workers, no-store: %d runs, store: %d runs\n",
		config.TeamSizes, config.Timeout, config.Workers, config.NoStoreRuns, config.StoreRuns)

	for _, teamSize := range config.TeamSizes {
		fmt.Printf("Benchmarking team of %d\n", teamSize)

		srv := startFixtureServer(teamSize)

		// Each team size gets a fresh home dir so the sqlite store starts empty.
		homeDir, err := os.MkdirTemp("", fmt.Sprintf("devpulse-bench-%d-*", teamSize))
		if err != nil {
			fmt.Printf("Failed to create scratch home: %v\n", err)
			os.Exit(1)
		}

		env := fixtureEnv(srv.URL, homeDir)

		// Analyze: full pipeline with and without persistence
		result := runAnalyzeSuite(config, teamSize, env)
		results = append(results, result)

		// Search: offline queries against the store the analyze phase populated
		result = runSearchSuite(config, teamSize, env)
		results = append(results, result)

		srv.Close()
		_ = os.RemoveAll(homeDir)
	}

	return results
}

// fixtureEnv points the binary at the fixture server and a scratch home dir
func fixtureEnv(serverURL, homeDir string) []string {
	return append(os.Environ(),
		"HOME="+homeDir,
		"DEVPULSE_GITHUB_TOKEN=benchmark-token",
		"DEVPULSE_GITHUB_ORG=acme",
		"DEVPULSE_GITHUB_API_URL="+serverURL,
		"DEVPULSE_JIRA_URL="+serverURL,
		"DEVPULSE_JIRA_EMAIL=bench@acme.test",
		"DEVPULSE_JIRA_API_TOKEN=benchmark-token",
	)
}

// runAnalyzeSuite runs both no-store and store benchmarks for analyze
func runAnalyzeSuite(config BenchmarkConfig, teamSize int, env []string) BenchmarkResult {
	fmt.Printf("Running analyze on team of %d\n", teamSize)

	args := fmt.Sprintf("--lookback-days 7 --workers %d --limit %d --color no", config.Workers, teamSize)

	// Helper to run a benchmark phase
	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, env, "analyze", args+" --store-backend "+storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Store runs
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		TeamSize:    teamSize,
		Command:     "analyze",
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runSearchSuite benchmarks offline search against the populated store
func runSearchSuite(config BenchmarkConfig, teamSize int, env []string) BenchmarkResult {
	fmt.Printf("Running search on team of %d\n", teamSize)
	fmt.Printf("  Search phase (%d runs)\n", config.StoreRuns)

	args := `"retry backoff" --top-k 10 --color no`
	cold, times := runBenchmark(config, env, "search", args, config.StoreRuns)

	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}
	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		TeamSize:    teamSize,
		Command:     "search",
		NoStoreTime: "-",
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a devpulse command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env []string, command, extraArgs string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command}, parseArgs(extraArgs)...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("devpulse", args...)
		cmd.Env = env

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseTeamSizes(value string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(value, ",") {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if size < 1 {
			return nil, fmt.Errorf("team size must be positive, got %d", size)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	if command == "search" {
		return strings.Contains(outputStr, "matching documents for")
	}

	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/devpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"team_size", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		record := []string{strconv.Itoa(result.TeamSize), result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "search", "Search:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %4d engineers: No-store: %s, Cold: %s, Warm: %s\n", result.TeamSize, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}

// startFixtureServer synthesizes a GitHub org and a Jira project sized to
// the team. Every engineer authors pull requests, commits and an issue,
// reviews a colleague's work, and owns one ticket with a comment on it.
func startFixtureServer(teamSize int) *httptest.Server {
	now := time.Now().UTC()
	stamp := func(hoursAgo int) string {
		return now.Add(-time.Duration(hoursAgo) * time.Hour).Format(time.RFC3339)
	}
	engineer := func(i int) string { return fmt.Sprintf("eng-%03d", i%teamSize) }

	const prsPerEngineer = 2
	const commitsPerEngineer = 3

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			writeJSON(w, []any{})
			return
		}
		writeJSON(w, []map[string]any{{"name": "platform"}})
	})

	mux.HandleFunc("/repos/acme/platform/pulls", func(w http.ResponseWriter, r *http.Request) {
		prs := make([]map[string]any, 0, teamSize*prsPerEngineer)
		for i := 0; i < teamSize*prsPerEngineer; i++ {
			pr := map[string]any{
				"id":     1000 + i,
				"number": i + 1,
				"title":  fmt.Sprintf("Add retry backoff to worker %d", i),
				"body": fmt.Sprintf("Bounds the retry backoff for worker %d so transient failures "+
					"stop cascading into the downstream queue consumers.", i),
				"state":         "open",
				"user":          map[string]any{"login": engineer(i)},
				"created_at":    stamp(i%120 + 12),
				"updated_at":    stamp(i % 120),
				"additions":     50 + i%200,
				"deletions":     10 + i%40,
				"changed_files": 1 + i%8,
				"html_url":      fmt.Sprintf("https://github.com/acme/platform/pull/%d", i+1),
			}
			if i%2 == 0 {
				pr["state"] = "closed"
				pr["merged_at"] = stamp(i % 120)
			}
			prs = append(prs, pr)
		}
		writeJSON(w, prs)
	})

	// One review per pull request, written by the next engineer round-robin.
	mux.HandleFunc("/repos/acme/platform/pulls/", func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/repos/acme/platform/pulls/")
		numberStr := strings.TrimSuffix(trimmed, "/reviews")
		number, err := strconv.Atoi(numberStr)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		i := number - 1
		writeJSON(w, []map[string]any{{
			"id":               5000 + i,
			"user":             map[string]any{"login": engineer(i + 1)},
			"body":             fmt.Sprintf("Backoff cap for worker %d looks right, please also add jitter.", i),
			"state":            "APPROVED",
			"submitted_at":     stamp(i % 120),
			"pull_request_url": fmt.Sprintf("https://api.github.com/repos/acme/platform/pulls/%d", number),
		}})
	})

	mux.HandleFunc("/repos/acme/platform/commits", func(w http.ResponseWriter, r *http.Request) {
		commits := make([]map[string]any, 0, teamSize*commitsPerEngineer)
		for i := 0; i < teamSize*commitsPerEngineer; i++ {
			commits = append(commits, map[string]any{
				"sha":      fmt.Sprintf("%040d", i),
				"html_url": fmt.Sprintf("https://github.com/acme/platform/commit/%040d", i),
				"commit": map[string]any{
					"message": fmt.Sprintf("Tune retry backoff defaults for worker %d", i),
					"author":  map[string]any{"name": engineer(i), "date": stamp(i % 144)},
				},
			})
		}
		writeJSON(w, commits)
	})

	mux.HandleFunc("/repos/acme/platform/issues", func(w http.ResponseWriter, r *http.Request) {
		issues := make([]map[string]any, 0, teamSize)
		for i := 0; i < teamSize; i++ {
			issue := map[string]any{
				"id":         3000 + i,
				"number":     i + 1,
				"title":      fmt.Sprintf("Worker %d retries mask permanent failures", i),
				"body":       fmt.Sprintf("Permanent 4xx responses from worker %d should fail fast.", i),
				"state":      "open",
				"user":       map[string]any{"login": engineer(i)},
				"created_at": stamp(i%120 + 24),
				"updated_at": stamp(i % 120),
				"html_url":   fmt.Sprintf("https://github.com/acme/platform/issues/%d", i+1),
			}
			if i%3 == 0 {
				issue["state"] = "closed"
				issue["closed_at"] = stamp(i % 120)
			}
			issues = append(issues, issue)
		}
		writeJSON(w, issues)
	})

	statuses := []string{"Done", "In Progress", "In Review"}
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		tickets := make([]map[string]any, 0, teamSize)
		for i := 0; i < teamSize; i++ {
			fields := map[string]any{
				"summary":           fmt.Sprintf("Stabilize retry path for worker %d", i),
				"description":       fmt.Sprintf("Worker %d loses jobs when the retry budget is exhausted mid-batch.", i),
				"status":            map[string]any{"name": statuses[i%len(statuses)]},
				"assignee":          map[string]any{"displayName": engineer(i)},
				"creator":           map[string]any{"displayName": engineer(i + 1)},
				"created":           stamp(i%120 + 48),
				"updated":           stamp(i % 120),
				"customfield_10016": float64(i%8 + 1),
			}
			if i%len(statuses) == 0 {
				fields["resolutiondate"] = stamp(i % 120)
			}
			tickets = append(tickets, map[string]any{
				"id":     strconv.Itoa(20000 + i),
				"key":    fmt.Sprintf("DEV-%d", i+1),
				"fields": fields,
				"changelog": map[string]any{
					"histories": []map[string]any{{
						"created": stamp(i%120 + 6),
						"author":  map[string]any{"displayName": engineer(i)},
						"items": []map[string]any{{
							"field": "status", "fromString": "In Progress", "toString": statuses[i%len(statuses)],
						}},
					}},
				},
			})
		}
		writeJSON(w, map[string]any{"total": teamSize, "issues": tickets})
	})

	// One comment per ticket, written by the previous engineer round-robin.
	mux.HandleFunc("/rest/api/2/issue/", func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/rest/api/2/issue/")
		key := strings.TrimSuffix(trimmed, "/comment")
		number, err := strconv.Atoi(strings.TrimPrefix(key, "DEV-"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		i := number - 1
		writeJSON(w, map[string]any{
			"comments": []map[string]any{{
				"id":     strconv.Itoa(40000 + i),
				"author": map[string]any{"displayName": engineer(i + teamSize - 1)},
				"body": fmt.Sprintf("Reproduced on worker %d with a full queue. The retry budget needs to "+
					"reset per batch, not per process, otherwise one poisoned job starves everything behind it.", i),
				"created": stamp(i % 96),
			}},
		})
	})

	return httptest.NewServer(mux)
}
