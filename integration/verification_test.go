//go:build integration

// Package integration contains integration tests for devpulse.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/devpulse/schema"
)

// Fixture ground truth. The servers below emit exactly this activity, so
// the binary's output can be checked against independent arithmetic.
const (
	fixtureAdditions   = 120
	fixtureDeletions   = 30
	fixtureFiles       = 4
	fixtureStoryPoints = 5.0

	// DEV-7 is created 96h ago and resolved 24h ago, with the review
	// transition 48h ago.
	fixtureCompletionHours = 72.0
	fixtureReviewHours     = 24.0
)

// startGithubFixture serves a minimal GitHub org with one repo and fresh
// timestamps, so any lookback window of a week or more captures it all.
func startGithubFixture(t *testing.T, now time.Time) *httptest.Server {
	t.Helper()
	stamp := func(hoursAgo int) string {
		return now.Add(-time.Duration(hoursAgo) * time.Hour).UTC().Format(time.RFC3339)
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"name": "platform"}]`)
	})

	mux.HandleFunc("/repos/acme/platform/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"id": 101, "number": 1, "title": "Add request retry middleware",
			 "body": "Wraps outbound calls in a bounded retry loop with exponential backoff and jitter so transient upstream failures stop paging us.",
			 "state": "closed", "user": {"login": "alice"},
			 "created_at": %q, "updated_at": %q, "merged_at": %q,
			 "additions": %d, "deletions": %d, "changed_files": %d,
			 "html_url": "https://github.com/acme/platform/pull/1"}
		]`, stamp(72), stamp(24), stamp(24), fixtureAdditions, fixtureDeletions, fixtureFiles)
	})

	mux.HandleFunc("/repos/acme/platform/pulls/1/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"id": 501, "user": {"login": "bob"},
			 "body": "Backoff cap looks right, please add jitter to the first attempt as well.",
			 "state": "APPROVED", "submitted_at": %q,
			 "pull_request_url": "https://api.github.com/repos/acme/platform/pulls/1"}
		]`, stamp(36))
	})

	mux.HandleFunc("/repos/acme/platform/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"sha": "a1b2c3d", "html_url": "https://github.com/acme/platform/commit/a1b2c3d",
			 "commit": {"message": "Tune retry backoff defaults", "author": {"name": "alice", "date": %q}}}
		]`, stamp(48))
	})

	mux.HandleFunc("/repos/acme/platform/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"id": 301, "number": 7, "title": "Retries mask permanent failures",
			 "body": "Permanent 4xx responses should fail fast instead of burning the retry budget.",
			 "state": "closed", "user": {"login": "bob"},
			 "created_at": %q, "updated_at": %q, "closed_at": %q,
			 "html_url": "https://github.com/acme/platform/issues/7"}
		]`, stamp(72), stamp(30), stamp(30))
	})

	return httptest.NewServer(mux)
}

// startJiraFixture serves one completed ticket with a review transition
// plus one long comment by a second engineer.
func startJiraFixture(t *testing.T, now time.Time) *httptest.Server {
	t.Helper()
	stamp := func(hoursAgo int) string {
		return now.Add(-time.Duration(hoursAgo) * time.Hour).UTC().Format(time.RFC3339)
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"total": 1,
			"issues": [
				{"id": "10007", "key": "DEV-7",
				 "fields": {
					"summary": "Fix login redirect loop",
					"description": "Users with an expired session bounce between the login page and the dashboard until the browser gives up.",
					"status": {"name": "Done"},
					"assignee": {"displayName": "bob"},
					"creator": {"displayName": "bob"},
					"created": %q, "updated": %q, "resolutiondate": %q,
					"customfield_10016": %g
				 },
				 "changelog": {"histories": [
					{"created": %q, "author": {"displayName": "bob"},
					 "items": [{"field": "status", "fromString": "In Progress", "toString": "In Review"}]},
					{"created": %q, "author": {"displayName": "bob"},
					 "items": [{"field": "status", "fromString": "In Review", "toString": "Done"}]}
				 ]}
				}
			]
		}`, stamp(96), stamp(24), stamp(24), fixtureStoryPoints, stamp(48), stamp(24))
	})

	mux.HandleFunc("/rest/api/2/issue/DEV-7/comment", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"comments": [
				{"id": "9001", "author": {"displayName": "alice"},
				 "body": "Reproduced with a cookie whose expiry is in the past but whose session row is still live. The redirect guard needs to compare against the session store, not the cookie timestamp, otherwise we loop forever.",
				 "created": %q}
			]
		}`, stamp(30))
	})

	return httptest.NewServer(mux)
}

// buildDevpulse compiles the CLI from the project root into a temp dir.
func buildDevpulse(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "devpulse")
	buildCmd := exec.Command("go", "build", "-o", binPath, ".")
	buildCmd.Dir = ".." // Project root
	out, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", out)
	return binPath
}

// runDevpulse executes the binary in an isolated home dir so no developer
// config file or real sqlite store leaks into the run.
func runDevpulse(t *testing.T, binPath, homeDir string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = homeDir
	cmd.Env = append(os.Environ(), env...)
	cmd.Env = append(cmd.Env, "HOME="+homeDir)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "devpulse %v failed: %s", args, out)
	return string(out)
}

func fixtureEnv(githubURL, jiraURL string) []string {
	return []string{
		"DEVPULSE_GITHUB_TOKEN=integration-token",
		"DEVPULSE_JIRA_EMAIL=dev@acme.test",
		"DEVPULSE_JIRA_API_TOKEN=integration-token",
		"DEVPULSE_GITHUB_API_URL=" + githubURL,
		"DEVPULSE_JIRA_URL=" + jiraURL,
	}
}

// TestAnalyzeVerification runs analyze against the fixture servers and
// verifies every counter and cycle time against the fixture ground truth.
func TestAnalyzeVerification(t *testing.T) {
	now := time.Now()
	githubSrv := startGithubFixture(t, now)
	defer githubSrv.Close()
	jiraSrv := startJiraFixture(t, now)
	defer jiraSrv.Close()

	binPath := buildDevpulse(t)
	homeDir := t.TempDir()
	outFile := filepath.Join(homeDir, "scores.json")

	runDevpulse(t, binPath, homeDir, fixtureEnv(githubSrv.URL, jiraSrv.URL),
		"analyze",
		"--github-org", "acme",
		"--jira-project", "DEV",
		"--lookback-days", "7",
		"--output", "json",
		"--output-file", outFile,
		"--store-backend", "none",
		"--color", "no",
	)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var scores []schema.EnrichedScore
	require.NoError(t, json.Unmarshal(data, &scores))
	require.Len(t, scores, 2, "expected exactly alice and bob: %s", data)

	byName := map[string]schema.EnrichedScore{}
	for i, score := range scores {
		byName[score.Engineer] = score

		assert.Equal(t, i+1, score.Rank)
		assert.GreaterOrEqual(t, score.TotalScore, 0.0)
		assert.LessOrEqual(t, score.TotalScore, 100.0)
		assert.Greater(t, score.PercentileRank, 0.0)
		assert.LessOrEqual(t, score.PercentileRank, 100.0)
		assert.NotEmpty(t, score.Band)
		if i > 0 {
			assert.GreaterOrEqual(t, scores[i-1].TotalScore, score.TotalScore)
		}
	}

	alice, ok := byName["alice"]
	require.True(t, ok, "alice missing from leaderboard: %s", data)
	assert.Equal(t, 1, alice.Github.PRsCreated)
	assert.Equal(t, 1, alice.Github.PRsMerged)
	assert.Equal(t, 1, alice.Github.CommitsMade)
	assert.Equal(t, fixtureAdditions, alice.Github.LinesAdded)
	assert.Equal(t, fixtureDeletions, alice.Github.LinesDeleted)
	assert.Equal(t, fixtureFiles, alice.Github.FilesChanged)
	assert.Equal(t, 1, alice.Jira.CommentsMade)
	assert.Equal(t, 1, alice.Jira.MeaningfulComments)

	bob, ok := byName["bob"]
	require.True(t, ok, "bob missing from leaderboard: %s", data)
	assert.Equal(t, 1, bob.Github.ReviewsGiven)
	assert.Equal(t, 1, bob.Github.PRsReviewed)
	assert.Equal(t, 1, bob.Github.SubstantialReviews)
	assert.Equal(t, 1, bob.Github.IssuesCreated)
	assert.Equal(t, 1, bob.Github.IssuesClosed)
	assert.Equal(t, 1, bob.Jira.TicketsCreated)
	assert.Equal(t, 1, bob.Jira.TicketsCompleted)
	assert.Equal(t, fixtureStoryPoints, bob.Jira.StoryPointsCompleted)
	assert.InDelta(t, fixtureCompletionHours, bob.Jira.TimeToCompletion, 0.1)
	assert.InDelta(t, fixtureReviewHours, bob.Jira.TimeInReview, 0.1)
}

// TestAnalyzeThenSearchVerification persists an analysis run into a sqlite
// store under a throwaway home dir, then searches it fully offline.
func TestAnalyzeThenSearchVerification(t *testing.T) {
	now := time.Now()
	githubSrv := startGithubFixture(t, now)
	defer githubSrv.Close()
	jiraSrv := startJiraFixture(t, now)
	defer jiraSrv.Close()

	binPath := buildDevpulse(t)
	homeDir := t.TempDir()

	runDevpulse(t, binPath, homeDir, fixtureEnv(githubSrv.URL, jiraSrv.URL),
		"analyze",
		"--github-org", "acme",
		"--jira-project", "DEV",
		"--lookback-days", "7",
		"--store-backend", "sqlite",
		"--color", "no",
	)

	require.FileExists(t, filepath.Join(homeDir, ".devpulse.db"))

	// Both fixture servers are gone by the time search runs, so a hit
	// proves the query was answered from the store alone.
	githubSrv.Close()
	jiraSrv.Close()

	searchFile := filepath.Join(homeDir, "search.json")
	runDevpulse(t, binPath, homeDir, nil,
		"search", "retry middleware",
		"--output", "json",
		"--output-file", searchFile,
		"--color", "no",
	)

	data, err := os.ReadFile(searchFile)
	require.NoError(t, err)

	var searchOut struct {
		Query   string `json:"query"`
		Results []struct {
			Rank       int             `json:"rank"`
			Document   schema.Document `json:"document"`
			Similarity float64         `json:"similarity"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &searchOut))

	assert.Equal(t, "retry middleware", searchOut.Query)
	require.NotEmpty(t, searchOut.Results, "no hits for a query that matches a stored PR: %s", data)
	assert.Equal(t, 1, searchOut.Results[0].Rank)
	assert.Equal(t, "github_pr_101", searchOut.Results[0].Document.ID)
	assert.Equal(t, "alice", searchOut.Results[0].Document.Author)
	assert.Greater(t, searchOut.Results[0].Similarity, 0.0)
}
