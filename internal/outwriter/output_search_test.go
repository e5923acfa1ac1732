package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleHits builds ranked search results for writer tests.
func sampleHits() []schema.SearchResult {
	return []schema.SearchResult{
		{
			Document: schema.Document{
				ID:        "github_pr_42",
				Source:    schema.GithubSource,
				Kind:      schema.PullRequestDoc,
				Author:    "alice",
				Title:     "Fix schema cleanup on rollback",
				Content:   "fix schema cleanup on rollback",
				URL:       "https://github.com/acme/platform/pull/42",
				CreatedAt: time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
			},
			Similarity: 0.8231,
		},
		{
			Document: schema.Document{
				ID:        "jira_ticket_DEV-7",
				Source:    schema.JiraSource,
				Kind:      schema.TicketDoc,
				Author:    "bob",
				Title:     "Schema migration for cleanup job",
				Content:   "schema migration for cleanup job",
				URL:       "https://acme.atlassian.net/browse/DEV-7",
				CreatedAt: time.Date(2025, 11, 4, 15, 30, 0, 0, time.UTC),
			},
			Similarity: 0.412,
		},
	}
}

func TestWriteJSONResultsForSearch(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForSearch(&buf, "schema cleanup", sampleHits())
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, "schema cleanup", parsed["query"])
	results, ok := parsed["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)

	first, ok := results[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, 0.8231, first["similarity"])
}

func TestWriteCSVResultsForSearch(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForSearch(w, sampleHits())
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "similarity")
	assert.Contains(t, lines[1], "github_pr_42")
	assert.Contains(t, lines[1], "0.823")
	assert.Contains(t, lines[2], "jira_ticket_DEV-7")
	assert.Contains(t, lines[2], "0.412")
}

func TestWriteSearchTable(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 120}

	var buf bytes.Buffer
	err := writeSearchTable(sampleHits(), cfg, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Fix schema cleanup on rollback")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "pull_request")
	assert.Contains(t, out, "0.823")
}

func TestWriteSearchTableTruncatesTitles(t *testing.T) {
	// A narrow terminal forces the minimum title width
	cfg := &contract.Config{Precision: 1, Width: 40}
	hits := []schema.SearchResult{
		{
			Document: schema.Document{
				ID:     "github_pr_1",
				Source: schema.GithubSource,
				Kind:   schema.PullRequestDoc,
				Author: "alice",
				Title:  strings.Repeat("long title segment ", 10),
			},
			Similarity: 0.5,
		},
	}

	var buf bytes.Buffer
	err := writeSearchTable(hits, cfg, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "...")
}

func TestWriteCSVResultsForSimilar(t *testing.T) {
	hits := sampleHits()
	work := &schema.SimilarWork{
		Own:    hits[:1],
		Others: hits[1:],
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForSimilar(w, work)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "relation")
	assert.True(t, strings.HasPrefix(lines[1], "own,"))
	assert.True(t, strings.HasPrefix(lines[2], "others,"))
}

func TestWriteSimilarText(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 120}
	hits := sampleHits()
	work := &schema.SimilarWork{
		Own:    hits[:1],
		Others: hits[1:],
	}

	var buf bytes.Buffer
	err := writeSimilarText(work, "schema cleanup", "alice", cfg, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Own work by alice")
	assert.Contains(t, out, "Related work by others")
	assert.Contains(t, out, `Found 1 own and 1 related documents for "schema cleanup"`)
}

func TestWriteSimilarTextEmptySections(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 120}
	work := &schema.SimilarWork{}

	var buf bytes.Buffer
	err := writeSimilarText(work, "nothing", "ghost", cfg, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "No matching documents")
	assert.Contains(t, out, "Found 0 own and 0 related documents")
}
