package githubclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePullRequest(t *testing.T) {
	raw := &apiPullRequest{
		ID:        101,
		Number:    1,
		Title:     "Add retry layer",
		State:     "closed",
		User:      &apiUser{Login: "alice"},
		CreatedAt: "2025-11-02T10:00:00Z",
		UpdatedAt: "2025-11-03T10:00:00Z",
		MergedAt:  "2025-11-03T09:00:00Z",
		Additions: 120,
		Deletions: 30,
	}
	pr, err := parsePullRequest(raw, "platform")
	require.NoError(t, err)
	assert.Equal(t, "alice", pr.Author)
	assert.Equal(t, "platform", pr.Repo)
	assert.True(t, pr.Merged())
	assert.Equal(t, time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC), pr.CreatedAt)

	raw.MergedAt = ""
	pr, err = parsePullRequest(raw, "platform")
	require.NoError(t, err)
	assert.False(t, pr.Merged())

	raw.User = nil
	pr, err = parsePullRequest(raw, "platform")
	require.NoError(t, err, "authorless records survive parsing")
	assert.Empty(t, pr.Author)

	raw.CreatedAt = "yesterday"
	_, err = parsePullRequest(raw, "platform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable timestamp")
}

func TestParsePullRequestBadMergeTime(t *testing.T) {
	raw := &apiPullRequest{
		Number:    2,
		CreatedAt: "2025-11-02T10:00:00Z",
		MergedAt:  "not-a-date",
	}
	_, err := parsePullRequest(raw, "platform")
	require.Error(t, err)
}

func TestParseCommit(t *testing.T) {
	raw := &apiCommit{SHA: "abc123", HTMLURL: "https://example.com/c/abc123"}
	raw.Commit.Message = "Fix flaky retry test"
	raw.Commit.Author.Name = "alice"
	raw.Commit.Author.Date = "2025-11-02T08:00:00Z"

	commit, err := parseCommit(raw, "platform")
	require.NoError(t, err)
	assert.Equal(t, "alice", commit.Author)
	assert.Equal(t, "platform", commit.Repo)

	raw.SHA = ""
	_, err = parseCommit(raw, "platform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without sha")

	raw.SHA = "abc123"
	raw.Commit.Author.Date = "last tuesday"
	_, err = parseCommit(raw, "platform")
	require.Error(t, err)
}

func TestParseIssue(t *testing.T) {
	raw := &apiIssue{
		ID:        201,
		Number:    10,
		Title:     "Timeout regression",
		State:     "closed",
		User:      &apiUser{Login: "bob"},
		CreatedAt: "2025-11-01T12:00:00Z",
		ClosedAt:  "2025-11-02T12:00:00Z",
	}
	issue, err := parseIssue(raw, "platform")
	require.NoError(t, err)
	assert.Equal(t, "bob", issue.Author)
	require.NotNil(t, issue.ClosedAt)
	assert.Equal(t, time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC), *issue.ClosedAt)

	raw.ClosedAt = ""
	issue, err = parseIssue(raw, "platform")
	require.NoError(t, err)
	assert.Nil(t, issue.ClosedAt)

	raw.CreatedAt = ""
	_, err = parseIssue(raw, "platform")
	require.Error(t, err)
}

func TestParseReview(t *testing.T) {
	raw := &apiReview{
		ID:          301,
		User:        &apiUser{Login: "bob"},
		State:       "APPROVED",
		SubmittedAt: "2025-11-03T08:00:00Z",
	}
	review, err := parseReview(raw)
	require.NoError(t, err)
	assert.Equal(t, "bob", review.Author)
	assert.Equal(t, "APPROVED", review.State)

	raw.SubmittedAt = ""
	_, err = parseReview(raw)
	require.Error(t, err)
}

func TestWithinWindow(t *testing.T) {
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	assert.True(t, withinWindow(start, start, end), "window start is inclusive")
	assert.True(t, withinWindow(end, start, end), "window end is inclusive")
	assert.True(t, withinWindow(start.Add(72*time.Hour), start, end))
	assert.False(t, withinWindow(start.Add(-time.Second), start, end))
	assert.False(t, withinWindow(end.Add(time.Second), start, end))
}
