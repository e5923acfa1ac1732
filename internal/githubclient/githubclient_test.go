package githubclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureServer serves canned payloads for one repo with a mix of clean,
// out-of-window and malformed records.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"name": "platform"}]`)
	})

	mux.HandleFunc("/repos/acme/platform/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 101, "number": 1, "title": "Add retry layer", "body": "Adds a bounded retry wrapper around outbound calls.",
			 "state": "closed", "user": {"login": "alice"},
			 "created_at": "2025-11-02T10:00:00Z", "updated_at": "2025-11-03T10:00:00Z", "merged_at": "2025-11-03T09:00:00Z",
			 "additions": 120, "deletions": 30, "changed_files": 4, "html_url": "https://github.com/acme/platform/pull/1"},
			{"id": 102, "number": 2, "title": "Tighten timeouts", "body": "",
			 "state": "open", "user": {"login": "bob"},
			 "created_at": "2025-10-20T10:00:00Z", "updated_at": "2025-11-05T10:00:00Z", "merged_at": null,
			 "additions": 10, "deletions": 2, "changed_files": 1, "html_url": "https://github.com/acme/platform/pull/2"},
			{"id": 103, "number": 3, "title": "Old cleanup", "body": "",
			 "state": "closed", "user": {"login": "carol"},
			 "created_at": "2025-10-01T10:00:00Z", "updated_at": "2025-10-15T10:00:00Z", "merged_at": null,
			 "additions": 0, "deletions": 0, "changed_files": 0, "html_url": "https://github.com/acme/platform/pull/3"},
			{"id": 104, "number": 4, "title": "Broken payload", "body": "",
			 "state": "open", "user": {"login": "dave"},
			 "created_at": "not-a-date", "updated_at": "2025-11-04T10:00:00Z", "merged_at": null,
			 "additions": 1, "deletions": 1, "changed_files": 1, "html_url": "https://github.com/acme/platform/pull/4"}
		]`)
	})

	mux.HandleFunc("/repos/acme/platform/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"sha": "abc123", "html_url": "https://github.com/acme/platform/commit/abc123",
			 "commit": {"message": "Fix flaky retry test", "author": {"name": "alice", "date": "2025-11-02T08:00:00Z"}}},
			{"sha": "", "html_url": "",
			 "commit": {"message": "ghost", "author": {"name": "nobody", "date": "2025-11-02T08:00:00Z"}}}
		]`)
	})

	mux.HandleFunc("/repos/acme/platform/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 201, "number": 10, "title": "Timeout regression", "body": "Requests hang after the retry change.",
			 "state": "closed", "user": {"login": "bob"},
			 "created_at": "2025-11-01T12:00:00Z", "updated_at": "2025-11-02T12:00:00Z", "closed_at": "2025-11-02T12:00:00Z",
			 "html_url": "https://github.com/acme/platform/issues/10"},
			{"id": 202, "number": 11, "title": "PR masquerading as issue", "body": "",
			 "state": "open", "user": {"login": "carol"},
			 "created_at": "2025-11-03T12:00:00Z", "updated_at": "2025-11-03T12:00:00Z", "closed_at": null,
			 "html_url": "https://github.com/acme/platform/pull/11", "pull_request": {}},
			{"id": 203, "number": 12, "title": "Stale report", "body": "",
			 "state": "open", "user": {"login": "carol"},
			 "created_at": "2025-10-01T12:00:00Z", "updated_at": "2025-10-10T12:00:00Z", "closed_at": null,
			 "html_url": "https://github.com/acme/platform/issues/12"}
		]`)
	})

	mux.HandleFunc("/repos/acme/platform/pulls/1/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 301, "user": {"login": "bob"}, "body": "Looks good, one nit on naming.",
			 "state": "APPROVED", "submitted_at": "2025-11-03T08:00:00Z",
			 "pull_request_url": "https://api.github.com/repos/acme/platform/pulls/1"}
		]`)
	})

	mux.HandleFunc("/repos/acme/platform/pulls/2/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	return httptest.NewServer(mux)
}

func testClient(baseURL string) *Client {
	cfg := &contract.Config{
		GithubToken:  "test-token",
		GithubOrg:    "acme",
		GithubAPIURL: baseURL,
	}
	return NewClient(cfg)
}

func TestFetchData(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	data, err := testClient(srv.URL).FetchData(context.Background(), start, end)
	require.NoError(t, err)

	// Out-of-window PR filtered silently, malformed PR counted as skipped
	require.Len(t, data.PullRequests, 2)
	assert.Equal(t, "alice", data.PullRequests[0].Author)
	assert.True(t, data.PullRequests[0].Merged())
	assert.Equal(t, "platform", data.PullRequests[0].Repo)
	assert.Equal(t, 120, data.PullRequests[0].Additions)
	assert.Equal(t, "bob", data.PullRequests[1].Author)
	assert.False(t, data.PullRequests[1].Merged())

	require.Len(t, data.Commits, 1)
	assert.Equal(t, "alice", data.Commits[0].Author)
	assert.Equal(t, "Fix flaky retry test", data.Commits[0].Message)

	require.Len(t, data.Issues, 1)
	assert.Equal(t, "bob", data.Issues[0].Author)
	require.NotNil(t, data.Issues[0].ClosedAt)

	require.Len(t, data.Reviews, 1)
	assert.Equal(t, "bob", data.Reviews[0].Author)

	// One malformed PR plus one commit without a sha
	assert.Equal(t, 2, data.Skipped)
	assert.Equal(t, 5, data.Count())
}

func TestFetchDataSendsAuth(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	data, err := testClient(srv.URL).FetchData(context.Background(), start, end)
	require.NoError(t, err)
	assert.Zero(t, data.Count(), "no repos means no records")
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
}

func TestFetchDataAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	_, err := testClient(srv.URL).FetchData(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github API error: status 403")
}

func TestFetchDataRepoLimit(t *testing.T) {
	// Eight repos come back but only the first five get queried
	var queried []string
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"name":"r1"},{"name":"r2"},{"name":"r3"},{"name":"r4"},{"name":"r5"},{"name":"r6"},{"name":"r7"},{"name":"r8"}]`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		queried = append(queried, r.URL.Path)
		fmt.Fprint(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	_, err := testClient(srv.URL).FetchData(context.Background(), start, end)
	require.NoError(t, err)

	for _, path := range queried {
		assert.NotContains(t, path, "/repos/acme/r6/")
		assert.NotContains(t, path, "/repos/acme/r7/")
		assert.NotContains(t, path, "/repos/acme/r8/")
	}
	// Three resource endpoints per kept repo
	assert.Len(t, queried, 15)
}
