package jiraclient

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

// fixtureServer serves one search page with a mix of clean and malformed
// tickets, plus per-ticket comment pages.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"total": 3,
			"issues": [
				{"id": "10001", "key": "DEV-1",
				 "fields": {
					"summary": "Harden retry budget handling",
					"description": "Retries currently ignore the per-host budget and can stampede.",
					"status": {"name": "Done"},
					"assignee": {"displayName": "Alice Chen"},
					"creator": {"displayName": "Bob Lee"},
					"created": "2025-11-02T10:00:00.000+0000",
					"updated": "2025-11-06T09:30:00.000+0000",
					"resolutiondate": "2025-11-06T09:30:00.000+0000",
					"storyPointEstimate": 5
				 },
				 "changelog": {"histories": [
					{"created": "2025-11-05T14:00:00.000+0000", "author": {"displayName": "Alice Chen"},
					 "items": [
						{"field": "status", "fromString": "In Progress", "toString": "Done"},
						{"field": "assignee", "fromString": "Bob Lee", "toString": "Alice Chen"}
					 ]},
					{"created": "bad-time", "author": {"displayName": "Bob Lee"},
					 "items": [{"field": "status", "fromString": "To Do", "toString": "In Progress"}]}
				 ]}
				},
				{"id": "10002", "key": "DEV-2",
				 "fields": {
					"summary": "Document the digest format",
					"description": "",
					"status": {"name": "In Progress"},
					"assignee": null,
					"creator": {"displayName": "Carol Diaz"},
					"created": "2025-11-03T10:00:00Z",
					"updated": "2025-11-05T10:00:00Z",
					"resolutiondate": "",
					"customfield_10016": 3
				 },
				 "changelog": {"histories": []}
				},
				{"id": "10003", "key": "",
				 "fields": {
					"summary": "Ghost ticket",
					"created": "2025-11-04T10:00:00Z",
					"updated": "2025-11-04T10:00:00Z"
				 },
				 "changelog": {"histories": []}
				}
			]
		}`)
	})

	mux.HandleFunc("/rest/api/2/issue/DEV-1/comment", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"comments": [
			{"id": "9001", "author": {"displayName": "Carol Diaz"},
			 "body": "The budget reset also needs to cover the streaming path, see the linked incident.",
			 "created": "2025-11-05T15:00:00Z"},
			{"id": "", "author": {"displayName": "Nobody"}, "body": "orphan", "created": "2025-11-05T15:00:00Z"}
		]}`)
	})

	mux.HandleFunc("/rest/api/2/issue/DEV-2/comment", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"comments": []}`)
	})

	return httptest.NewServer(mux)
}

func testClient(baseURL string) *Client {
	cfg := &contract.Config{
		JiraURL:      baseURL,
		JiraEmail:    "dev@example.com",
		JiraAPIToken: "jira-token",
		JiraProject:  "DEV",
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

	require.Len(t, data.Tickets, 2)
	first := data.Tickets[0]
	assert.Equal(t, "DEV-1", first.Key)
	assert.Equal(t, "Alice Chen", first.Assignee)
	assert.Equal(t, "Bob Lee", first.Creator)
	assert.Equal(t, "Done", first.Status)
	assert.Equal(t, 5.0, first.StoryPoints)
	require.NotNil(t, first.ResolvedAt)
	assert.Equal(t, srv.URL+"/browse/DEV-1", first.URL)

	second := data.Tickets[1]
	assert.Empty(t, second.Assignee)
	assert.Equal(t, 3.0, second.StoryPoints, "legacy custom field read")
	assert.Nil(t, second.ResolvedAt)

	// Only the status item from the good history survives
	require.Len(t, data.Transitions, 1)
	assert.Equal(t, "DEV-1", data.Transitions[0].TicketKey)
	assert.Equal(t, "In Progress", data.Transitions[0].FromStatus)
	assert.Equal(t, "Done", data.Transitions[0].ToStatus)
	assert.Equal(t, "Alice Chen", data.Transitions[0].Author)

	require.Len(t, data.Comments, 1)
	assert.Equal(t, "9001", data.Comments[0].ID)
	assert.Equal(t, "DEV-1", data.Comments[0].TicketKey)
	assert.Equal(t, "Carol Diaz", data.Comments[0].Author)

	// Keyless ticket, bad changelog history, comment without id
	assert.Equal(t, 3, data.Skipped)
	assert.Equal(t, 4, data.Count())
}

func TestFetchDataSendsQueryAndAuth(t *testing.T) {
	var gotJQL, gotExpand, gotMax string
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotJQL = r.URL.Query().Get("jql")
		gotExpand = r.URL.Query().Get("expand")
		gotMax = r.URL.Query().Get("maxResults")
		gotUser, gotPass, _ = r.BasicAuth()
		fmt.Fprint(w, `{"total": 0, "issues": []}`)
	}))
	defer srv.Close()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	data, err := testClient(srv.URL).FetchData(context.Background(), start, end)
	require.NoError(t, err)
	assert.Zero(t, data.Count())

	assert.Equal(t, "project = DEV AND updated >= '2025-11-01' AND updated <= '2025-11-08'", gotJQL)
	assert.Equal(t, "changelog", gotExpand)
	assert.Equal(t, "100", gotMax)
	assert.Equal(t, "dev@example.com", gotUser)
	assert.Equal(t, "jira-token", gotPass)
}

func TestFetchDataAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	_, err := testClient(srv.URL).FetchData(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jira API error: status 401")
}
