// Package jiraclient fetches issue-tracking activity from the Jira REST API.
package jiraclient

import (
	"context"
	"net/http"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// searchMaxResults bounds one analysis window to a single search page.
const searchMaxResults = 100

// requestTimeout bounds each API call independently of the run context.
const requestTimeout = 30 * time.Second

// jiraTimeFormat is the timestamp layout Jira emits. Some instances send
// plain RFC3339 instead, so parsing falls back to that.
const jiraTimeFormat = "2006-01-02T15:04:05.000-0700"

// Client talks to the Jira REST v2 API for one site.
type Client struct {
	email   string
	token   string
	baseURL string
	project string
	hc      *http.Client
}

var _ contract.JiraClient = (*Client)(nil)

// NewClient builds a Jira client from validated configuration.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		email:   cfg.JiraEmail,
		token:   cfg.JiraAPIToken,
		baseURL: cfg.JiraURL,
		project: cfg.JiraProject,
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// FetchData retrieves tickets updated in the window, the status transitions
// from their changelogs, and their comments. Malformed records are skipped
// and counted; any API failure aborts the fetch.
func (c *Client) FetchData(ctx context.Context, start, end time.Time) (*schema.JiraData, error) {
	raw, err := c.searchIssues(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data := &schema.JiraData{}
	for i := range raw {
		ticket, err := parseTicket(&raw[i], c.baseURL)
		if err != nil {
			contract.LogWarn("Skipping ticket", err)
			data.Skipped++
			continue
		}
		data.Tickets = append(data.Tickets, ticket)

		transitions, skipped := collectTransitions(&raw[i].Changelog, ticket.Key)
		data.Transitions = append(data.Transitions, transitions...)
		data.Skipped += skipped

		comments, skipped, err := c.fetchComments(ctx, ticket.Key)
		if err != nil {
			return nil, err
		}
		data.Comments = append(data.Comments, comments...)
		data.Skipped += skipped
	}
	return data, nil
}
