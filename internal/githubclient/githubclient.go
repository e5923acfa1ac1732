// Package githubclient fetches code-hosting activity from the GitHub REST API.
package githubclient

import (
	"context"
	"net/http"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Fetch limits keep one analysis run within GitHub rate budgets.
const (
	maxRepoPages   = 3
	reposPerPage   = 30
	maxActiveRepos = 5
	recordsPerPage = 50
	maxReviewPRs   = 10
)

// requestTimeout bounds each API call independently of the run context.
const requestTimeout = 30 * time.Second

// Client talks to the GitHub REST v3 API for one organization.
// A custom base URL supports GitHub Enterprise instances.
type Client struct {
	token   string
	org     string
	baseURL string
	hc      *http.Client
}

var _ contract.GithubClient = (*Client)(nil)

// NewClient builds a GitHub client from validated configuration.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		token:   cfg.GithubToken,
		org:     cfg.GithubOrg,
		baseURL: cfg.GithubAPIURL,
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// FetchData retrieves pull requests, commits, reviews and issues for the
// window, walking the most recently updated repositories of the organization.
// Malformed records are skipped and counted; any API failure aborts the fetch.
func (c *Client) FetchData(ctx context.Context, start, end time.Time) (*schema.GithubData, error) {
	repos, err := c.listRepos(ctx)
	if err != nil {
		return nil, err
	}
	if len(repos) > maxActiveRepos {
		repos = repos[:maxActiveRepos]
	}

	data := &schema.GithubData{}
	for _, repo := range repos {
		prs, skipped, err := c.fetchPulls(ctx, repo, start, end)
		if err != nil {
			return nil, err
		}
		data.PullRequests = append(data.PullRequests, prs...)
		data.Skipped += skipped

		commits, skipped, err := c.fetchCommits(ctx, repo, start, end)
		if err != nil {
			return nil, err
		}
		data.Commits = append(data.Commits, commits...)
		data.Skipped += skipped

		issues, skipped, err := c.fetchIssues(ctx, repo, start, end)
		if err != nil {
			return nil, err
		}
		data.Issues = append(data.Issues, issues...)
		data.Skipped += skipped
	}

	reviewTargets := data.PullRequests
	if len(reviewTargets) > maxReviewPRs {
		reviewTargets = reviewTargets[:maxReviewPRs]
	}
	for _, pr := range reviewTargets {
		reviews, skipped, err := c.fetchReviews(ctx, pr.Repo, pr.Number)
		if err != nil {
			return nil, err
		}
		data.Reviews = append(data.Reviews, reviews...)
		data.Skipped += skipped
	}

	return data, nil
}
