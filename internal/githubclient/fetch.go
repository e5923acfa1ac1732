package githubclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// getJSON performs one authenticated GET and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "devpulse/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode github response: %w", err)
	}
	return nil
}

// listRepos returns the organization's repository names, most recently
// updated first. Pagination stops at the first empty page.
func (c *Client) listRepos(ctx context.Context) ([]string, error) {
	var names []string
	for page := 1; page <= maxRepoPages; page++ {
		params := url.Values{}
		params.Set("type", "all")
		params.Set("sort", "updated")
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(reposPerPage))

		var repos []apiRepo
		if err := c.getJSON(ctx, fmt.Sprintf("/orgs/%s/repos", c.org), params, &repos); err != nil {
			return nil, err
		}
		if len(repos) == 0 {
			break
		}
		for _, r := range repos {
			names = append(names, r.Name)
		}
	}
	return names, nil
}

// fetchPulls returns the repo's pull requests updated inside the window.
// The pulls endpoint has no server-side date filter, so the window is
// applied client-side to the most recently updated page.
func (c *Client) fetchPulls(ctx context.Context, repo string, start, end time.Time) ([]schema.PullRequest, int, error) {
	params := url.Values{}
	params.Set("state", "all")
	params.Set("sort", "updated")
	params.Set("direction", "desc")
	params.Set("per_page", strconv.Itoa(recordsPerPage))

	var raw []apiPullRequest
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls", c.org, repo), params, &raw); err != nil {
		return nil, 0, err
	}

	var prs []schema.PullRequest
	skipped := 0
	for i := range raw {
		updated, err := parseTime(raw[i].UpdatedAt)
		if err != nil {
			contract.LogWarn("Skipping pull request", err)
			skipped++
			continue
		}
		if !withinWindow(updated, start, end) {
			continue
		}
		pr, err := parsePullRequest(&raw[i], repo)
		if err != nil {
			contract.LogWarn("Skipping pull request", err)
			skipped++
			continue
		}
		prs = append(prs, pr)
	}
	return prs, skipped, nil
}

// fetchCommits returns the repo's commits inside the window. The commits
// endpoint filters by date server-side.
func (c *Client) fetchCommits(ctx context.Context, repo string, start, end time.Time) ([]schema.Commit, int, error) {
	params := url.Values{}
	params.Set("since", start.Format(time.RFC3339))
	params.Set("until", end.Format(time.RFC3339))
	params.Set("per_page", strconv.Itoa(recordsPerPage))

	var raw []apiCommit
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/commits", c.org, repo), params, &raw); err != nil {
		return nil, 0, err
	}

	var commits []schema.Commit
	skipped := 0
	for i := range raw {
		commit, err := parseCommit(&raw[i], repo)
		if err != nil {
			contract.LogWarn("Skipping commit", err)
			skipped++
			continue
		}
		commits = append(commits, commit)
	}
	return commits, skipped, nil
}

// fetchIssues returns the repo's issues updated inside the window. Pull
// requests surfaced through the issues endpoint are filtered out.
func (c *Client) fetchIssues(ctx context.Context, repo string, start, end time.Time) ([]schema.Issue, int, error) {
	params := url.Values{}
	params.Set("state", "all")
	params.Set("sort", "updated")
	params.Set("since", start.Format(time.RFC3339))
	params.Set("per_page", strconv.Itoa(recordsPerPage))

	var raw []apiIssue
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/issues", c.org, repo), params, &raw); err != nil {
		return nil, 0, err
	}

	var issues []schema.Issue
	skipped := 0
	for i := range raw {
		if raw[i].PullRequest != nil {
			continue
		}
		updated, err := parseTime(raw[i].UpdatedAt)
		if err != nil {
			contract.LogWarn("Skipping issue", err)
			skipped++
			continue
		}
		if !withinWindow(updated, start, end) {
			continue
		}
		issue, err := parseIssue(&raw[i], repo)
		if err != nil {
			contract.LogWarn("Skipping issue", err)
			skipped++
			continue
		}
		issues = append(issues, issue)
	}
	return issues, skipped, nil
}

// fetchReviews returns the reviews submitted on one pull request.
func (c *Client) fetchReviews(ctx context.Context, repo string, number int) ([]schema.Review, int, error) {
	var raw []apiReview
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", c.org, repo, number), nil, &raw); err != nil {
		return nil, 0, err
	}

	var reviews []schema.Review
	skipped := 0
	for i := range raw {
		review, err := parseReview(&raw[i])
		if err != nil {
			contract.LogWarn("Skipping review", err)
			skipped++
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews, skipped, nil
}

// withinWindow reports whether ts falls inside [start, end].
func withinWindow(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}
