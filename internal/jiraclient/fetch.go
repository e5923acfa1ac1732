package jiraclient

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
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "devpulse/1.0")
	req.SetBasicAuth(c.email, c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("jira request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("jira API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode jira response: %w", err)
	}
	return nil
}

// searchIssues returns the raw search page for the window, changelogs
// included.
func (c *Client) searchIssues(ctx context.Context, start, end time.Time) ([]apiTicket, error) {
	params := url.Values{}
	params.Set("jql", buildJQL(c.project, start, end))
	params.Set("maxResults", strconv.Itoa(searchMaxResults))
	params.Set("expand", "changelog")

	var page apiSearchPage
	if err := c.getJSON(ctx, "/rest/api/2/search", params, &page); err != nil {
		return nil, err
	}
	return page.Issues, nil
}

// fetchComments retrieves the comments of one ticket.
func (c *Client) fetchComments(ctx context.Context, key string) ([]schema.TicketComment, int, error) {
	var page apiCommentPage
	if err := c.getJSON(ctx, "/rest/api/2/issue/"+key+"/comment", nil, &page); err != nil {
		return nil, 0, err
	}

	var comments []schema.TicketComment
	var skipped int
	for i := range page.Comments {
		comment, err := parseComment(&page.Comments[i], key)
		if err != nil {
			contract.LogWarn("Skipping comment", err)
			skipped++
			continue
		}
		comments = append(comments, comment)
	}
	return comments, skipped, nil
}

// buildJQL scopes the query to the update window, and to one project when
// configured.
func buildJQL(project string, start, end time.Time) string {
	window := fmt.Sprintf("updated >= '%s' AND updated <= '%s'",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if project == "" {
		return window
	}
	return fmt.Sprintf("project = %s AND %s", project, window)
}
