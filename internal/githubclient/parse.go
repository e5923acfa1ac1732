package githubclient

import (
	"fmt"
	"time"

	"github.com/huangsam/devpulse/schema"
)

// API payload shapes. Timestamps stay strings so one malformed record skips
// without failing the whole page decode.
type (
	apiRepo struct {
		Name string `json:"name"`
	}

	apiUser struct {
		Login string `json:"login"`
	}

	apiPullRequest struct {
		ID           int64    `json:"id"`
		Number       int      `json:"number"`
		Title        string   `json:"title"`
		Body         string   `json:"body"`
		State        string   `json:"state"`
		User         *apiUser `json:"user"`
		CreatedAt    string   `json:"created_at"`
		UpdatedAt    string   `json:"updated_at"`
		MergedAt     string   `json:"merged_at"`
		Additions    int      `json:"additions"`
		Deletions    int      `json:"deletions"`
		ChangedFiles int      `json:"changed_files"`
		HTMLURL      string   `json:"html_url"`
	}

	apiCommit struct {
		SHA     string `json:"sha"`
		HTMLURL string `json:"html_url"`
		Commit  struct {
			Message string `json:"message"`
			Author  struct {
				Name string `json:"name"`
				Date string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}

	apiIssue struct {
		ID          int64     `json:"id"`
		Number      int       `json:"number"`
		Title       string    `json:"title"`
		Body        string    `json:"body"`
		State       string    `json:"state"`
		User        *apiUser  `json:"user"`
		CreatedAt   string    `json:"created_at"`
		UpdatedAt   string    `json:"updated_at"`
		ClosedAt    string    `json:"closed_at"`
		HTMLURL     string    `json:"html_url"`
		PullRequest *struct{} `json:"pull_request"`
	}

	apiReview struct {
		ID             int64    `json:"id"`
		User           *apiUser `json:"user"`
		Body           string   `json:"body"`
		State          string   `json:"state"`
		SubmittedAt    string   `json:"submitted_at"`
		PullRequestURL string   `json:"pull_request_url"`
	}
)

// parsePullRequest validates one pull request payload. Records with no
// author survive parsing; the extractor drops them later.
func parsePullRequest(raw *apiPullRequest, repo string) (schema.PullRequest, error) {
	created, err := parseTime(raw.CreatedAt)
	if err != nil {
		return schema.PullRequest{}, fmt.Errorf("pull request %d: %w", raw.Number, err)
	}

	pr := schema.PullRequest{
		ID:           raw.ID,
		Number:       raw.Number,
		Repo:         repo,
		Title:        raw.Title,
		Body:         raw.Body,
		Author:       loginOf(raw.User),
		State:        raw.State,
		CreatedAt:    created,
		Additions:    raw.Additions,
		Deletions:    raw.Deletions,
		ChangedFiles: raw.ChangedFiles,
		URL:          raw.HTMLURL,
	}
	if raw.MergedAt != "" {
		merged, err := parseTime(raw.MergedAt)
		if err != nil {
			return schema.PullRequest{}, fmt.Errorf("pull request %d: %w", raw.Number, err)
		}
		pr.MergedAt = &merged
	}
	return pr, nil
}

// parseCommit validates one commit payload.
func parseCommit(raw *apiCommit, repo string) (schema.Commit, error) {
	if raw.SHA == "" {
		return schema.Commit{}, fmt.Errorf("commit without sha in %s", repo)
	}
	authored, err := parseTime(raw.Commit.Author.Date)
	if err != nil {
		return schema.Commit{}, fmt.Errorf("commit %s: %w", raw.SHA, err)
	}
	return schema.Commit{
		SHA:        raw.SHA,
		Repo:       repo,
		Message:    raw.Commit.Message,
		Author:     raw.Commit.Author.Name,
		AuthoredAt: authored,
		URL:        raw.HTMLURL,
	}, nil
}

// parseIssue validates one issue payload.
func parseIssue(raw *apiIssue, repo string) (schema.Issue, error) {
	created, err := parseTime(raw.CreatedAt)
	if err != nil {
		return schema.Issue{}, fmt.Errorf("issue %d: %w", raw.Number, err)
	}

	issue := schema.Issue{
		ID:        raw.ID,
		Number:    raw.Number,
		Repo:      repo,
		Title:     raw.Title,
		Body:      raw.Body,
		Author:    loginOf(raw.User),
		State:     raw.State,
		CreatedAt: created,
		URL:       raw.HTMLURL,
	}
	if raw.ClosedAt != "" {
		closed, err := parseTime(raw.ClosedAt)
		if err != nil {
			return schema.Issue{}, fmt.Errorf("issue %d: %w", raw.Number, err)
		}
		issue.ClosedAt = &closed
	}
	return issue, nil
}

// parseReview validates one review payload.
func parseReview(raw *apiReview) (schema.Review, error) {
	submitted, err := parseTime(raw.SubmittedAt)
	if err != nil {
		return schema.Review{}, fmt.Errorf("review %d: %w", raw.ID, err)
	}
	return schema.Review{
		ID:             raw.ID,
		Author:         loginOf(raw.User),
		Body:           raw.Body,
		State:          raw.State,
		PullRequestURL: raw.PullRequestURL,
		SubmittedAt:    submitted,
	}, nil
}

// loginOf unwraps the optional author object.
func loginOf(user *apiUser) string {
	if user == nil {
		return ""
	}
	return user.Login
}

// parseTime parses the RFC3339 timestamps GitHub emits.
func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", value, err)
	}
	return t, nil
}
