// Package index has text indexing for similarity search and quality signals.
package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Admission gates for free text. Anything shorter carries too little
// signal to be worth a vector.
const (
	minPRBodyChars    = 20
	minCommitMsgChars = 10
	minIssueBodyChars = 20
	minCommentChars   = 20
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	nonWordPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// NewIndexer returns the indexer for the configured strategy, or nil when
// indexing is disabled. Callers treat a nil indexer as "no quality
// signals", not as an error.
func NewIndexer(kind schema.IndexerKind) contract.Indexer {
	switch kind {
	case schema.TFIDFIndexer:
		return NewTFIDF()
	default:
		return nil
	}
}

// CleanText normalizes free text for indexing: URLs dropped, punctuation
// flattened to spaces, whitespace collapsed, everything lowercased.
func CleanText(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// BuildDocuments converts raw platform records into indexable documents.
// Ids derive from each record's native identity so the same record maps
// to the same document on every run.
func BuildDocuments(data *schema.PlatformData) []schema.Document {
	var docs []schema.Document
	if data == nil {
		return docs
	}

	if data.Github != nil {
		for _, pr := range data.Github.PullRequests {
			if len(strings.TrimSpace(pr.Body)) <= minPRBodyChars {
				continue
			}
			docs = append(docs, schema.Document{
				ID:        fmt.Sprintf("github_pr_%d", pr.ID),
				Source:    schema.GithubSource,
				Kind:      schema.PullRequestDoc,
				Author:    pr.Author,
				Title:     pr.Title,
				Content:   CleanText(pr.Title + " " + pr.Body),
				URL:       pr.URL,
				CreatedAt: pr.CreatedAt,
			})
		}
		for _, commit := range data.Github.Commits {
			if len(strings.TrimSpace(commit.Message)) <= minCommitMsgChars {
				continue
			}
			docs = append(docs, schema.Document{
				ID:        fmt.Sprintf("github_commit_%s", commit.SHA),
				Source:    schema.GithubSource,
				Kind:      schema.CommitDoc,
				Author:    commit.Author,
				Title:     firstLine(commit.Message),
				Content:   CleanText(commit.Message),
				URL:       commit.URL,
				CreatedAt: commit.AuthoredAt,
			})
		}
		for _, issue := range data.Github.Issues {
			if len(strings.TrimSpace(issue.Body)) <= minIssueBodyChars {
				continue
			}
			docs = append(docs, schema.Document{
				ID:        fmt.Sprintf("github_issue_%d", issue.ID),
				Source:    schema.GithubSource,
				Kind:      schema.IssueDoc,
				Author:    issue.Author,
				Title:     issue.Title,
				Content:   CleanText(issue.Title + " " + issue.Body),
				URL:       issue.URL,
				CreatedAt: issue.CreatedAt,
			})
		}
	}

	if data.Jira != nil {
		for _, ticket := range data.Jira.Tickets {
			if strings.TrimSpace(ticket.Summary) == "" && strings.TrimSpace(ticket.Description) == "" {
				continue
			}
			docs = append(docs, schema.Document{
				ID:        fmt.Sprintf("jira_ticket_%s", ticket.Key),
				Source:    schema.JiraSource,
				Kind:      schema.TicketDoc,
				Author:    ticket.Creator,
				Title:     ticket.Summary,
				Content:   CleanText(ticket.Summary + " " + ticket.Description),
				URL:       ticket.URL,
				CreatedAt: ticket.CreatedAt,
			})
		}
		for _, comment := range data.Jira.Comments {
			if len(strings.TrimSpace(comment.Body)) <= minCommentChars {
				continue
			}
			docs = append(docs, schema.Document{
				ID:        fmt.Sprintf("jira_comment_%s", comment.ID),
				Source:    schema.JiraSource,
				Kind:      schema.CommentDoc,
				Author:    comment.Author,
				Content:   CleanText(comment.Body),
				CreatedAt: comment.CreatedAt,
			})
		}
	}
	return docs
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
