package core

import (
	"strings"
	"time"

	"github.com/huangsam/devpulse/schema"
)

// Ticket lifecycle states, compared case-insensitively.
var (
	terminalStatuses   = map[string]bool{"done": true, "closed": true, "resolved": true}
	inProgressStatuses = map[string]bool{"in progress": true, "in development": true}
	reviewStatuses     = map[string]bool{"in review": true, "code review": true, "review": true}
)

// Body length thresholds for counting a contribution as substantive.
const (
	substantialReviewChars = 50
	meaningfulCommentChars = 100
	closedIssueState       = "closed"
)

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func isTerminal(status string) bool { return terminalStatuses[normalizeStatus(status)] }
func isInProgress(s string) bool    { return inProgressStatuses[normalizeStatus(s)] }
func isReviewStatus(s string) bool  { return reviewStatuses[normalizeStatus(s)] }

// computeGithubStats flattens GitHub activity into counters.
func computeGithubStats(act *schema.EngineerActivity) schema.GithubStats {
	stats := schema.GithubStats{
		PRsCreated:    len(act.PullRequests),
		CommitsMade:   len(act.Commits),
		IssuesCreated: len(act.Issues),
	}

	for _, pr := range act.PullRequests {
		if pr.Merged() {
			stats.PRsMerged++
		}
		stats.LinesAdded += pr.Additions
		stats.LinesDeleted += pr.Deletions
		stats.FilesChanged += pr.ChangedFiles
	}

	// A reviewer can submit several reviews on one PR. Distinct PRs
	// measure breadth, raw comment counts measure engagement.
	stats.ReviewsGiven = len(act.Reviews)
	seenPRs := map[string]bool{}
	for _, review := range act.Reviews {
		if review.PullRequestURL != "" && !seenPRs[review.PullRequestURL] {
			seenPRs[review.PullRequestURL] = true
			stats.PRsReviewed++
		}
		body := strings.TrimSpace(review.Body)
		if body != "" {
			stats.ReviewComments++
		}
		if len(body) > substantialReviewChars {
			stats.SubstantialReviews++
		}
	}

	for _, issue := range act.Issues {
		if normalizeStatus(issue.State) == closedIssueState {
			stats.IssuesClosed++
		}
	}
	return stats
}

// computeJiraStats flattens Jira activity into counters.
//
// Ticket counts cover the engineer's whole touched set, but delivery
// credit (completions, story points, cycle times) goes to the assignee
// only. A ticket with no assignee credits its creator instead, so
// nobody's finished work vanishes from the totals.
func computeJiraStats(act *schema.EngineerActivity, transitions map[string][]schema.Transition) schema.JiraStats {
	stats := schema.JiraStats{
		TicketsCreated: len(act.Tickets),
		CommentsMade:   len(act.TicketComments),
	}

	var completionHours, reviewHours float64
	var completionSamples, reviewSamples int

	for _, attr := range act.Tickets {
		ticket := attr.Ticket
		credited := attr.Assigned || strings.TrimSpace(ticket.Assignee) == ""

		switch {
		case isTerminal(ticket.Status):
			if !credited {
				continue
			}
			stats.TicketsCompleted++
			stats.StoryPointsCompleted += ticket.StoryPoints

			end := terminalTime(ticket, transitions[ticket.Key])
			if end != nil {
				if delta := end.Sub(ticket.CreatedAt); delta > 0 {
					completionHours += delta.Hours()
					completionSamples++
				}
				if start := reviewStart(transitions[ticket.Key]); start != nil {
					if delta := end.Sub(*start); delta > 0 {
						reviewHours += delta.Hours()
						reviewSamples++
					}
				}
			}
		case isInProgress(ticket.Status):
			stats.TicketsInProgress++
		}
	}

	for _, comment := range act.TicketComments {
		if len(strings.TrimSpace(comment.Body)) > meaningfulCommentChars {
			stats.MeaningfulComments++
		}
	}

	if completionSamples > 0 {
		stats.TimeToCompletion = completionHours / float64(completionSamples)
	}
	if reviewSamples > 0 {
		stats.TimeInReview = reviewHours / float64(reviewSamples)
	}
	return stats
}

// terminalTime picks the moment a ticket reached a terminal status,
// preferring the resolution timestamp over transition history.
func terminalTime(ticket schema.Ticket, transitions []schema.Transition) *time.Time {
	if ticket.ResolvedAt != nil {
		return ticket.ResolvedAt
	}
	var latest *time.Time
	for i := range transitions {
		tr := transitions[i]
		if isTerminal(tr.ToStatus) && (latest == nil || tr.At.After(*latest)) {
			at := tr.At
			latest = &at
		}
	}
	return latest
}

// reviewStart picks the first transition into a review status.
func reviewStart(transitions []schema.Transition) *time.Time {
	var earliest *time.Time
	for i := range transitions {
		tr := transitions[i]
		if isReviewStatus(tr.ToStatus) && (earliest == nil || tr.At.Before(*earliest)) {
			at := tr.At
			earliest = &at
		}
	}
	return earliest
}

// groupTransitions maps ticket keys to their full transition history,
// regardless of who performed each transition.
func groupTransitions(data *schema.JiraData) map[string][]schema.Transition {
	if data == nil {
		return nil
	}
	byTicket := map[string][]schema.Transition{}
	for _, tr := range data.Transitions {
		if tr.TicketKey != "" {
			byTicket[tr.TicketKey] = append(byTicket[tr.TicketKey], tr)
		}
	}
	return byTicket
}
