package core

import (
	"sort"
	"strings"

	"github.com/huangsam/devpulse/schema"
)

// extractActivity groups raw platform records by engineer.
//
// GitHub records attribute to one engineer each. Jira tickets can involve
// two people. The assignee owns delivery credit and the creator owns
// creation credit, so a ticket lands in both activity sets with an
// attribution marker that downstream aggregation checks before counting
// completions.
func extractActivity(data *schema.PlatformData) []*schema.EngineerActivity {
	byName := map[string]*schema.EngineerActivity{}

	get := func(name string) *schema.EngineerActivity {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil
		}
		act, ok := byName[name]
		if !ok {
			act = &schema.EngineerActivity{Name: name}
			byName[name] = act
		}
		return act
	}

	if data.Github != nil {
		for _, pr := range data.Github.PullRequests {
			if act := get(pr.Author); act != nil {
				act.PullRequests = append(act.PullRequests, pr)
			}
		}
		for _, commit := range data.Github.Commits {
			if act := get(commit.Author); act != nil {
				act.Commits = append(act.Commits, commit)
			}
		}
		for _, review := range data.Github.Reviews {
			if act := get(review.Author); act != nil {
				act.Reviews = append(act.Reviews, review)
			}
		}
		for _, issue := range data.Github.Issues {
			if act := get(issue.Author); act != nil {
				act.Issues = append(act.Issues, issue)
			}
		}
	}

	if data.Jira != nil {
		for _, ticket := range data.Jira.Tickets {
			assignee := get(ticket.Assignee)
			if assignee != nil {
				assignee.Tickets = append(assignee.Tickets, schema.AttributedTicket{Ticket: ticket, Assigned: true})
			}
			creator := get(ticket.Creator)
			if creator != nil && creator != assignee {
				creator.Tickets = append(creator.Tickets, schema.AttributedTicket{Ticket: ticket, Assigned: false})
			}
		}
		for _, comment := range data.Jira.Comments {
			if act := get(comment.Author); act != nil {
				act.TicketComments = append(act.TicketComments, comment)
			}
		}
		for _, tr := range data.Jira.Transitions {
			if act := get(tr.Author); act != nil {
				act.Transitions = append(act.Transitions, tr)
			}
		}
	}

	activities := make([]*schema.EngineerActivity, 0, len(byName))
	for _, act := range byName {
		activities = append(activities, act)
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Name < activities[j].Name
	})
	return activities
}
