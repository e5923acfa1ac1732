package schema

// AttributedTicket pairs a ticket with the role that linked it to an engineer.
// A ticket reaches an engineer either as its assignee or as its creator;
// completion and story-point accounting only follows the assignee edge so a
// ticket shared between two people is never counted twice.
type AttributedTicket struct {
	Ticket
	Assigned bool `json:"assigned"` // engineer is the ticket assignee
}

// EngineerActivity is the per-contributor bucket of raw records for one run.
// Keys into the surrounding map are exact display names; the same human under
// different handles on the two platforms stays two entries.
type EngineerActivity struct {
	Name           string             `json:"name"`
	PullRequests   []PullRequest      `json:"pull_requests"`
	Commits        []Commit           `json:"commits"`
	Reviews        []Review           `json:"reviews"`
	Issues         []Issue            `json:"issues"`
	Tickets        []AttributedTicket `json:"tickets"`
	TicketComments []TicketComment    `json:"ticket_comments"`
	Transitions    []Transition       `json:"transitions"`
}

// RecordCount returns the number of raw records attached to the engineer.
func (a *EngineerActivity) RecordCount() int {
	return len(a.PullRequests) + len(a.Commits) + len(a.Reviews) + len(a.Issues) +
		len(a.Tickets) + len(a.TicketComments) + len(a.Transitions)
}

// GithubStats is the fixed-shape numeric summary of code-hosting activity.
// All fields are non-negative counters derived deterministically from one
// EngineerActivity.
type GithubStats struct {
	PRsCreated         int `json:"prs_created"`
	PRsMerged          int `json:"prs_merged"`
	PRsReviewed        int `json:"prs_reviewed"`  // distinct pull requests reviewed
	ReviewsGiven       int `json:"reviews_given"` // total review submissions
	CommitsMade        int `json:"commits_made"`
	LinesAdded         int `json:"lines_added"`
	LinesDeleted       int `json:"lines_deleted"`
	FilesChanged       int `json:"files_changed"`
	IssuesCreated      int `json:"issues_created"`
	IssuesClosed       int `json:"issues_closed"`
	ReviewComments     int `json:"review_comments"`
	SubstantialReviews int `json:"substantial_reviews"` // review comments longer than 50 chars
}

// JiraStats is the fixed-shape numeric summary of issue-tracking activity.
// Counters are non-negative integers; the time fields are non-negative hours.
type JiraStats struct {
	TicketsCreated       int     `json:"tickets_created"`
	TicketsCompleted     int     `json:"tickets_completed"`
	TicketsInProgress    int     `json:"tickets_in_progress"`
	StoryPointsCompleted float64 `json:"story_points_completed"`
	CommentsMade         int     `json:"comments_made"`
	MeaningfulComments   int     `json:"meaningful_comments"` // comments longer than 100 chars
	TimeInReview         float64 `json:"time_in_review"`      // avg hours in review before completion
	TimeToCompletion     float64 `json:"time_to_completion"`  // avg hours from creation to completion
}
