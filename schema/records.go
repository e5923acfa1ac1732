package schema

import "time"

// PullRequest is a pull request parsed and validated at the fetch boundary.
type PullRequest struct {
	ID           int64      `json:"id"`
	Number       int        `json:"number"`
	Repo         string     `json:"repo"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Author       string     `json:"author"`
	State        string     `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	URL          string     `json:"url"`
}

// Merged reports whether the pull request has a merge timestamp.
func (p *PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// Commit is a single commit parsed at the fetch boundary.
type Commit struct {
	SHA        string    `json:"sha"`
	Repo       string    `json:"repo"`
	Message    string    `json:"message"`
	Author     string    `json:"author"`
	AuthoredAt time.Time `json:"authored_at"`
	URL        string    `json:"url"`
}

// Review is a pull request review parsed at the fetch boundary.
type Review struct {
	ID             int64     `json:"id"`
	Author         string    `json:"author"`
	Body           string    `json:"body"`
	State          string    `json:"state"`
	PullRequestURL string    `json:"pull_request_url"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Issue is an issue parsed at the fetch boundary. Pull requests surfaced
// through the issues endpoint are filtered out by the client.
type Issue struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Repo      string     `json:"repo"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Author    string     `json:"author"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	URL       string     `json:"url"`
}

// Ticket is an issue tracker ticket parsed at the fetch boundary.
// StoryPoints is resolved from whichever estimate field the instance uses.
type Ticket struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Assignee    string     `json:"assignee"`
	Creator     string     `json:"creator"`
	StoryPoints float64    `json:"story_points"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	URL         string     `json:"url"`
}

// TicketComment is a ticket comment parsed at the fetch boundary.
type TicketComment struct {
	ID        string    `json:"id"`
	TicketKey string    `json:"ticket_key"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Transition is a ticket status change parsed from the ticket changelog.
type Transition struct {
	TicketKey  string    `json:"ticket_key"`
	Author     string    `json:"author"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	At         time.Time `json:"at"`
}

// GithubData is one window of code-hosting activity.
// Skipped counts records the client dropped at parse time.
type GithubData struct {
	PullRequests []PullRequest `json:"pull_requests"`
	Commits      []Commit      `json:"commits"`
	Reviews      []Review      `json:"reviews"`
	Issues       []Issue       `json:"issues"`
	Skipped      int           `json:"skipped"`
}

// Count returns the total number of records fetched.
func (d *GithubData) Count() int {
	if d == nil {
		return 0
	}
	return len(d.PullRequests) + len(d.Commits) + len(d.Reviews) + len(d.Issues)
}

// JiraData is one window of issue-tracking activity.
// Skipped counts records the client dropped at parse time.
type JiraData struct {
	Tickets     []Ticket        `json:"tickets"`
	Comments    []TicketComment `json:"comments"`
	Transitions []Transition    `json:"transitions"`
	Skipped     int             `json:"skipped"`
}

// Count returns the total number of records fetched.
func (d *JiraData) Count() int {
	if d == nil {
		return 0
	}
	return len(d.Tickets) + len(d.Comments) + len(d.Transitions)
}

// PlatformData bundles both platforms' records for one analysis window.
type PlatformData struct {
	Github *GithubData `json:"github"`
	Jira   *JiraData   `json:"jira"`
}

// FetchCounts summarizes the raw record volume behind one analysis run.
type FetchCounts struct {
	PullRequests   int `json:"pull_requests"`
	Commits        int `json:"commits"`
	Reviews        int `json:"reviews"`
	Issues         int `json:"issues"`
	Tickets        int `json:"tickets"`
	TicketComments int `json:"ticket_comments"`
	Transitions    int `json:"transitions"`
	SkippedRecords int `json:"skipped_records"`
}

// CountFetch derives raw record counts from fetched platform data.
func CountFetch(data *PlatformData) FetchCounts {
	var counts FetchCounts
	if data == nil {
		return counts
	}
	if data.Github != nil {
		counts.PullRequests = len(data.Github.PullRequests)
		counts.Commits = len(data.Github.Commits)
		counts.Reviews = len(data.Github.Reviews)
		counts.Issues = len(data.Github.Issues)
		counts.SkippedRecords += data.Github.Skipped
	}
	if data.Jira != nil {
		counts.Tickets = len(data.Jira.Tickets)
		counts.TicketComments = len(data.Jira.Comments)
		counts.Transitions = len(data.Jira.Transitions)
		counts.SkippedRecords += data.Jira.Skipped
	}
	return counts
}
