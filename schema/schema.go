// Package schema has the data model and typed constants shared by all parts of devpulse.
package schema

// Custom string types for type safety.
type (
	// Component represents one of the scored productivity dimensions.
	Component string

	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// StoreBackend represents the database backend for run and document storage.
	StoreBackend string

	// IndexerKind represents the text indexing strategy.
	IndexerKind string

	// DocumentSource represents the platform a document came from.
	DocumentSource string

	// DocumentKind represents the record type a document was built from.
	DocumentKind string
)

// Scored components.
const (
	GithubComponent        Component = "github"
	JiraComponent          Component = "jira"
	CollaborationComponent Component = "collaboration"
	QualityComponent       Component = "quality"
)

// Breakdown keys used in the scoring logic.
const (
	BreakdownPRs           BreakdownKey = "prs"            // created + merged PR contribution
	BreakdownCommits       BreakdownKey = "commits"        // commit count contribution
	BreakdownLines         BreakdownKey = "lines"          // capped lines-changed contribution
	BreakdownReviews       BreakdownKey = "reviews"        // reviews + review comments contribution
	BreakdownIssues        BreakdownKey = "issues"         // issue activity contribution
	BreakdownCompleted     BreakdownKey = "completed"      // completed ticket contribution
	BreakdownStoryPoints   BreakdownKey = "story_points"   // story point contribution
	BreakdownCreated       BreakdownKey = "created"        // created ticket contribution
	BreakdownComments      BreakdownKey = "comments"       // ticket comment contribution
	BreakdownVelocityBonus BreakdownKey = "velocity_bonus" // completion ratio bonus
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// All indexer strategies supported.
const (
	TFIDFIndexer IndexerKind = "tfidf" // default
	NoneIndexer  IndexerKind = "none"
)

// Document sources.
const (
	GithubSource DocumentSource = "github"
	JiraSource   DocumentSource = "jira"
)

// Document kinds.
const (
	PullRequestDoc DocumentKind = "pull_request"
	CommitDoc      DocumentKind = "commit"
	IssueDoc       DocumentKind = "issue"
	TicketDoc      DocumentKind = "ticket"
	CommentDoc     DocumentKind = "comment"
)

// AllComponents lists the scored components in report order.
var AllComponents = []Component{GithubComponent, JiraComponent, CollaborationComponent, QualityComponent}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidIndexerKinds lists all valid indexer strategies.
var ValidIndexerKinds = map[IndexerKind]struct{}{
	TFIDFIndexer: {},
	NoneIndexer:  {},
}

// GetComponentWeights returns the weight of each component in the total score.
// Weights sum to 1.0.
func GetComponentWeights() map[Component]float64 {
	return map[Component]float64{
		GithubComponent:        0.35,
		JiraComponent:          0.30,
		CollaborationComponent: 0.20,
		QualityComponent:       0.15,
	}
}
