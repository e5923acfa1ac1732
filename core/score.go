package core

import (
	"math"
	"strings"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// compressScore squashes an unbounded raw activity total into [0,100].
// Logarithmic compression keeps one prolific outlier from dominating
// linearly while mid-range scores stay spread apart.
func compressScore(raw float64) float64 {
	return math.Min(100, math.Log10(math.Max(1, raw))*50)
}

// scoreGithub converts code-hosting counters into a bounded score.
// Each signal group lands in the breakdown before compression so report
// output can show where a score came from.
func scoreGithub(stats schema.GithubStats, breakdown map[schema.BreakdownKey]float64) float64 {
	// Per-signal weights and scale factors. Merged work outweighs opened
	// work, closing issues outweighs filing them.
	const (
		wPRCreated   = 0.20
		wPRMerged    = 0.25
		wCommits     = 0.15
		wLines       = 0.10
		wReviewed    = 0.15
		wReviewNote  = 0.10
		wIssueWork   = 0.05
		wIssueOpened = 0.5
		wIssueClosed = 1.0

		prScale     = 10.0
		commitScale = 2.0
		linesPerK   = 1000.0
		linesCap    = 10.0 // line churn contribution saturates here
		linesScale  = 10.0
		reviewScale = 5.0
		issueScale  = 10.0
	)

	prScore := (float64(stats.PRsCreated)*wPRCreated + float64(stats.PRsMerged)*wPRMerged) * prScale
	commitScore := float64(stats.CommitsMade) * wCommits * commitScale
	linesScore := math.Min(float64(stats.LinesAdded+stats.LinesDeleted)/linesPerK*wLines, linesCap) * linesScale
	reviewScore := (float64(stats.PRsReviewed)*wReviewed + float64(stats.ReviewComments)*wReviewNote) * reviewScale
	issueScore := (float64(stats.IssuesCreated)*wIssueOpened + float64(stats.IssuesClosed)*wIssueClosed) * wIssueWork * issueScale

	breakdown[schema.BreakdownPRs] = prScore
	breakdown[schema.BreakdownCommits] = commitScore
	breakdown[schema.BreakdownLines] = linesScore
	breakdown[schema.BreakdownReviews] = reviewScore
	breakdown[schema.BreakdownIssues] = issueScore

	return compressScore(prScore + commitScore + linesScore + reviewScore + issueScore)
}

// scoreJira converts delivery counters into a bounded score. Completions
// dominate, with story points close behind.
func scoreJira(stats schema.JiraStats, breakdown map[schema.BreakdownKey]float64) float64 {
	const (
		wCompleted   = 0.40
		wStoryPoints = 0.25
		wCreated     = 0.10
		wComments    = 0.10
		wVelocity    = 0.15

		completedScale = 15.0
		pointsScale    = 5.0
		createdScale   = 8.0
		commentScale   = 3.0
		velocityScale  = 10.0
		maxRatio       = 2.0 // finish-vs-start ratio beyond this saturates
	)

	completedScore := float64(stats.TicketsCompleted) * wCompleted * completedScale
	pointsScore := stats.StoryPointsCompleted * wStoryPoints * pointsScale
	createdScore := float64(stats.TicketsCreated) * wCreated * createdScale
	commentScore := float64(stats.CommentsMade) * wComments * commentScale

	// Finishing more than you touch earns a capped bonus.
	var velocityBonus float64
	if stats.TicketsCreated > 0 {
		ratio := float64(stats.TicketsCompleted) / float64(stats.TicketsCreated)
		velocityBonus = math.Min(ratio, maxRatio) * wVelocity * velocityScale
	}

	breakdown[schema.BreakdownCompleted] = completedScore
	breakdown[schema.BreakdownStoryPoints] = pointsScore
	breakdown[schema.BreakdownCreated] = createdScore
	breakdown[schema.BreakdownComments] = commentScore
	breakdown[schema.BreakdownVelocityBonus] = velocityBonus

	return compressScore(completedScore + pointsScore + createdScore + commentScore + velocityBonus)
}

// scoreCollaboration rewards engagement with other people's work. Review
// and comment bodies long enough to carry substance weigh extra, so depth
// beats drive-by approvals.
func scoreCollaboration(github schema.GithubStats, jira schema.JiraStats) float64 {
	const (
		wReview      = 3.0
		wSubstantial = 2.0
		wComment     = 2.0
		wMeaningful  = 3.0
		scale        = 2.0
	)

	raw := float64(github.ReviewsGiven)*wReview +
		float64(github.SubstantialReviews)*wSubstantial +
		float64(jira.CommentsMade)*wComment +
		float64(jira.MeaningfulComments)*wMeaningful
	return math.Min(100, raw*scale)
}

// scoreQuality estimates documentation discipline from the engineer's
// indexed text. Only pieces long enough to carry real explanation count,
// and each item's contribution is capped so one enormous document cannot
// carry the score alone.
//
// Without an indexer every engineer gets a neutral 50. With an indexer
// but no qualifying text the engineer gets 25, a deliberate nudge toward
// writing things down.
func scoreQuality(engineer string, idx contract.Indexer) float64 {
	const (
		neutralScore = 50.0
		penaltyScore = 25.0

		prMinChars     = 100
		prDivisor      = 500.0
		prCap          = 2.0
		commitMinChars = 50
		commitDivisor  = 200.0
		commitCap      = 1.5
		ticketMinChars = 150
		ticketDivisor  = 300.0
		ticketCap      = 2.0

		indicatorScale = 30.0
	)

	if idx == nil {
		return neutralScore
	}

	var indicators []float64
	for _, doc := range idx.DocumentsByAuthor(engineer) {
		length := len(doc.Content)
		trimmed := len(strings.TrimSpace(doc.Content))
		switch doc.Kind {
		case schema.PullRequestDoc:
			if trimmed > prMinChars {
				indicators = append(indicators, math.Min(float64(length)/prDivisor, prCap))
			}
		case schema.CommitDoc:
			if trimmed > commitMinChars {
				indicators = append(indicators, math.Min(float64(length)/commitDivisor, commitCap))
			}
		case schema.TicketDoc:
			if trimmed > ticketMinChars {
				indicators = append(indicators, math.Min(float64(length)/ticketDivisor, ticketCap))
			}
		}
	}
	if len(indicators) == 0 {
		return penaltyScore
	}

	var sum float64
	for _, v := range indicators {
		sum += v
	}
	return math.Min(100, sum/float64(len(indicators))*indicatorScale)
}

// scoreVelocity measures finish rates rather than raw volume. It rides
// along with the component scores for reporting but stays out of the
// weighted total.
func scoreVelocity(github schema.GithubStats, jira schema.JiraStats) float64 {
	const (
		rateScale     = 50.0
		pointsPerUnit = 10.0
		maxPointsRate = 5.0
		pointsScale   = 10.0
	)

	var githubRate float64
	if github.PRsCreated > 0 {
		githubRate = float64(github.PRsMerged) / float64(github.PRsCreated) * rateScale
	}
	var jiraRate float64
	if jira.TicketsCreated > 0 {
		jiraRate = float64(jira.TicketsCompleted) / float64(jira.TicketsCreated) * rateScale
	}
	pointsRate := math.Min(jira.StoryPointsCompleted/pointsPerUnit, maxPointsRate) * pointsScale

	return math.Min(100, githubRate+jiraRate+pointsRate)
}

// scoreEngineer runs every component scorer for one engineer and
// assembles the pre-normalization score record.
func scoreEngineer(act *schema.EngineerActivity, transitions map[string][]schema.Transition, idx contract.Indexer) *schema.ProductivityScore {
	githubStats := computeGithubStats(act)
	jiraStats := computeJiraStats(act, transitions)

	breakdown := make(map[schema.BreakdownKey]float64)
	score := &schema.ProductivityScore{
		Engineer:  act.Name,
		Github:    githubStats,
		Jira:      jiraStats,
		Breakdown: breakdown,
	}
	score.GithubScore = scoreGithub(githubStats, breakdown)
	score.JiraScore = scoreJira(jiraStats, breakdown)
	score.CollaborationScore = scoreCollaboration(githubStats, jiraStats)
	score.QualityScore = scoreQuality(act.Name, idx)
	score.VelocityScore = scoreVelocity(githubStats, jiraStats)
	return score
}
