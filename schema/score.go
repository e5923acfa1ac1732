package schema

// ProductivityScore is the scored view of one engineer for one run.
// Component scores are each clamped to [0,100]; TotalScore is the weighted
// combination, rescaled across the run population by the combiner, after
// which the struct is read-only.
type ProductivityScore struct {
	Engineer           string                   `json:"engineer"`
	Github             GithubStats              `json:"github_stats"`
	Jira               JiraStats                `json:"jira_stats"`
	GithubScore        float64                  `json:"github_score"`
	JiraScore          float64                  `json:"jira_score"`
	CollaborationScore float64                  `json:"collaboration_score"`
	QualityScore       float64                  `json:"quality_score"`
	VelocityScore      float64                  `json:"velocity_score"`
	TotalScore         float64                  `json:"total_score"`
	PercentileRank     float64                  `json:"percentile_rank"`
	Breakdown          map[BreakdownKey]float64 `json:"breakdown,omitempty"` // raw signal contributions for tuning
}

// ComponentScore returns the named component score.
func (s *ProductivityScore) ComponentScore(c Component) float64 {
	switch c {
	case GithubComponent:
		return s.GithubScore
	case JiraComponent:
		return s.JiraScore
	case CollaborationComponent:
		return s.CollaborationScore
	default:
		return s.QualityScore
	}
}

// EnrichedScore adds presentation data to a ProductivityScore.
type EnrichedScore struct {
	Rank int    `json:"rank"`
	Band string `json:"band"`
	ProductivityScore
}

// Performance band labels.
const (
	HighBand   = "High"
	MediumBand = "Medium"
	LowBand    = "Low"
)

// GetPerformanceBand returns a plain text label for an engineer's total score.
// This is the core logic used for CSV, JSON and table printing.
func GetPerformanceBand(score float64) string {
	switch {
	case score >= 70:
		return HighBand
	case score >= 40:
		return MediumBand
	default:
		return LowBand
	}
}

// EnrichScores adds rank and band to an ordered list of scores.
func EnrichScores(scores []*ProductivityScore) []EnrichedScore {
	output := make([]EnrichedScore, len(scores))
	for i, s := range scores {
		output[i] = EnrichedScore{
			Rank:              i + 1,
			Band:              GetPerformanceBand(s.TotalScore),
			ProductivityScore: *s,
		}
	}
	return output
}
