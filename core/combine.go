package core

import (
	"sort"

	"github.com/huangsam/devpulse/schema"
)

// combineScores computes weighted totals, rescales them against the run's
// own population, attaches percentile ranks, and returns the list ranked
// best first. Equal totals rank alphabetically by engineer.
//
// Totals are relative to this run only. Min-max rescaling stretches the
// population across [0,100] whenever totals vary at all, so a 100 means
// "best this run", not "perfect".
func combineScores(scores []*schema.ProductivityScore) []*schema.ProductivityScore {
	if len(scores) == 0 {
		return scores
	}

	weights := schema.GetComponentWeights()
	for _, s := range scores {
		s.TotalScore = weights[schema.GithubComponent]*s.GithubScore +
			weights[schema.JiraComponent]*s.JiraScore +
			weights[schema.CollaborationComponent]*s.CollaborationScore +
			weights[schema.QualityComponent]*s.QualityScore
	}

	normalizeTotals(scores)
	assignPercentiles(scores)

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].Engineer < scores[j].Engineer
	})
	return scores
}

// normalizeTotals min-max rescales totals into [0,100] when they vary.
// A run where everyone lands on the same total keeps its raw values.
func normalizeTotals(scores []*schema.ProductivityScore) {
	lo, hi := scores[0].TotalScore, scores[0].TotalScore
	for _, s := range scores[1:] {
		if s.TotalScore < lo {
			lo = s.TotalScore
		}
		if s.TotalScore > hi {
			hi = s.TotalScore
		}
	}
	if hi == lo {
		return
	}
	for _, s := range scores {
		s.TotalScore = (s.TotalScore - lo) / (hi - lo) * 100
	}
}

// assignPercentiles gives each engineer a population-relative rank in
// (0,100]. Equal totals share the percentile of their first occurrence
// in the descending order.
func assignPercentiles(scores []*schema.ProductivityScore) {
	sorted := make([]float64, len(scores))
	for i, s := range scores {
		sorted[i] = s.TotalScore
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	firstIndex := map[float64]int{}
	for i, total := range sorted {
		if _, ok := firstIndex[total]; !ok {
			firstIndex[total] = i
		}
	}

	n := float64(len(sorted))
	for _, s := range scores {
		s.PercentileRank = (n - float64(firstIndex[s.TotalScore])) / n * 100
	}
}
