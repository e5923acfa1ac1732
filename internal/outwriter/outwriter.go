// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// OutWriter produces command output for analysis results.
type OutWriter struct{}

// NewOutWriter returns an OutWriter instance.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteLeaderboard outputs the ranked engineer scores.
func (o *OutWriter) WriteLeaderboard(scores []schema.EnrichedScore, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreResults(scores, cfg, duration)
}

// WriteReport outputs the full team report.
func (o *OutWriter) WriteReport(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(result, cfg, duration)
}

// WriteSearch outputs ranked search hits for a query.
func (o *OutWriter) WriteSearch(results []schema.SearchResult, query string, cfg *contract.Config) error {
	return WriteSearchResults(results, query, cfg)
}

// WriteSimilar outputs an engineer's own and related work for a query.
func (o *OutWriter) WriteSimilar(work *schema.SimilarWork, query, author string, cfg *contract.Config) error {
	return WriteSimilarWork(work, query, author, cfg)
}

// WriteStatus outputs the persistence layer status.
func (o *OutWriter) WriteStatus(status *schema.StoreStatus, cfg *contract.Config) error {
	return WriteStoreStatus(status, cfg)
}
