// Package core has the analysis pipeline for engineer productivity scoring.
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/devpulse/core/index"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/schema"
)

// RunAnalysis executes the full scoring pipeline for the window in cfg:
// fetch both platforms, group records by engineer, aggregate statistics,
// score, rank, and summarize. The returned result is plain data ready for
// any output surface.
//
// A fetch failure aborts the run. An index build failure does not: the run
// continues without quality signals and every engineer gets the neutral
// quality default.
func RunAnalysis(ctx context.Context, cfg *contract.Config, github contract.GithubClient, jira contract.JiraClient, idx contract.Indexer, mgr contract.StoreManager) (*schema.AnalysisResult, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}

	var stages []schema.StageStat
	stageDone := func(name string, begun time.Time, items int) {
		stages = append(stages, schema.StageStat{
			Name:       name,
			Items:      items,
			DurationMs: float64(time.Since(begun).Microseconds()) / 1000.0,
		})
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	var runStore contract.RunStore
	if mgr != nil && cfg.StoreRuns {
		runStore = mgr.GetRunStore()
	}
	if runStore != nil {
		params := map[string]any{
			"lookback_days": cfg.LookbackDays,
			"github_org":    cfg.GithubOrg,
			"jira_project":  cfg.JiraProject,
			"workers":       cfg.Workers,
			"indexer":       string(cfg.Indexer),
		}
		var err error
		runID, err = runStore.BeginRun(start, params)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	// --- 1. Fetch Phase ---
	fetchStart := time.Now()
	var (
		githubData *schema.GithubData
		jiraData   *schema.JiraData
		githubErr  error
		jiraErr    error
	)
	var fetchWg sync.WaitGroup
	fetchWg.Go(func() {
		githubData, githubErr = github.FetchData(ctx, cfg.StartTime, cfg.EndTime)
	})
	fetchWg.Go(func() {
		jiraData, jiraErr = jira.FetchData(ctx, cfg.StartTime, cfg.EndTime)
	})
	fetchWg.Wait()
	if githubErr != nil {
		return nil, fmt.Errorf("github fetch failed: %w", githubErr)
	}
	if jiraErr != nil {
		return nil, fmt.Errorf("jira fetch failed: %w", jiraErr)
	}
	data := &schema.PlatformData{Github: githubData, Jira: jiraData}
	stageDone("fetch", fetchStart, githubData.Count()+jiraData.Count())

	// --- 2. Extraction Phase ---
	extractStart := time.Now()
	activities := extractActivity(data)
	stageDone("extract", extractStart, len(activities))

	// --- 3. Indexing Phase ---
	indexStart := time.Now()
	docs := index.BuildDocuments(data)
	if idx != nil && len(docs) > 0 {
		if err := idx.BuildIndex(docs); err != nil {
			contract.LogWarn("Index build failed, scoring without quality signals", err)
			idx = nil
		}
	}
	stageDone("index", indexStart, len(docs))

	// --- 4. Scoring Phase ---
	scoreStart := time.Now()
	scores := scoreActivities(cfg, activities, data, idx)
	stageDone("score", scoreStart, len(scores))

	// --- 5. Combine Phase ---
	combineStart := time.Now()
	ranked := schema.EnrichScores(combineScores(scores))
	stageDone("combine", combineStart, len(ranked))

	// --- 6. Summary Phase ---
	summaryStart := time.Now()
	summary := buildTeamSummary(ranked)
	trends := buildTrends(ranked)
	result := &schema.AnalysisResult{
		GeneratedAt:      start,
		Period:           cfg.Period(),
		PeriodStart:      cfg.StartTime,
		PeriodEnd:        cfg.EndTime,
		Scores:           ranked,
		Summary:          summary,
		Details:          buildDetailedSummary(ranked),
		Trends:           trends,
		Insights:         buildInsights(ranked, trends),
		Recommendations:  buildRecommendations(summary, ranked),
		Fetch:            schema.CountFetch(data),
		DocumentsIndexed: len(docs),
	}
	stageDone("summary", summaryStart, 1)

	// --- 7. Persistence Phase (if configured) ---
	if runStore != nil && runID > 0 {
		persistStart := time.Now()
		if err := runStore.RecordScores(runID, ranked); err != nil {
			contract.LogWarn("Failed to persist scores", err)
		}
		if err := runStore.EndRun(runID, time.Now(), len(ranked), cfg.StartTime, cfg.EndTime); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
		if docStore := mgr.GetDocStore(); docStore != nil && len(docs) > 0 {
			if err := docStore.SaveDocuments(docs); err != nil {
				contract.LogWarn("Failed to persist documents", err)
			}
		}
		stageDone("persist", persistStart, len(ranked)+len(docs))
	}

	result.Stages = stages
	return result, nil
}

// scoreActivities runs the component scorers across a worker pool. Order
// does not matter here, the combine step sorts.
func scoreActivities(cfg *contract.Config, activities []*schema.EngineerActivity, data *schema.PlatformData, idx contract.Indexer) []*schema.ProductivityScore {
	transitions := groupTransitions(data.Jira)

	actCh := make(chan *schema.EngineerActivity, len(activities))
	scoreCh := make(chan *schema.ProductivityScore, len(activities))
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	for range workers {
		wg.Go(func() {
			for act := range actCh {
				scoreCh <- scoreEngineer(act, transitions, idx)
			}
		})
	}

	for _, act := range activities {
		actCh <- act
	}
	close(actCh)

	wg.Wait()
	close(scoreCh)

	scores := make([]*schema.ProductivityScore, 0, len(activities))
	for s := range scoreCh {
		scores = append(scores, s)
	}
	return scores
}
