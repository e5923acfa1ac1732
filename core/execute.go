package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huangsam/devpulse/core/index"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/githubclient"
	"github.com/huangsam/devpulse/internal/jiraclient"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/internal/slackclient"
	"github.com/huangsam/devpulse/schema"
)

// ExecuteAnalyze runs the full pipeline and renders the ranked leaderboard.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	github := githubclient.NewClient(cfg)
	jira := jiraclient.NewClient(cfg)
	idx := index.NewIndexer(cfg.Indexer)

	result, err := RunAnalysis(ctx, cfg, github, jira, idx, mgr)
	if err != nil {
		return err
	}
	logStageStats(cfg, result)

	writer := outwriter.NewOutWriter()
	if err := writer.WriteLeaderboard(result.TopScores(cfg.ResultLimit), cfg, time.Since(start)); err != nil {
		return err
	}

	return notifyDigest(ctx, cfg, result)
}

// ExecuteReport runs the full pipeline and renders the team report with
// summary, distribution, trends, insights and recommendations.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	github := githubclient.NewClient(cfg)
	jira := jiraclient.NewClient(cfg)
	idx := index.NewIndexer(cfg.Indexer)

	result, err := RunAnalysis(ctx, cfg, github, jira, idx, mgr)
	if err != nil {
		return err
	}
	logStageStats(cfg, result)

	writer := outwriter.NewOutWriter()
	if err := writer.WriteReport(result, cfg, time.Since(start)); err != nil {
		return err
	}

	return notifyDigest(ctx, cfg, result)
}

// ExecuteSearch answers a similarity query from persisted documents. No
// platform fetch happens here; the corpus is whatever previous runs stored.
func ExecuteSearch(_ context.Context, cfg *contract.Config, mgr contract.StoreManager, query, author string, topK int) error {
	var docStore contract.DocStore
	if mgr != nil {
		docStore = mgr.GetDocStore()
	}
	if docStore == nil {
		return errors.New("document storage is disabled, enable a store backend first")
	}

	docs, err := docStore.LoadDocuments()
	if err != nil {
		return fmt.Errorf("failed to load stored documents: %w", err)
	}
	if len(docs) == 0 {
		return errors.New("no stored documents found, run an analysis first")
	}

	idx := index.NewIndexer(schema.TFIDFIndexer)
	if err := idx.BuildIndex(docs); err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}

	outwriter.LogSearchHeader(query, len(docs))

	writer := outwriter.NewOutWriter()
	if author != "" {
		work, err := idx.FindSimilarWork(query, author, topK)
		if err != nil {
			return err
		}
		return writer.WriteSimilar(work, query, author, cfg)
	}

	results, err := idx.Search(query, topK)
	if err != nil {
		return err
	}
	return writer.WriteSearch(results, query, cfg)
}

// ExecuteWatch runs the pipeline on a daily schedule and posts the digest
// to Slack after every run. It blocks until SIGINT or SIGTERM.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.SlackToken == "" || contract.IsPlaceholder(cfg.SlackToken) {
		return errors.New("watch mode requires slack-bot-token for digest delivery")
	}
	if cfg.SlackChannel == "" {
		return errors.New("watch mode requires slack-channel for digest delivery")
	}

	outwriter.LogWatchHeader(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	for {
		now := time.Now().In(cfg.Location)
		next := nextReportTime(now, cfg.ReportHour, cfg.ReportMinute)
		fmt.Printf("Next digest scheduled for %s\n", next.Format(time.RFC1123))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-quit:
			timer.Stop()
			fmt.Println("Watch loop stopped.")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := runScheduledDigest(ctx, cfg, mgr); err != nil {
			contract.LogWarn("Scheduled run failed", err)
		}
	}
}

// runScheduledDigest runs one analysis over a fresh window ending now and
// posts the digest. Watch iterations never reuse the window computed at
// startup; each day covers its own lookback span.
func runScheduledDigest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	end := time.Now().UTC()
	runCfg := cfg.CloneWithTimeWindow(end.AddDate(0, 0, -cfg.LookbackDays), end)

	github := githubclient.NewClient(runCfg)
	jira := jiraclient.NewClient(runCfg)
	idx := index.NewIndexer(runCfg.Indexer)

	result, err := RunAnalysis(ctx, runCfg, github, jira, idx, mgr)
	if err != nil {
		return err
	}

	notifier := slackclient.NewClient(runCfg)
	if err := notifier.PostMessage(ctx, BuildSlackDigest(result)); err != nil {
		return fmt.Errorf("failed to post digest: %w", err)
	}
	fmt.Printf("Digest posted to %s\n", runCfg.SlackChannel)
	return nil
}

// nextReportTime returns the next occurrence of the configured report time
// strictly after now, in now's location.
func nextReportTime(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// notifyDigest posts the digest to Slack when delivery was requested.
func notifyDigest(ctx context.Context, cfg *contract.Config, result *schema.AnalysisResult) error {
	if !cfg.Notify {
		return nil
	}
	notifier := slackclient.NewClient(cfg)
	if err := notifier.PostMessage(ctx, BuildSlackDigest(result)); err != nil {
		return fmt.Errorf("failed to post digest: %w", err)
	}
	fmt.Printf("Digest posted to %s\n", cfg.SlackChannel)
	return nil
}

// logStageStats prints per-stage instrumentation to stderr in debug mode.
func logStageStats(cfg *contract.Config, result *schema.AnalysisResult) {
	if !cfg.Debug {
		return
	}
	for _, stage := range result.Stages {
		_, _ = fmt.Fprintf(os.Stderr, "stage %-8s items=%-6d duration=%.1fms\n", stage.Name, stage.Items, stage.DurationMs)
	}
}
