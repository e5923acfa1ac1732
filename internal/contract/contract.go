// Package contract provides interfaces and shared utilities for the devpulse CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/devpulse/schema"
)

// GithubClient fetches one window of code-hosting activity.
// Implementations parse raw payloads into typed records at the boundary;
// records that fail validation are skipped and counted, never propagated.
type GithubClient interface {
	FetchData(ctx context.Context, start, end time.Time) (*schema.GithubData, error)
}

// JiraClient fetches one window of issue-tracking activity.
type JiraClient interface {
	FetchData(ctx context.Context, start, end time.Time) (*schema.JiraData, error)
}

// Notifier posts a message to the team messaging channel.
// A failed post is reported by the caller but never fails an analysis run.
type Notifier interface {
	PostMessage(ctx context.Context, text string) error
}

// Indexer is the text indexing strategy used for quality scoring and search.
// Implementations are selected by configuration, not capability probing.
type Indexer interface {
	// BuildIndex vectorizes the documents. An error leaves the indexer unusable
	// for search; callers degrade to neutral quality scoring instead of aborting.
	BuildIndex(docs []schema.Document) error

	// Search returns documents similar to the query, best first.
	Search(query string, topK int) ([]schema.SearchResult, error)

	// FindSimilarWork partitions matches into the author's own documents and
	// related documents by others.
	FindSimilarWork(query, author string, topK int) (*schema.SimilarWork, error)

	// DocumentsByAuthor returns the indexed documents authored by one engineer.
	DocumentsByAuthor(author string) []schema.Document

	// Stats summarizes the indexed corpus.
	Stats() *schema.DocumentStats
}

// StoreManager defines the interface for accessing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
	GetDocStore() DocStore
}

// RunStore persists analysis runs and per-engineer scores.
// This allows mocking the store for testing.
type RunStore interface {
	BeginRun(start time.Time, params map[string]any) (int64, error)
	EndRun(runID int64, end time.Time, engineerCount int, periodStart, periodEnd time.Time) error
	RecordScores(runID int64, scores []schema.EnrichedScore) error
	GetAllRuns() ([]schema.RunRecord, error)
	GetAllScores() ([]schema.ScoreRecord, error)
	GetStatus() (*schema.StoreStatus, error)
	ClearAll() error
	Close() error
}

// DocStore persists indexed documents so search works without a fresh fetch.
type DocStore interface {
	SaveDocuments(docs []schema.Document) error
	LoadDocuments() ([]schema.Document, error)
	Stats() (*schema.DocumentStats, error)
	ClearAll() error
	Close() error
}
