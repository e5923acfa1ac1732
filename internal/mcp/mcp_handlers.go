package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/core/index"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/githubclient"
	"github.com/huangsam/devpulse/internal/iostore"
	"github.com/huangsam/devpulse/internal/jiraclient"
	"github.com/huangsam/devpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// runPipeline executes one full analysis with the request overrides applied.
func (h *toolHandler) runPipeline(ctx context.Context, request mcp.CallToolRequest) (*schema.AnalysisResult, error) {
	cfg := h.baseCfg.Clone()
	if n := request.GetInt("lookback_days", 0); n > 0 {
		if n > contract.MaxLookbackDays {
			return nil, fmt.Errorf("lookback_days must be at most %d", contract.MaxLookbackDays)
		}
		cfg.LookbackDays = n
		cfg.EndTime = time.Now().UTC()
		cfg.StartTime = cfg.EndTime.AddDate(0, 0, -n)
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if org := request.GetString("github_org", ""); org != "" {
		cfg.GithubOrg = org
	}
	if project := request.GetString("jira_project", ""); project != "" {
		cfg.JiraProject = project
	}

	github := githubclient.NewClient(cfg)
	jira := jiraclient.NewClient(cfg)
	idx := index.NewIndexer(cfg.Indexer)

	return core.RunAnalysis(core.WithSuppressHeader(ctx), cfg, github, jira, idx, h.mgr)
}

// loadIndex rebuilds the search index from stored documents.
func (h *toolHandler) loadIndex() (contract.Indexer, error) {
	docStore := h.mgr.GetDocStore()
	if docStore == nil {
		return nil, errors.New("document storage is disabled, enable a store backend first")
	}
	docs, err := docStore.LoadDocuments()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, errors.New("no stored documents found, run an analysis first")
	}
	idx := index.NewIndexer(schema.TFIDFIndexer)
	if err := idx.BuildIndex(docs); err != nil {
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}
	return idx, nil
}

func (h *toolHandler) handleRunAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.runPipeline(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleTeamSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.runPipeline(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	// Trim the response to team-level data
	view := struct {
		Period          string                 `json:"period"`
		Summary         schema.TeamSummary     `json:"summary"`
		Details         schema.DetailedSummary `json:"details"`
		Trends          schema.TrendSet        `json:"trends"`
		Insights        []string               `json:"insights"`
		Recommendations []string               `json:"recommendations"`
	}{result.Period, result.Summary, result.Details, result.Trends, result.Insights, result.Recommendations}

	jsonData, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSearchWork(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	topK := request.GetInt("top_k", 5)

	idx, err := h.loadIndex()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search unavailable: %v", err)), nil
	}

	results, err := idx.Search(query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFindSimilarWork(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	author := request.GetString("author", "")
	if author == "" {
		return mcp.NewToolResultError("author is required"), nil
	}
	topK := request.GetInt("top_k", 5)

	idx, err := h.loadIndex()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search unavailable: %v", err)), nil
	}

	similar, err := idx.FindSimilarWork(query, author, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(similar, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleStoreStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := iostore.CollectStatus(h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status collection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
