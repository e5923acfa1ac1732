// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Devpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Devpulse Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_analysis ---
	s.AddTool(mcp.NewTool("run_analysis",
		mcp.WithDescription("Run a productivity analysis across GitHub and Jira activity and return ranked engineer scores."),
		mcp.WithNumber("lookback_days", mcp.Description("Number of days of activity to analyze. Defaults to the configured lookback.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked engineers returned.")),
		mcp.WithString("github_org", mcp.Description("GitHub organization to analyze (defaults to the configured org).")),
		mcp.WithString("jira_project", mcp.Description("Jira project key to analyze (defaults to the configured project).")),
	), h.handleRunAnalysis)

	// --- 2. Tool: team_summary ---
	s.AddTool(mcp.NewTool("team_summary",
		mcp.WithDescription("Summarize team health for the analysis window: averages, distribution, trends and recommendations."),
		mcp.WithNumber("lookback_days", mcp.Description("Number of days of activity to analyze.")),
	), h.handleTeamSummary)

	// --- 3. Tool: search_work ---
	s.AddTool(mcp.NewTool("search_work",
		mcp.WithDescription("Search stored work documents (pull requests, commits, issues, tickets, comments) by text."),
		mcp.WithString("query", mcp.Description("Free text to search for."), mcp.Required()),
		mcp.WithNumber("top_k", mcp.Description("Number of results to return. Defaults to 5.")),
	), h.handleSearchWork)

	// --- 4. Tool: find_similar_work ---
	s.AddTool(mcp.NewTool("find_similar_work",
		mcp.WithDescription("Find work similar to a description, split into the author's own items and related items by others."),
		mcp.WithString("query", mcp.Description("Description of the work to match."), mcp.Required()),
		mcp.WithString("author", mcp.Description("Engineer whose own work should be separated out."), mcp.Required()),
		mcp.WithNumber("top_k", mcp.Description("Number of results per group. Defaults to 5.")),
	), h.handleFindSimilarWork)

	// --- 5. Tool: store_status ---
	s.AddTool(mcp.NewTool("store_status",
		mcp.WithDescription("Report persistence backend status: stored runs, scores and documents."),
	), h.handleStoreStatus)

	return s
}

// StartMCPServer starts the Devpulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
