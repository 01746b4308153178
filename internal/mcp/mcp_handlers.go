package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/commitscore/core"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultHistoryLimit is how many runs score_history returns without a limit.
const defaultHistoryLimit = 10

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    core.Collaborators
}

// fileScoreResult is the score_file payload.
type fileScoreResult struct {
	schema.FileScore
	Ref    string `json:"ref,omitempty"`
	Output string `json:"output,omitempty"`
}

// repoScoreResult is the repo_score payload.
type repoScoreResult struct {
	Score      float64 `json:"score"`
	LedgerFile string  `json:"ledger_file"`
}

func (h *toolHandler) handleScoreFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	ref := request.GetString("ref", "")

	resolver := core.NewResolver(cfg, h.deps.Git, h.deps.Linter)
	if h.deps.Store != nil {
		if cache := h.deps.Store.GetCacheStore(); cache != nil {
			resolver.WithCache(cache)
		}
	}

	report, err := resolver.Resolve(ctx, path, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(fileScoreResult{FileScore: report.FileScore, Ref: ref, Output: string(report.Output)})
}

func (h *toolHandler) handleRepoScore(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.deps.Ledger == nil {
		return mcp.NewToolResultError("repository score is not tracked"), nil
	}
	current, err := h.deps.Ledger.Load()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read repository score: %v", err)), nil
	}
	return jsonResult(repoScoreResult{Score: current.Value, LedgerFile: h.baseCfg.LedgerFile})
}

func (h *toolHandler) handleScoreHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultHistoryLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be at least 1"), nil
	}
	if h.deps.Store == nil || h.deps.Store.GetHistoryStore() == nil {
		return mcp.NewToolResultError("history store is disabled. Set store-backend to record runs"), nil
	}

	runs, err := h.deps.Store.GetHistoryStore().GetRecentRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read run history: %v", err)), nil
	}
	if runs == nil {
		runs = []schema.RunRecord{}
	}
	return jsonResult(runs)
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
