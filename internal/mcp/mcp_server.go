// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/commitscore/core"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the commitscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps core.Collaborators) *server.MCPServer {
	s := server.NewMCPServer(
		"Commit Score Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: score_file ---
	s.AddTool(mcp.NewTool("score_file",
		mcp.WithDescription("Lint one file of a Git repository and return its score out of 10."),
		mcp.WithString("path", mcp.Description("Repository-relative path of the file."), mcp.Required()),
		mcp.WithString("ref", mcp.Description("Revision to read the file at. Defaults to the working tree copy.")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
	), h.handleScoreFile)

	// --- 2. Tool: repo_score ---
	s.AddTool(mcp.NewTool("repo_score",
		mcp.WithDescription("Return the running repository score kept by the commit hook."),
	), h.handleRepoScore)

	// --- 3. Tool: score_history ---
	s.AddTool(mcp.NewTool("score_history",
		mcp.WithDescription("List the most recent hook runs recorded in the history store, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return. Defaults to 10.")),
	), h.handleScoreHistory)

	return s
}

// StartMCPServer starts the commitscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps core.Collaborators) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
