package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolBuildPrompt  = "build_prompt"
	ToolDraftMessage = "draft_message"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
}

// ToolDefinitions returns the schema of every tool the server can expose.
func ToolDefinitions() map[string]mcp.Tool {
	return map[string]mcp.Tool{
		ToolBuildPrompt: mcp.NewTool(ToolBuildPrompt,
			mcp.WithDescription("Turn a unified diff into a role-aware prompt: primary changes keep full content, related files and lock/generated files are summarized. Non-diff text is returned unchanged."),
			mcp.WithString("diff",
				mcp.Required(),
				mcp.Description("Unified diff text as produced by git diff, git show or a pull request .diff"),
			),
			mcp.WithString("rules",
				mcp.Description("Optional: YAML or JSON rule document replacing the server's rule set"),
			),
		),
		ToolDraftMessage: mcp.NewTool(ToolDraftMessage,
			mcp.WithDescription("Prepare a diff and ask the configured model to draft a commit message or pull request summary."),
			mcp.WithString("diff",
				mcp.Required(),
				mcp.Description("Unified diff text"),
			),
			mcp.WithString("mode",
				mcp.Description("What to draft (default: commit)"),
				mcp.Enum("commit", "pr"),
			),
			mcp.WithString("title",
				mcp.Description("Optional: current pull request title, used in pr mode"),
			),
		),
	}
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"diffprompt",
		cfg.Version,
		server.WithToolCapabilities(true),
	)

	toolDefinitions := ToolDefinitions()
	for name, adapter := range cfg.ToolAdapters {
		tool, ok := toolDefinitions[name]
		if !ok {
			continue
		}
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
	}
}
