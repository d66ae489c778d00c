package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/diffprompt/internal/mcp/tools"
	"github.com/roivaz/diffprompt/internal/pipeline"
)

type Config struct {
	Version      string
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
}

// DefaultConfig wires both tools. Without a drafter only build_prompt is
// exposed.
func DefaultConfig(prep pipeline.Config, drafter tools.Drafter) Config {
	adapters := map[string]ToolAdapter{
		ToolBuildPrompt: &tools.BuildPromptHandler{Pipeline: prep},
	}
	if drafter != nil {
		adapters[ToolDraftMessage] = &tools.DraftMessageHandler{Pipeline: prep, Drafter: drafter}
	}
	return Config{
		Version:      "1.0.0",
		ToolAdapters: adapters,
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath("/mcp/jsonrpc"),
			server.WithStateLess(true),
		},
	}
}
