package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/diffprompt/internal/llm"
	"github.com/roivaz/diffprompt/internal/mcp/tools/types"
	"github.com/roivaz/diffprompt/internal/pipeline"
	"github.com/roivaz/diffprompt/internal/prompt"
)

type Drafter interface {
	Draft(ctx context.Context, mode prompt.Mode, text, title string) (llm.Draft, error)
}

type DraftMessageHandler struct {
	Pipeline pipeline.Config
	Drafter  Drafter
}

func (h *DraftMessageHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	text, _ := args["diff"].(string)
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("diff parameter is required"), nil
	}
	mode := prompt.ModeCommit
	if raw, ok := args["mode"].(string); ok && raw != "" {
		parsed, err := prompt.ParseMode(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mode = parsed
	}
	title, _ := args["title"].(string)

	out, err := pipeline.Prepare(text, h.Pipeline)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	draft, err := h.Drafter.Draft(ctx, mode, out.Prompt, title)
	if err != nil {
		return nil, err
	}

	result := types.DraftResult{
		Mode:             string(mode),
		Structured:       out.Structured,
		Text:             draft.Text,
		PromptTokens:     draft.PromptTokens,
		CompletionTokens: draft.CompletionTokens,
	}
	return mcp.NewToolResultText(string(mustMarshal(result))), nil
}
