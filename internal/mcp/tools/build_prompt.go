package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/diffprompt/internal/classify"
	"github.com/roivaz/diffprompt/internal/mcp/tools/types"
	"github.com/roivaz/diffprompt/internal/pipeline"
	"github.com/roivaz/diffprompt/internal/rules"
)

type BuildPromptHandler struct {
	Pipeline pipeline.Config
}

func (h *BuildPromptHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	text, _ := args["diff"].(string)
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("diff parameter is required"), nil
	}
	cfg, err := withRules(h.Pipeline, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := pipeline.Prepare(text, cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := types.PromptResult{
		Structured:   out.Structured,
		Prompt:       out.Prompt,
		PromptTokens: out.PromptTokens,
		Primary:      []types.FileSummary{},
		Related:      []types.RelatedGroup{},
		Noise:        []types.FileSummary{},
	}
	if out.Result != nil {
		result.Primary = summarize(out.Result.Primary)
		result.Noise = summarize(out.Result.Noise)
		for _, label := range out.Result.RelatedLabels() {
			result.Related = append(result.Related, types.RelatedGroup{
				Label: label,
				Files: summarize(out.Result.RelatedFiles(label)),
			})
		}
	}
	return mcp.NewToolResultText(string(mustMarshal(result))), nil
}

// withRules swaps in a rule document passed as the "rules" argument.
func withRules(base pipeline.Config, args map[string]any) (pipeline.Config, error) {
	raw, _ := args["rules"].(string)
	if strings.TrimSpace(raw) == "" {
		return base, nil
	}
	parsed, err := rules.Parse([]byte(raw))
	if err != nil {
		return base, err
	}
	base.Rules = parsed
	return base, nil
}

func summarize(files []classify.ClassifiedFile) []types.FileSummary {
	out := make([]types.FileSummary, 0, len(files))
	for _, f := range files {
		out = append(out, types.FileSummary{
			Path:       f.Path,
			OldPath:    f.OldPath,
			ChangeType: string(f.ChangeType),
			Additions:  f.Additions,
			Deletions:  f.Deletions,
			RuleID:     f.RuleID,
			Label:      f.Label,
			Omit:       f.Omit,
		})
	}
	return out
}
