// Package pipeline decides whether input text is routed through structured
// diff processing or passed to the model untouched.
package pipeline

import (
	"fmt"

	"github.com/roivaz/diffprompt/internal/classify"
	"github.com/roivaz/diffprompt/internal/diff"
	"github.com/roivaz/diffprompt/internal/logging"
	"github.com/roivaz/diffprompt/internal/prompt"
	"github.com/roivaz/diffprompt/internal/rules"
)

type Config struct {
	Rules           rules.Config
	// MaxPromptTokens only triggers a warning; prompts are never truncated.
	MaxPromptTokens int
	// CountTokens defaults to prompt.EstimateTokens.
	CountTokens     prompt.TokenCounter
	Logger          logging.Logger
}

// Output is the prepared prompt. Files and Result are nil when the input was
// not a diff and Prompt is the input verbatim.
type Output struct {
	Structured   bool
	Prompt       string
	PromptTokens int
	Files        []diff.FileChange
	Result       *classify.Result
}

// Prepare runs parse, classify and build on diff input and passes anything
// else through unchanged. The only error is a broken rule configuration.
func Prepare(text string, cfg Config) (Output, error) {
	log := cfg.Logger
	count := cfg.CountTokens
	if count == nil {
		count = prompt.EstimateTokens
	}

	if !diff.IsDiff(text) {
		log.Debug("input is not a unified diff, passing through", "bytes", len(text))
		return Output{Prompt: text, PromptTokens: count(text)}, nil
	}

	files := diff.Parse(text)
	result, err := classify.Classify(files, cfg.Rules)
	if err != nil {
		return Output{}, fmt.Errorf("classify changes: %w", err)
	}
	text = prompt.Build(result)
	tokens := count(text)

	stats := prompt.Measure(result, count)
	log.Info("diff prep stats",
		"files_total", len(files),
		"files_primary", stats.PrimaryFiles,
		"files_related", stats.RelatedFiles,
		"files_noise", stats.NoiseFiles,
		"files_summarized", stats.OmittedFiles+stats.NoiseFiles,
		"primary_tokens", stats.PrimaryTokens,
		"prompt_tokens", tokens,
	)
	if len(result.Primary) == 0 {
		log.Info("no primary change selected", "files_total", len(files))
	}
	for _, f := range result.Primary {
		log.Debug("primary change", "file", f.Path, "score", f.Score, "rule", f.RuleID)
	}
	if cfg.MaxPromptTokens > 0 && tokens > cfg.MaxPromptTokens {
		log.Info("prompt exceeds token budget", "prompt_tokens", tokens, "max_prompt_tokens", cfg.MaxPromptTokens)
	}

	return Output{
		Structured:   true,
		Prompt:       text,
		PromptTokens: tokens,
		Files:        files,
		Result:       &result,
	}, nil
}
