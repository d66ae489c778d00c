// Package llm sends prepared prompts to a language model and returns the
// drafted commit message or pull request summary.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/roivaz/diffprompt/internal/logging"
	"github.com/roivaz/diffprompt/internal/prompt"
)

type Config struct {
	ModelName   string
	OllamaURL   string
	CallTimeout time.Duration
	Temperature float64
	Logger      logr.Logger
}

type Draft struct {
	Text             string `json:"text"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

type Drafter struct {
	model       llms.Model
	log         logging.Logger
	to          time.Duration
	temperature float64
	count       prompt.TokenCounter
}

// New connects a Drafter to an Ollama server.
func New(cfg Config) (*Drafter, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("llm model name is required")
	}

	opts := []ollama.Option{
		ollama.WithModel(cfg.ModelName),
		ollama.WithKeepAlive("5m"),
	}
	if trimmed := strings.TrimSpace(cfg.OllamaURL); trimmed != "" {
		opts = append(opts, ollama.WithServerURL(trimmed))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return NewWithModel(client, cfg), nil
}

// NewWithModel wraps any langchaingo model.
func NewWithModel(model llms.Model, cfg Config) *Drafter {
	return &Drafter{
		model:       model,
		log:         logging.New(cfg.Logger).WithName("llm"),
		to:          cfg.CallTimeout,
		temperature: cfg.Temperature,
		count:       prompt.EstimateTokens,
	}
}

// Draft renders the instructions for mode around text and asks the model for
// a draft. Token counts come from the provider when it reports them and are
// estimated otherwise.
func (d *Drafter) Draft(ctx context.Context, mode prompt.Mode, text, title string) (Draft, error) {
	rendered, err := prompt.Render(mode, text, title)
	if err != nil {
		return Draft{}, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: rendered}},
		},
	}

	start := time.Now()
	resp, err := d.model.GenerateContent(ctx, messages, llms.WithTemperature(d.temperature))
	if err != nil {
		d.log.Error(err, "draft call failed", "mode", mode, "elapsed", time.Since(start).String())
		return Draft{}, d.annotateError(err)
	}
	if len(resp.Choices) == 0 {
		return Draft{}, fmt.Errorf("empty %s draft response", mode)
	}

	choice := resp.Choices[0]
	draft := Draft{
		Text:             strings.TrimSpace(choice.Content),
		PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
	}
	if draft.PromptTokens == 0 {
		draft.PromptTokens = d.count(rendered)
	}
	if draft.CompletionTokens == 0 {
		draft.CompletionTokens = d.count(draft.Text)
	}

	d.log.Debug("draft completed",
		"mode", mode,
		"elapsed", time.Since(start).String(),
		"prompt_tokens", draft.PromptTokens,
		"completion_tokens", draft.CompletionTokens,
	)
	return draft, nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (d *Drafter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.to <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.to)
}

func (d *Drafter) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("llm call timed out after %s: %w", d.to, err)
	}
	return err
}
