package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/roivaz/diffprompt/internal/classify"
	"github.com/roivaz/diffprompt/internal/config"
	"github.com/roivaz/diffprompt/internal/llm"
	"github.com/roivaz/diffprompt/internal/logging"
	"github.com/roivaz/diffprompt/internal/mcp"
	"github.com/roivaz/diffprompt/internal/pipeline"
	"github.com/roivaz/diffprompt/internal/prompt"
	"github.com/roivaz/diffprompt/internal/rules"
)

var rootCmd = &cobra.Command{
	Use:   "diffprompt",
	Short: "Turn diffs into role-aware prompts for commit and PR drafting",
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prepared prompt for a diff",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _, err := prepare(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Prompt)
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show how each changed file was classified",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _, err := prepare(cmd)
		if err != nil {
			return err
		}
		if !out.Structured {
			return errors.New("input is not a unified diff")
		}
		if table, _ := cmd.Flags().GetBool("table"); table {
			return writeTable(cmd.OutOrStdout(), out.Result)
		}
		report := struct {
			Primary      []classify.ClassifiedFile `json:"primary"`
			Related      []classify.RelatedGroup   `json:"related"`
			Noise        []classify.ClassifiedFile `json:"noise"`
			PromptTokens int                       `json:"promptTokens"`
		}{
			Primary:      out.Result.Primary,
			Related:      out.Result.RelatedGroups(),
			Noise:        out.Result.Noise,
			PromptTokens: out.PromptTokens,
		}
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a commit message or PR summary with the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := prompt.ParseMode(config.Mode())
		if err != nil {
			return err
		}
		out, in, err := prepare(cmd)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = in.title
		}
		drafter, err := newDrafter()
		if err != nil {
			return err
		}
		draft, err := drafter.Draft(cmd.Context(), mode, out.Prompt, title)
		if err != nil {
			return err
		}
		logger().Info("draft generated",
			"mode", mode,
			"prompt_tokens", draft.PromptTokens,
			"completion_tokens", draft.CompletionTokens,
		)
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(draft.Text))
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active rule set (built-in unless --rules-file is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRules()
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve build_prompt and draft_message as MCP tools over HTTP",
	RunE:  serve,
}

func main() {
	root := rootCmd.PersistentFlags()
	root.String("rules-file", "", "Rule configuration (YAML or JSON); built-in rules when empty")
	root.String("log-level", "info", "Log level (debug, info, warn, error)")
	root.String("ollama-url", "", "Ollama base URL")
	root.String("model", "", "Model used for drafting")
	root.String("llm-call-timeout", "", "Per-call model timeout (e.g. 90s)")
	root.String("github-token", "", "GitHub token for pull request diffs")
	root.String("mode", "", "Drafting mode: commit or pr")
	root.Int("max-prompt-tokens", 0, "Warn when a prepared prompt exceeds this many tokens")
	root.Int("port", 8000, "HTTP port")
	root.String("host", "0.0.0.0", "HTTP host")

	for _, cmd := range []*cobra.Command{promptCmd, classifyCmd, draftCmd} {
		addInputFlags(cmd)
	}
	classifyCmd.Flags().Bool("table", false, "Print a colored table instead of YAML")
	draftCmd.Flags().String("title", "", "Current PR title (pr mode); defaults to the pull request's title with --pr")

	config.Init(rootCmd)
	rootCmd.AddCommand(promptCmd, classifyCmd, draftCmd, rulesCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("diffprompt: %v", err)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	prep, err := pipelineConfig()
	if err != nil {
		return err
	}
	drafter, err := newDrafter()
	if err != nil {
		return err
	}
	srv := mcp.New(mcp.DefaultConfig(prep, drafter))

	addr := config.Host() + ":" + strconv.Itoa(config.Port())
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger().Info("MCP server listening", "addr", addr, "model", config.Model())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func logger() logging.Logger {
	return logging.New(logging.ForLevel(config.LogLevel()))
}

func loadRules() (rules.Config, error) {
	path := config.RulesFile()
	if path == "" {
		return rules.Default(), nil
	}
	return rules.Load(path)
}

// prepare reads the command's input and runs it through the pipeline.
func prepare(cmd *cobra.Command) (pipeline.Output, input, error) {
	prep, err := pipelineConfig()
	if err != nil {
		return pipeline.Output{}, input{}, err
	}
	in, err := readInput(cmd)
	if err != nil {
		return pipeline.Output{}, input{}, err
	}
	out, err := pipeline.Prepare(in.text, prep)
	return out, in, err
}

func pipelineConfig() (pipeline.Config, error) {
	cfg, err := loadRules()
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Rules:           cfg,
		MaxPromptTokens: config.MaxPromptTokens(),
		Logger:          logger().WithName("pipeline"),
	}, nil
}

func newDrafter() (*llm.Drafter, error) {
	timeout, err := config.CallTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.KeyLLMCallTimeout, err)
	}
	return llm.New(llm.Config{
		ModelName:   config.Model(),
		OllamaURL:   config.OllamaURL(),
		CallTimeout: timeout,
		Temperature: 0.2,
		Logger:      logging.ForLevel(config.LogLevel()),
	})
}
