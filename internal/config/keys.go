package config

const (
	KeyRulesFile      = "rules_file"
	KeyLogLevel       = "log_level"
	KeyOllamaURL      = "ollama_url"
	KeyModel          = "model"
	KeyLLMCallTimeout = "llm_call_timeout"
	KeyGitHubToken    = "github_token"
	KeyMode           = "mode"
	KeyHost           = "host"
	KeyPort           = "port"
	KeyMaxPromptTok   = "max_prompt_tokens"
)
