package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")
	if root != nil {
		// flags are declared with dashes, keys use underscores
		root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyOllamaURL, "http://localhost:11434")
	viper.SetDefault(KeyModel, "llama3")
	viper.SetDefault(KeyLLMCallTimeout, "2m")
	viper.SetDefault(KeyMode, "commit")
	viper.SetDefault(KeyHost, "0.0.0.0")
	viper.SetDefault(KeyPort, 8000)
	viper.SetDefault(KeyMaxPromptTok, 0)
}

func RulesFile() string      { return viper.GetString(KeyRulesFile) }
func LogLevel() string       { return viper.GetString(KeyLogLevel) }
func OllamaURL() string      { return viper.GetString(KeyOllamaURL) }
func Model() string          { return viper.GetString(KeyModel) }
func GitHubToken() string    { return viper.GetString(KeyGitHubToken) }
func Mode() string           { return viper.GetString(KeyMode) }
func Host() string           { return viper.GetString(KeyHost) }
func Port() int              { return viper.GetInt(KeyPort) }
func MaxPromptTokens() int   { return viper.GetInt(KeyMaxPromptTok) }
func LLMCallTimeout() string { return viper.GetString(KeyLLMCallTimeout) }

// CallTimeout parses llm_call_timeout, falling back to two minutes when unset.
func CallTimeout() (time.Duration, error) {
	trimmed := strings.TrimSpace(LLMCallTimeout())
	if trimmed == "" {
		return 2 * time.Minute, nil
	}
	return time.ParseDuration(trimmed)
}
