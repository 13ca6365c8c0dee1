// Package config loads prepcoach settings from an optional YAML file, a
// .env file and PREPCOACH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/stats"
)

// EnvPrefix prefixes every environment override, e.g. PREPCOACH_LOG_LEVEL.
const EnvPrefix = "PREPCOACH"

// dotenvFile is loaded into the process environment when present.
var dotenvFile = ".env"

// Config is the resolved application configuration.
type Config struct {
	// DB is the SQLite path. Empty means store.DefaultDBPath.
	DB        string
	LogLevel  string
	LLM       llm.Config
	Interview Interview
	Server    Server

	// File is the config file that was read, or "".
	File string
}

// Interview holds practice defaults.
type Interview struct {
	Questions      int
	RecentSessions int
}

// Server holds HTTP settings.
type Server struct {
	Addr string
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.groq.api_key", "")
	v.SetDefault("llm.groq.model", d.Groq.Model)
	v.SetDefault("llm.groq.base_url", "")

	v.SetDefault("interview.questions", interview.DefaultQuestionCount)
	v.SetDefault("interview.recent_sessions", stats.DefaultRecentSessions)
	v.SetDefault("server.addr", ":8080")
}

// Load reads configuration. An explicit path must exist; with an empty path
// config.yaml in the user config directory is read when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "prepcoach"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		DB:       v.GetString("db"),
		LogLevel: v.GetString("log.level"),
		LLM:      llmConfig(v),
		Interview: Interview{
			Questions:      interview.ClampQuestionCount(v.GetInt("interview.questions")),
			RecentSessions: v.GetInt("interview.recent_sessions"),
		},
		Server: Server{Addr: v.GetString("server.addr")},
		File:   v.ConfigFileUsed(),
	}
	if cfg.Interview.RecentSessions <= 0 {
		cfg.Interview.RecentSessions = stats.DefaultRecentSessions
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func llmConfig(v *viper.Viper) llm.Config {
	c := llm.Config{
		Provider: strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
		Anthropic: llm.AnthropicConfig{
			APIKey: v.GetString("llm.anthropic.api_key"),
			Model:  v.GetString("llm.anthropic.model"),
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  v.GetString("llm.openai.api_key"),
			Model:   v.GetString("llm.openai.model"),
			BaseURL: v.GetString("llm.openai.base_url"),
		},
		Gemini: llm.GeminiConfig{
			APIKey: v.GetString("llm.gemini.api_key"),
			Model:  v.GetString("llm.gemini.model"),
		},
		OpenRouter: llm.OpenRouterConfig{
			APIKey:  v.GetString("llm.openrouter.api_key"),
			Model:   v.GetString("llm.openrouter.model"),
			BaseURL: v.GetString("llm.openrouter.base_url"),
		},
		Groq: llm.GroqConfig{
			APIKey:  v.GetString("llm.groq.api_key"),
			Model:   v.GetString("llm.groq.model"),
			BaseURL: v.GetString("llm.groq.base_url"),
		},
		Timeout: v.GetDuration("llm.timeout"),
	}
	if c.Timeout <= 0 {
		c.Timeout = llm.DefaultConfig().Timeout
	}

	if c.Provider != "" {
		fillStandardKey(&c)
		return c
	}

	found, ok := llm.DiscoverConfig()
	if !ok {
		c.Provider = "offline"
		return c
	}
	c.Provider = found.Provider
	c.Anthropic.APIKey = firstNonEmpty(c.Anthropic.APIKey, found.Anthropic.APIKey)
	c.OpenAI.APIKey = firstNonEmpty(c.OpenAI.APIKey, found.OpenAI.APIKey)
	c.Gemini.APIKey = firstNonEmpty(c.Gemini.APIKey, found.Gemini.APIKey)
	c.OpenRouter.APIKey = firstNonEmpty(c.OpenRouter.APIKey, found.OpenRouter.APIKey)
	c.Groq.APIKey = firstNonEmpty(c.Groq.APIKey, found.Groq.APIKey)
	return c
}

// fillStandardKey reads the provider's conventional *_API_KEY variable when
// no key was configured.
func fillStandardKey(c *llm.Config) {
	switch c.Provider {
	case "anthropic":
		c.Anthropic.APIKey = firstNonEmpty(c.Anthropic.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
	case "openai":
		c.OpenAI.APIKey = firstNonEmpty(c.OpenAI.APIKey, os.Getenv("OPENAI_API_KEY"))
	case "gemini":
		c.Gemini.APIKey = firstNonEmpty(c.Gemini.APIKey, os.Getenv("GEMINI_API_KEY"))
	case "openrouter":
		c.OpenRouter.APIKey = firstNonEmpty(c.OpenRouter.APIKey, os.Getenv("OPENROUTER_API_KEY"))
	case "groq":
		c.Groq.APIKey = firstNonEmpty(c.Groq.APIKey, os.Getenv("GROQ_API_KEY"))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}

// Validate checks the log level and the provider settings.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return l
}
