// Package config loads the service configuration of the documentation
// updater: a .env file, an optional YAML file and environment overrides,
// in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
	"github.com/haikalllp/spinai-fork/retry"
)

// ServerConfig controls the webhook server and run limits.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	Port              int           `yaml:"port"`
	RunTimeout        time.Duration `yaml:"run_timeout"`
	MaxConcurrentRuns int           `yaml:"max_concurrent_runs"`
	MaxModelCalls     int           `yaml:"max_model_calls"`
}

// Listen returns the host:port the server binds to.
func (s ServerConfig) Listen() string {
	return net.JoinHostPort(s.Addr, strconv.Itoa(s.Port))
}

// GitHubConfig holds the source host credentials.
type GitHubConfig struct {
	Token         string `yaml:"token"`
	WebhookSecret string `yaml:"webhook_secret"`
	APIURL        string `yaml:"api_url"`
}

// LLMConfig selects the model provider.
type LLMConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	OpenAIKey     string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	AnthropicKey  string `yaml:"anthropic_api_key"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	GitHub GitHubConfig `yaml:"github"`
	LLM    LLMConfig    `yaml:"llm"`
	Log    LogConfig    `yaml:"log"`
	Retry  retry.Policy `yaml:"retry"`

	// Docs is merged over core.DefaultDocConfig.
	Docs *core.ConfigOverride `yaml:"docs"`

	// DocsRepo points runs at a separate documentation repository. Unset
	// fields fall back to the pull request's repository.
	DocsRepo *core.DocsRepo `yaml:"docs_repo"`
}

// Default returns the configuration used when no file or variable is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              3000,
			RunTimeout:        10 * time.Minute,
			MaxConcurrentRuns: 4,
		},
		LLM:   LLMConfig{Provider: "openai"},
		Log:   LogConfig{Level: "info", Format: "text"},
		Retry: retry.DefaultPolicy(),
	}
}

// Load reads .env (when present), then path (when non-empty) and finally
// the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}

		c.Server.Port = port
	}

	setFromEnv(&c.Server.Addr, "SPINAI_ADDR")
	setFromEnv(&c.GitHub.Token, "GITHUB_TOKEN")
	setFromEnv(&c.GitHub.WebhookSecret, "GITHUB_WEBHOOK_SECRET")
	setFromEnv(&c.GitHub.APIURL, "GITHUB_API_URL")
	setFromEnv(&c.LLM.OpenAIKey, "OPENAI_API_KEY")
	setFromEnv(&c.LLM.AnthropicKey, "ANTHROPIC_API_KEY")
	setFromEnv(&c.LLM.Provider, "SPINAI_LLM_PROVIDER")
	setFromEnv(&c.LLM.Model, "SPINAI_LLM_MODEL")
	setFromEnv(&c.Log.Level, "SPINAI_LOG_LEVEL")
	setFromEnv(&c.Log.Format, "SPINAI_LOG_FORMAT")

	return nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}

	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry.max_attempts must be positive"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}

	if c.Server.RunTimeout < 0 {
		errs = append(errs, errors.New("server.run_timeout must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// DocConfig returns the pipeline configuration: the defaults with the
// docs section applied.
func (c Config) DocConfig() core.DocConfig {
	return core.DefaultDocConfig().Merge(c.Docs)
}

// Logger builds the service logger.
func (c Config) Logger() logging.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.NewSlogLogger(level, c.Log.Format, false, os.Stderr)
}
