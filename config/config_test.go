package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "SPINAI_ADDR", "GITHUB_TOKEN", "GITHUB_WEBHOOK_SECRET", "GITHUB_API_URL",
	"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "SPINAI_LLM_PROVIDER", "SPINAI_LLM_MODEL",
	"SPINAI_LOG_LEVEL", "SPINAI_LOG_FORMAT",
}

// isolate runs the test from an empty directory with a clean environment so
// a developer's .env or shell does not leak in.
func isolate(t *testing.T) string {
	t.Helper()

	for _, k := range envKeys {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	t.Chdir(dir)

	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, ":3000", cfg.Server.Listen())

	doc := cfg.DocConfig()
	assert.Equal(t, "docs", doc.DocsPath)
	assert.Equal(t, "mint.json", doc.NavigationFile)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)

	p := writeFile(t, dir, "spinai.yaml", `
server:
  addr: 127.0.0.1
  port: 8080
  run_timeout: 90s
  max_model_calls: 40
github:
  token: from-file
llm:
  provider: anthropic
  model: claude-3-5-sonnet-latest
retry:
  max_attempts: 5
  initial_interval: 1s
docs:
  docs_path: site
  reference_concurrency: 4
  pr:
    labels: [docs, bot]
  llm:
    temperature: 0
    style_guide: Use second person.
docs_repo:
  owner: acme
  repo: handbook
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Listen())
	assert.Equal(t, 90*time.Second, cfg.Server.RunTimeout)
	assert.Equal(t, 4, cfg.Server.MaxConcurrentRuns, "unset keys keep defaults")
	assert.Equal(t, 40, cfg.Server.MaxModelCalls)
	assert.Equal(t, "from-file", cfg.GitHub.Token)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Retry.MaxInterval)

	doc := cfg.DocConfig()
	assert.Equal(t, "site", doc.DocsPath)
	assert.Equal(t, 4, doc.ReferenceConcurrency)
	assert.Equal(t, []string{"docs", "bot"}, doc.PR.Labels)
	assert.Zero(t, doc.LLM.Temperature)
	assert.Equal(t, "Use second person.", doc.LLM.StyleGuide)
	assert.Equal(t, "mint.json", doc.NavigationFile)

	require.NotNil(t, cfg.DocsRepo)
	assert.Equal(t, "handbook", cfg.DocsRepo.Repo)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)

	p := writeFile(t, dir, "spinai.yaml", "github:\n  token: from-file\n")

	t.Setenv("GITHUB_TOKEN", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("SPINAI_LOG_FORMAT", "json")
	t.Setenv("SPINAI_LLM_MODEL", "gpt-4o")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "OPENAI_API_KEY=sk-dotenv\n")

	// godotenv does not override variables that are already set, even to
	// an empty value.
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-dotenv", cfg.LLM.OpenAIKey)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "read config")

	bad := writeFile(t, dir, "bad.yaml", "server: [")
	_, err = Load(bad)
	require.ErrorContains(t, err, "parse config")

	t.Setenv("PORT", "eighty")
	_, err = Load("")
	require.ErrorContains(t, err, "invalid PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "provider", mutate: func(c *Config) { c.LLM.Provider = "llama" }, want: `unknown llm provider "llama"`},
		{name: "retry", mutate: func(c *Config) { c.Retry.MaxAttempts = 0 }, want: "retry.max_attempts"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, want: `unknown log level "loud"`},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, want: `unknown log format "xml"`},
		{name: "port", mutate: func(c *Config) { c.Server.Port = 0 }, want: "invalid server port"},
		{name: "timeout", mutate: func(c *Config) { c.Server.RunTimeout = -time.Second }, want: "server.run_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}
