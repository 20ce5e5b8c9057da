package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"WEBPILOT_LLM_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENROUTER_API_KEY", "WEBPILOT_AGENT_MAX_STEPS", "WEBPILOT_BROWSER_ENGINE", "WEBPILOT_LLM_TEMPERATURE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "secret")

	v := viper.New()
	require.NoError(t, New(v, ""))
	cfg, err := Unmarshal(v)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, 50, cfg.Agent.MaxSteps)
	assert.Equal(t, "./browser_output", cfg.Agent.OutputDir)
	assert.Equal(t, EngineRod, cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.LLM.Temperature)
}

func TestFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
llm:
  provider: openrouter
  api_key: from-file
  model: openai/gpt-4o-mini
  temperature: 0.4
agent:
  max_steps: 10
browser:
  engine: playwright
  timeout: 5s
`), 0o644))
	t.Setenv("WEBPILOT_AGENT_MAX_STEPS", "7")

	v := viper.New()
	require.NoError(t, New(v, file))
	cfg, err := Unmarshal(v)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, 7, cfg.Agent.MaxSteps)
	assert.Equal(t, EnginePlaywright, cfg.Browser.Engine)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.InDelta(t, 0.4, *cfg.LLM.Temperature, 1e-6)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	v := viper.New()
	assert.Error(t, New(v, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidate(t *testing.T) {
	valid := Config{
		LLM:     LLMConfig{Provider: ProviderGemini, APIKey: "k"},
		Agent:   AgentConfig{MaxSteps: 50, OutputDir: "out"},
		Browser: BrowserConfig{Engine: EngineRod},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "anthropic" }},
		{"missing key", func(c *Config) { c.LLM.APIKey = "" }},
		{"openrouter without model", func(c *Config) { c.LLM.Provider = ProviderOpenRouter }},
		{"unknown engine", func(c *Config) { c.Browser.Engine = "chromedp" }},
		{"zero steps", func(c *Config) { c.Agent.MaxSteps = 0 }},
		{"no output dir", func(c *Config) { c.Agent.OutputDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
