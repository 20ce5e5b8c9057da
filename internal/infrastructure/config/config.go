package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	EngineRod        = "rod"
	EnginePlaywright = "playwright"

	envPrefix = "WEBPILOT"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Browser BrowserConfig `mapstructure:"browser"`
	Log     LogConfig     `mapstructure:"log"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	// Temperature stays nil unless configured; the provider default applies.
	Temperature       *float32 `mapstructure:"temperature"`
	RequestsPerMinute float64  `mapstructure:"requests_per_minute"`
}

type AgentConfig struct {
	MaxSteps         int    `mapstructure:"max_steps"`
	OutputDir        string `mapstructure:"output_dir"`
	VerifyLabels     bool   `mapstructure:"verify_labels"`
	TraceScreenshots bool   `mapstructure:"trace_screenshots"`
}

type BrowserConfig struct {
	Engine   string        `mapstructure:"engine"`
	Headless bool          `mapstructure:"headless"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.requests_per_minute", 0)

	v.SetDefault("agent.max_steps", 50)
	v.SetDefault("agent.output_dir", "./browser_output")
	v.SetDefault("agent.verify_labels", false)
	v.SetDefault("agent.trace_screenshots", false)

	v.SetDefault("browser.engine", EngineRod)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "log")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", false)
}

// New prepares v with defaults, environment bindings and the optional
// config file. An explicit file must exist; the implicit ./webpilot.yaml
// may be absent.
func New(v *viper.Viper, file string) error {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "WEBPILOT_LLM_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENROUTER_API_KEY"); err != nil {
		return fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("llm.temperature"); err != nil {
		return fmt.Errorf("bind env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("webpilot")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q: want %s or %s", c.LLM.Provider, ProviderGemini, ProviderOpenRouter))
	}
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key is required"))
	}
	if c.LLM.Provider == ProviderOpenRouter && c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required for openrouter"))
	}
	switch c.Browser.Engine {
	case EngineRod, EnginePlaywright:
	default:
		errs = append(errs, fmt.Errorf("browser.engine %q: want %s or %s", c.Browser.Engine, EngineRod, EnginePlaywright))
	}
	if c.Agent.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_steps must be positive, got %d", c.Agent.MaxSteps))
	}
	if c.Agent.OutputDir == "" {
		errs = append(errs, errors.New("agent.output_dir is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
