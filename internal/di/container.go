package di

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"webpilot/internal/adapter/tool"
	"webpilot/internal/application/port/input"
	"webpilot/internal/application/port/output"
	"webpilot/internal/application/service"
	"webpilot/internal/infrastructure/browser/playwright"
	"webpilot/internal/infrastructure/browser/rod"
	"webpilot/internal/infrastructure/config"
	"webpilot/internal/infrastructure/llm/gemini"
	"webpilot/internal/infrastructure/llm/openrouter"
	"webpilot/internal/infrastructure/llm/ratelimit"
	"webpilot/internal/infrastructure/logger"
	"webpilot/internal/infrastructure/prompts"
	"webpilot/internal/infrastructure/trace"
	"webpilot/internal/infrastructure/userinteraction"
	"webpilot/internal/usecase/controller"
	"webpilot/internal/usecase/executor"
)

type Container struct {
	Browser      output.BrowserPort
	Controller   *controller.Controller
	LLM          output.LLMPort
	Logger       output.LoggerPort
	Tools        output.ToolRegistry
	TaskExecutor input.TaskExecutor
}

func NewContainer(ctx context.Context, cfg *config.Config, task string) (*Container, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Dir = cfg.Log.Dir
	logCfg.File = cfg.Log.File
	logCfg.Console = cfg.Log.Console
	log, err := logger.NewLoggerAdapter(logCfg, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := os.MkdirAll(cfg.Agent.OutputDir, 0755); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	browser, err := newBrowser(ctx, cfg.Browser)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	page, err := browser.NewPage(ctx)
	if err != nil {
		browser.Close()
		log.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	ctrl := controller.New(page, log, controller.Config{
		OutputDir:    cfg.Agent.OutputDir,
		VerifyLabels: cfg.Agent.VerifyLabels,
	})

	tools := service.NewToolRegistry()
	for _, t := range tool.Contract(ctrl) {
		tools.Register(t)
	}

	llm, err := newLLM(ctx, cfg.LLM, log)
	if err != nil {
		browser.Close()
		log.Close()
		return nil, fmt.Errorf("failed to create llm: %w", err)
	}

	prompt, err := prompts.NewGenerator(prompts.DefaultSystemPrompt, cfg.Agent.OutputDir)
	if err != nil {
		browser.Close()
		log.Close()
		return nil, err
	}

	uc := executor.New(llm, tools, prompt, log, userinteraction.NewConsoleProgress(), executor.Config{
		MaxSteps:    cfg.Agent.MaxSteps,
		Temperature: cfg.LLM.Temperature,
	})
	if cfg.Agent.TraceScreenshots {
		uc.WithTrace(trace.NewStore(filepath.Join(cfg.Agent.OutputDir, "trace")), ctrl)
	}

	log.Info("Container ready",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"engine", cfg.Browser.Engine,
		"outputDir", cfg.Agent.OutputDir,
		"maxSteps", cfg.Agent.MaxSteps,
	)

	return &Container{
		Browser:      browser,
		Controller:   ctrl,
		LLM:          llm,
		Logger:       log,
		Tools:        tools,
		TaskExecutor: uc,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newBrowser(ctx context.Context, cfg config.BrowserConfig) (output.BrowserPort, error) {
	switch cfg.Engine {
	case config.EnginePlaywright:
		pwCfg := playwright.DefaultConfig()
		pwCfg.Headless = cfg.Headless
		pwCfg.Timeout = cfg.Timeout
		return playwright.NewBrowserAdapter(ctx, pwCfg)
	case config.EngineRod, "":
		rodCfg := rod.DefaultConfig()
		rodCfg.Headless = cfg.Headless
		rodCfg.Timeout = cfg.Timeout
		return rod.NewBrowserAdapter(ctx, rodCfg)
	default:
		return nil, fmt.Errorf("unknown browser engine %q", cfg.Engine)
	}
}

func newLLM(ctx context.Context, cfg config.LLMConfig, log output.LoggerPort) (output.LLMPort, error) {
	var llm output.LLMPort
	switch cfg.Provider {
	case config.ProviderOpenRouter:
		orCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			orCfg.BaseURL = cfg.BaseURL
		}
		orCfg.Logger = log
		llm = openrouter.NewOpenRouterAdapter(orCfg)
	case config.ProviderGemini, "":
		g, err := gemini.NewGeminiAdapter(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Logger:  log,
		})
		if err != nil {
			return nil, err
		}
		llm = g
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return ratelimit.Wrap(llm, cfg.RequestsPerMinute), nil
}
