package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"webpilot/internal/di"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/config"
	"webpilot/internal/infrastructure/env"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errTaskFailed makes the process exit non-zero after the report is printed.
var errTaskFailed = errors.New("task failed")

type runOptions struct {
	task       string
	configFile string
}

// flagKeys maps run flags onto config keys.
var flagKeys = map[string]string{
	"model":      "llm.model",
	"provider":   "llm.provider",
	"max-steps":  "agent.max_steps",
	"output-dir": "agent.output_dir",
	"engine":     "browser.engine",
	"headless":   "browser.headless",
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a task to completion and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.task) == "" {
				return errors.New("--task is required")
			}
			cfg, err := loadConfig(cmd, v, opts.configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, cfg, opts.task)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.task, "task", "t", "", "natural-language task for the agent")
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./webpilot.yaml)")
	flags.String("model", "", "model name")
	flags.String("provider", "", "llm provider: gemini or openrouter")
	flags.Int("max-steps", 0, "step budget")
	flags.String("output-dir", "", "directory for PDFs and traces")
	flags.String("engine", "", "browser engine: rod or playwright")
	flags.Bool("headless", true, "run the browser without a window")

	return cmd
}

func loadConfig(cmd *cobra.Command, v *viper.Viper, file string) (*config.Config, error) {
	if _, err := env.Load("."); err != nil {
		return nil, err
	}
	if err := config.New(v, file); err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return config.Unmarshal(v)
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, task string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, task)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	container.Logger.Info("Task started", "task", task)
	report := container.TaskExecutor.Execute(ctx, task)

	printReport(cmd, report)
	if report.Outcome == entity.OutcomeFailed {
		return errTaskFailed
	}
	return nil
}

func printReport(cmd *cobra.Command, report *entity.RunReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Outcome: %s\n", report.Outcome)
	fmt.Fprintf(out, "Message: %s\n", report.Message)
	fmt.Fprintf(out, "Steps: %d\n", report.Steps)
}
