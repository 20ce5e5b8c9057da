package executor

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"webpilot/internal/application/port/input"
	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxSteps = 50

	nudgeText      = "Continue with a tool call."
	maxLoggedArgs  = 150
	maxLoggedValue = 300
)

// Screenshotter yields a picture of the active page for the step trace.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

type Config struct {
	MaxSteps    int
	Temperature *float32
}

type UseCase struct {
	llm      output.LLMPort
	tools    output.ToolRegistry
	prompt   output.PromptPort
	logger   output.LoggerPort
	progress output.ProgressPort

	tracer  output.TracePort
	capture Screenshotter

	maxSteps    int
	temperature *float32
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	prompt output.PromptPort,
	logger output.LoggerPort,
	progress output.ProgressPort,
	cfg Config,
) *UseCase {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	return &UseCase{
		llm:         llm,
		tools:       tools,
		prompt:      prompt,
		logger:      logger,
		progress:    progress,
		maxSteps:    cfg.MaxSteps,
		temperature: cfg.Temperature,
	}
}

// WithTrace stores a screenshot of the active page after every step.
func (uc *UseCase) WithTrace(tracer output.TracePort, capture Screenshotter) *UseCase {
	uc.tracer = tracer
	uc.capture = capture
	return uc
}

// Execute runs task until the model declares an outcome or the step budget
// is spent. It always returns a report.
func (uc *UseCase) Execute(ctx context.Context, task string) *entity.RunReport {
	runID := uuid.NewString()
	logger := uc.logger.WithField("run", runID)
	state := entity.NewSessionState()

	report := func() *entity.RunReport {
		r := state.Report()
		r.RunID = runID
		uc.progress.ShowOutcome(ctx, r)
		logger.Info("Run finished", "outcome", r.Outcome, "steps", r.Steps, "message", r.Message)
		return r
	}

	uc.progress.ShowTask(ctx, task)
	system, err := uc.prompt.SystemPrompt(task)
	if err != nil {
		logger.Error("Failed to render system prompt", "error", err)
		state.Exhaust(fmt.Sprintf("system prompt: %v", err))
		return report()
	}

	history := []entity.Turn{entity.UserText(system)}
	tools := uc.tools.Definitions()

	for state.Running() && state.Steps < uc.maxSteps {
		if err := ctx.Err(); err != nil {
			state.Exhaust(fmt.Sprintf("interrupted: %v", err))
			break
		}

		state.Steps++
		uc.progress.ShowIteration(ctx, state.Steps, uc.maxSteps)
		logger.Debug("Starting step", "step", state.Steps)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			History:       history,
			Tools:         tools,
			ForceToolCall: true,
			Temperature:   uc.temperature,
		})
		if err != nil {
			transportErr := entity.NewTransportError("chat", err)
			logger.Error("LLM request failed", "step", state.Steps, "error", transportErr)
			history = append(history, entity.UserText(fmt.Sprintf("Error: %v. Try a different approach.", transportErr)))
			continue
		}
		if resp == nil || resp.Candidate == nil {
			logger.Warn("No candidate returned", "step", state.Steps)
			state.Exhaust("no response from model")
			break
		}

		history = append(history, *resp.Candidate)

		if len(resp.Candidate.ToolCalls) == 0 {
			logger.Debug("Model answered without tool calls", "step", state.Steps)
			history = append(history, entity.UserText(nudgeText))
			continue
		}

		responses := make([]entity.ToolResponse, 0, len(resp.Candidate.ToolCalls))
		for _, call := range resp.Candidate.ToolCalls {
			out := uc.dispatch(ctx, logger, call)
			responses = append(responses, entity.ToolResponse{
				CallID: call.ID,
				Name:   call.Name,
				Result: out.Text,
			})
			if out.Declaration != nil {
				state.Declare(*out.Declaration)
				break
			}
		}
		history = append(history, entity.Turn{Role: entity.RoleUser, ToolResponses: responses})

		uc.trace(ctx, logger, runID, state.Steps)
	}

	if state.Running() {
		state.Exhaust("max steps reached")
	}
	return report()
}

// dispatch runs one call. Every failure becomes the call's result text.
func (uc *UseCase) dispatch(ctx context.Context, logger output.LoggerPort, call entity.ToolCall) entity.ToolOutput {
	logger.Info("Tool call", "tool", call.Name, "args", clip(call.Arguments, maxLoggedArgs))
	uc.progress.ShowToolStart(ctx, call.Name, call.Arguments)

	t, ok := uc.tools.Get(entity.ToolName(call.Name))
	if !ok {
		result := fmt.Sprintf("Error: unknown tool '%s'", call.Name)
		logger.Warn("Unknown tool called", "tool", call.Name)
		uc.progress.ShowToolResult(ctx, call.Name, result, true)
		return entity.TextOutput(result)
	}

	out, err := t.Execute(ctx, call.Arguments)
	if err != nil {
		result := "Error: " + err.Error()
		var actionErr *entity.ActionError
		if errors.As(err, &actionErr) {
			logger.Warn("Tool call failed", "tool", call.Name, "kind", actionErr.Kind, "error", err)
		} else {
			logger.Error("Tool call failed", "tool", call.Name, "error", err)
		}
		uc.progress.ShowToolResult(ctx, call.Name, result, true)
		return entity.TextOutput(result)
	}

	logger.Info("Tool result", "tool", call.Name, "result", clip(out.Text, maxLoggedValue))
	uc.progress.ShowToolResult(ctx, call.Name, out.Text, false)
	return out
}

func (uc *UseCase) trace(ctx context.Context, logger output.LoggerPort, runID string, step int) {
	if uc.tracer == nil || uc.capture == nil {
		return
	}
	image, err := uc.capture.Screenshot(ctx)
	if err != nil {
		logger.Warn("Trace screenshot failed", "step", step, "error", err)
		return
	}
	if err := uc.tracer.Capture(ctx, runID, step, image); err != nil {
		logger.Warn("Trace capture failed", "step", step, "error", err)
	}
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
