package tool

import (
	"context"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

// Acknowledgement is the result of a terminal declaration.
const Acknowledgement = "OK"

var (
	_ output.ToolPort = (*CompleteTool)(nil)
	_ output.ToolPort = (*FailTool)(nil)
)

type CompleteTool struct{}

func NewCompleteTool() *CompleteTool { return &CompleteTool{} }

func (t *CompleteTool) Name() entity.ToolName { return entity.ToolTaskComplete }
func (t *CompleteTool) Description() string {
	return "Declare that the task has been completed successfully"
}
func (t *CompleteTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Summary of what was accomplished",
			},
		},
		"required": []string{"summary"},
	}
}

func (t *CompleteTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[CompleteAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return entity.ToolOutput{
		Text:        Acknowledgement,
		Declaration: &entity.Declaration{Outcome: entity.OutcomeCompleted, Message: *input.Summary},
	}, nil
}

type FailTool struct{}

func NewFailTool() *FailTool { return &FailTool{} }

func (t *FailTool) Name() entity.ToolName { return entity.ToolTaskFailed }
func (t *FailTool) Description() string   { return "Declare that the task cannot be completed" }
func (t *FailTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"reason": map[string]interface{}{
				"type":        "string",
				"description": "Explanation of why the task failed",
			},
		},
		"required": []string{"reason"},
	}
}

func (t *FailTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[FailAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return entity.ToolOutput{
		Text:        Acknowledgement,
		Declaration: &entity.Declaration{Outcome: entity.OutcomeFailed, Message: *input.Reason},
	}, nil
}

// Contract returns all nine tools: the browser tools followed by the two
// terminal declarations.
func Contract(browser Browser) []output.ToolPort {
	return append(BrowserTools(browser), NewCompleteTool(), NewFailTool())
}
