package output

import (
	"context"

	"webpilot/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	History []entity.Turn
	Tools   []entity.ToolDefinition
	// ForceToolCall requires the model to answer with at least one tool call.
	ForceToolCall bool
	// Temperature is nil to keep the model's default sampling.
	Temperature *float32
}

// ChatResponse.Candidate is nil when the model returned no candidate.
type ChatResponse struct {
	Candidate *entity.Turn
}
