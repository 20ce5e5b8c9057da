package output

import (
	"context"

	"webpilot/internal/domain/entity"
)

type ProgressPort interface {
	ShowTask(ctx context.Context, task string)
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
	ShowOutcome(ctx context.Context, report *entity.RunReport)
}
