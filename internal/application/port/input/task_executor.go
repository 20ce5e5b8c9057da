package input

import (
	"context"

	"webpilot/internal/domain/entity"
)

// TaskExecutor runs a task to one of its terminal outcomes. It does not
// return an error: every failure along the way is folded into the report.
type TaskExecutor interface {
	Execute(ctx context.Context, task string) *entity.RunReport
}
