package output

import "context"

// TracePort stores a picture of the page after a step.
type TracePort interface {
	Capture(ctx context.Context, runID string, step int, image []byte) error
}
