package output

import (
	"context"
	"time"

	"webpilot/internal/domain/entity"
)

type BrowserPort interface {
	NewPage(ctx context.Context) (PagePort, error)
	Close()
}

// PagePort is a single browser tab. Methods that change the page wait for
// network-idle settlement before returning.
type PagePort interface {
	Goto(ctx context.Context, url string) error
	Evaluate(ctx context.Context, script string, args ...any) ([]byte, error)
	Title(ctx context.Context) (string, error)
	URL() string
	QueryAll(ctx context.Context, selector string) ([]ElementPort, error)
	PDF(ctx context.Context, path string) error
	GoBack(ctx context.Context) error
	WaitForLoadState(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)

	// ExpectNewPage runs action and reports a page opened by it within
	// timeout. It returns a nil page when none opened, and a non-nil error
	// only when action itself failed.
	ExpectNewPage(ctx context.Context, timeout time.Duration, action func() error) (PagePort, error)
}

type ElementPort interface {
	// BoundingBox returns nil when the element is not rendered.
	BoundingBox(ctx context.Context) (*entity.Rect, error)
	Text(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Press(ctx context.Context, key string) error
}
