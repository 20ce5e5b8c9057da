package playwright

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"

	"github.com/playwright-community/playwright-go"
)

var (
	_ output.BrowserPort = (*BrowserAdapter)(nil)
	_ output.PagePort    = (*Page)(nil)
	_ output.ElementPort = (*Element)(nil)
)

const defaultTimeout = 30 * time.Second

type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
	// Install downloads the driver and browsers before starting.
	Install bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  defaultTimeout,
		Install:  true,
	}
}

type BrowserAdapter struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	timeout time.Duration
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if cfg.Install {
		if err := playwright.Install(opts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(cfg.Timeout.Milliseconds()))

	return &BrowserAdapter{
		pw:      pw,
		browser: browser,
		context: bctx,
		timeout: cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) NewPage(ctx context.Context) (output.PagePort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &Page{page: page}, nil
}

func (b *BrowserAdapter) Close() {
	if b.context != nil {
		_ = b.context.Close()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.pw != nil {
		_ = b.pw.Stop()
	}
}

// Page adapts a playwright page. The driver calls are not cancellable, so
// the context is checked before each one.
type Page struct {
	page playwright.Page
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *Page) Evaluate(ctx context.Context, script string, args ...any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Playwright passes a single argument to the page function.
	if len(args) > 1 {
		return nil, fmt.Errorf("eval takes at most one argument, got %d", len(args))
	}
	value, err := p.page.Evaluate(script, args...)
	if err != nil {
		return nil, fmt.Errorf("eval failed: %w", err)
	}
	return json.Marshal(value)
}

func (p *Page) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Title()
}

func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]output.ElementPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	result := make([]output.ElementPort, 0, len(handles))
	for _, h := range handles {
		result = append(result, &Element{handle: h})
	}
	return result, nil
}

func (p *Page) PDF(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(path),
		PrintBackground: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

func (p *Page) GoBack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.GoBack(playwright.PageGoBackOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	return nil
}

func (p *Page) WaitForLoadState(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.page.Screenshot(playwright.PageScreenshotOptions{
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(80),
	})
}

func (p *Page) ExpectNewPage(ctx context.Context, timeout time.Duration, action func() error) (output.PagePort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var actionErr error
	opened, err := p.page.Context().ExpectPage(func() error {
		actionErr = action()
		return actionErr
	}, playwright.BrowserContextExpectPageOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if actionErr != nil {
		return nil, actionErr
	}
	if err != nil {
		// Timed out waiting: the click stayed on this page.
		return nil, nil
	}
	return &Page{page: opened}, nil
}

type Element struct {
	handle playwright.ElementHandle
}

func (e *Element) BoundingBox(ctx context.Context) (*entity.Rect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	box, err := e.handle.BoundingBox()
	if err != nil {
		return nil, fmt.Errorf("bounding box: %w", err)
	}
	if box == nil {
		return nil, nil
	}
	return &entity.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.handle.InnerText()
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Click()
}

func (e *Element) Fill(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Fill(text)
}

func (e *Element) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Press(key)
}
