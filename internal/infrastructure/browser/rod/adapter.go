package rod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserPort = (*BrowserAdapter)(nil)
	_ output.PagePort    = (*Page)(nil)
	_ output.ElementPort = (*Element)(nil)
)

var ErrInvalidURL = errors.New("invalid URL")

const (
	defaultSlowMotion = 0
	defaultTimeout    = 30 * time.Second
	idleWindow        = 500 * time.Millisecond
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if cfg.SlowMotion > 0 {
		browser = browser.SlowMotion(cfg.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		timeout:  cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) NewPage(ctx context.Context) (output.PagePort, error) {
	if b.closed {
		return nil, errors.New("browser is closed")
	}
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return newPage(page.Context(context.Background()), b.timeout), nil
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// Page adapts one rod tab. Every call is bounded by the configured timeout
// and the caller's context.
type Page struct {
	page    *rod.Page
	timeout time.Duration
}

func newPage(page *rod.Page, timeout time.Duration) *Page {
	return &Page{page: page, timeout: timeout}
}

func (p *Page) bound(ctx context.Context) (*rod.Page, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(ctx, p.timeout)
	return p.page.Context(tctx), cancel
}

func (p *Page) Goto(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	page, cancel := p.bound(ctx)
	defer cancel()

	wait := page.WaitRequestIdle(idleWindow, nil, nil, nil)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	wait()
	return nil
}

func (p *Page) Evaluate(ctx context.Context, script string, args ...any) ([]byte, error) {
	page, cancel := p.bound(ctx)
	defer cancel()

	res, err := page.Eval(script, args...)
	if err != nil {
		return nil, fmt.Errorf("eval failed: %w", err)
	}
	return []byte(res.Value.JSON("", "")), nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	page, cancel := p.bound(ctx)
	defer cancel()

	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.Title, nil
}

func (p *Page) URL() string {
	info, err := p.page.Timeout(p.timeout).Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]output.ElementPort, error) {
	page, cancel := p.bound(ctx)
	defer cancel()

	elements, err := page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	result := make([]output.ElementPort, 0, len(elements))
	for _, el := range elements {
		result = append(result, &Element{el: el.Context(context.Background()), timeout: p.timeout})
	}
	return result, nil
}

func (p *Page) PDF(ctx context.Context, path string) error {
	page, cancel := p.bound(ctx)
	defer cancel()

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	defer stream.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, stream); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (p *Page) GoBack(ctx context.Context) error {
	page, cancel := p.bound(ctx)
	defer cancel()

	wait := page.WaitRequestIdle(idleWindow, nil, nil, nil)
	if err := page.NavigateBack(); err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	wait()
	return nil
}

func (p *Page) WaitForLoadState(ctx context.Context) error {
	page, cancel := p.bound(ctx)
	defer cancel()

	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	page.WaitRequestIdle(idleWindow, nil, nil, nil)()
	return nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	page, cancel := p.bound(ctx)
	defer cancel()

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

func (p *Page) ExpectNewPage(ctx context.Context, timeout time.Duration, action func() error) (output.PagePort, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wait := p.page.Context(waitCtx).WaitOpen()
	if err := action(); err != nil {
		return nil, err
	}

	opened, err := wait()
	if waitCtx.Err() != nil || err != nil || opened == nil {
		return nil, nil
	}
	return newPage(opened.Context(context.Background()), p.timeout), nil
}

type Element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *Element) bound(ctx context.Context) (*rod.Element, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	return e.el.Context(tctx), cancel
}

func (e *Element) BoundingBox(ctx context.Context) (*entity.Rect, error) {
	el, cancel := e.bound(ctx)
	defer cancel()

	shape, err := el.Shape()
	if err != nil {
		var cdpErr *cdp.Error
		if errors.As(err, &cdpErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("element shape: %w", err)
	}
	box := shape.Box()
	if box == nil {
		return nil, nil
	}
	return &entity.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	el, cancel := e.bound(ctx)
	defer cancel()
	return el.Text()
}

func (e *Element) Click(ctx context.Context) error {
	el, cancel := e.bound(ctx)
	defer cancel()
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *Element) Fill(ctx context.Context, text string) error {
	el, cancel := e.bound(ctx)
	defer cancel()

	if _, err := el.Eval(`() => { this.value = ""; }`); err != nil {
		return fmt.Errorf("clear field: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

var keys = map[string]input.Key{
	"enter":     input.Enter,
	"tab":       input.Tab,
	"escape":    input.Escape,
	"backspace": input.Backspace,
}

func (e *Element) Press(ctx context.Context, key string) error {
	k, ok := keys[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}

	el, cancel := e.bound(ctx)
	defer cancel()
	return el.Type(k)
}

func validateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("%w: missing scheme in %q", ErrInvalidURL, rawURL)
	}
	return nil
}
