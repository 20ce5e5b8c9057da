// Package fakepage is an in-memory PagePort for tests. It models the DOM as
// an ordered slice of interactive elements with fixed geometry.
package fakepage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

var (
	_ output.PagePort    = (*Page)(nil)
	_ output.ElementPort = (*Element)(nil)
	_ output.BrowserPort = (*Browser)(nil)
)

type Element struct {
	Tag    string
	Type   string
	Label  string
	Href   string
	Box    entity.Rect
	Hidden bool
	Value  string

	OnClick    func(p *Page) (*Page, error)
	ClickErr   error
	ClickCount int
	Pressed    []string

	page *Page
}

func (e *Element) BoundingBox(ctx context.Context) (*entity.Rect, error) {
	if e.Hidden {
		return nil, nil
	}
	box := e.Box
	return &box, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.Label, nil
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.ClickCount++
	if e.OnClick == nil {
		return nil
	}
	opened, err := e.OnClick(e.page)
	if err != nil {
		return err
	}
	if opened != nil {
		e.page.mu.Lock()
		e.page.opened = opened
		e.page.mu.Unlock()
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, text string) error {
	e.Value = text
	return nil
}

func (e *Element) Press(ctx context.Context, key string) error {
	e.Pressed = append(e.Pressed, key)
	return nil
}

type Page struct {
	mu             sync.Mutex
	CurrentURL     string
	PageTitle      string
	BodyText       string
	ViewportHeight float64
	Elements       []*Element
	History        []string
	PDFs           []string
	Settles        int
	Screenshots    int

	GotoErr  error
	EvalErr  error
	QueryErr error
	PDFErr   error

	opened *Page
}

func New(url, title string) *Page {
	return &Page{
		CurrentURL:     url,
		PageTitle:      title,
		ViewportHeight: 800,
	}
}

// Add appends an element to the document and returns it.
func (p *Page) Add(el *Element) *Element {
	el.page = p
	p.Elements = append(p.Elements, el)
	return el
}

// Remove drops the element at position i of the document.
func (p *Page) Remove(i int) {
	p.Elements = append(p.Elements[:i:i], p.Elements[i+1:]...)
}

func Visible(tag, text string, top float64) *Element {
	return &Element{Tag: tag, Label: text, Box: entity.Rect{Y: top, Width: 100, Height: 20}}
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if p.GotoErr != nil {
		return p.GotoErr
	}
	p.History = append(p.History, p.CurrentURL)
	p.CurrentURL = url
	p.Settles++
	return nil
}

func (p *Page) Evaluate(ctx context.Context, script string, args ...any) ([]byte, error) {
	if p.EvalErr != nil {
		return nil, p.EvalErr
	}
	type item struct {
		Tag    string  `json:"tag"`
		Type   *string `json:"type"`
		Text   string  `json:"text"`
		Href   *string `json:"href"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Top    float64 `json:"top"`
	}
	items := make([]item, 0, len(p.Elements))
	for _, el := range p.Elements {
		it := item{Tag: el.Tag, Text: el.Label}
		if el.Label == "" {
			it.Text = el.Value
		}
		if el.Type != "" {
			typ := el.Type
			it.Type = &typ
		}
		if el.Href != "" {
			href := el.Href
			it.Href = &href
		}
		if !el.Hidden {
			it.Width, it.Height, it.Top = el.Box.Width, el.Box.Height, el.Box.Y
		}
		items = append(items, it)
	}
	text := []rune(p.BodyText)
	if len(text) > 3000 {
		text = text[:3000]
	}
	return json.Marshal(map[string]any{
		"viewportHeight": p.ViewportHeight,
		"items":          items,
		"text":           string(text),
	})
}

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.PageTitle, nil
}

func (p *Page) URL() string {
	return p.CurrentURL
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]output.ElementPort, error) {
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	result := make([]output.ElementPort, 0, len(p.Elements))
	for _, el := range p.Elements {
		result = append(result, el)
	}
	return result, nil
}

func (p *Page) PDF(ctx context.Context, path string) error {
	if p.PDFErr != nil {
		return p.PDFErr
	}
	p.PDFs = append(p.PDFs, path)
	return nil
}

func (p *Page) GoBack(ctx context.Context) error {
	if len(p.History) == 0 {
		return errors.New("no history entry")
	}
	p.CurrentURL = p.History[len(p.History)-1]
	p.History = p.History[:len(p.History)-1]
	return nil
}

func (p *Page) WaitForLoadState(ctx context.Context) error {
	p.Settles++
	return nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	p.Screenshots++
	return []byte("image"), nil
}

func (p *Page) ExpectNewPage(ctx context.Context, timeout time.Duration, action func() error) (output.PagePort, error) {
	p.mu.Lock()
	p.opened = nil
	p.mu.Unlock()

	if err := action(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opened == nil {
		return nil, nil
	}
	opened := p.opened
	p.opened = nil
	return opened, nil
}

// Browser hands out a single prepared page.
type Browser struct {
	Page   *Page
	Closed bool
}

func (b *Browser) NewPage(ctx context.Context) (output.PagePort, error) {
	return b.Page, nil
}

func (b *Browser) Close() {
	b.Closed = true
}
