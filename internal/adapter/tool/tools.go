package tool

import (
	"context"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

// Browser is the action surface the browser tools drive.
type Browser interface {
	Navigate(ctx context.Context, url string) (string, error)
	Snapshot(ctx context.Context) (string, error)
	Click(ctx context.Context, index int) (string, error)
	TypeText(ctx context.Context, index int, text string, submit bool) (string, error)
	SavePDF(ctx context.Context, filename string) (string, error)
	GoBack(ctx context.Context) (string, error)
	Wait(ctx context.Context, seconds float64) (string, error)
}

var (
	_ output.ToolPort = (*NavigateTool)(nil)
	_ output.ToolPort = (*SnapshotTool)(nil)
	_ output.ToolPort = (*ClickTool)(nil)
	_ output.ToolPort = (*TypeTool)(nil)
	_ output.ToolPort = (*PDFTool)(nil)
	_ output.ToolPort = (*BackTool)(nil)
	_ output.ToolPort = (*WaitTool)(nil)
)

func noParameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

type NavigateTool struct {
	browser Browser
}

func NewNavigateTool(browser Browser) *NavigateTool {
	return &NavigateTool{browser: browser}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolBrowserNavigate }
func (t *NavigateTool) Description() string   { return "Navigate to a URL in the browser" }
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The URL to navigate to",
			},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[NavigateAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.Navigate(ctx, input.URL))
}

type SnapshotTool struct {
	browser Browser
}

func NewSnapshotTool(browser Browser) *SnapshotTool {
	return &SnapshotTool{browser: browser}
}

func (t *SnapshotTool) Name() entity.ToolName { return entity.ToolBrowserSnapshot }
func (t *SnapshotTool) Description() string {
	return "Get the current page state. Returns a list of interactive elements with their index numbers. Use the index to interact with elements."
}
func (t *SnapshotTool) Parameters() map[string]interface{} { return noParameters() }

func (t *SnapshotTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	if _, err := decode[SnapshotAction](args); err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.Snapshot(ctx))
}

type ClickTool struct {
	browser Browser
}

func NewClickTool(browser Browser) *ClickTool {
	return &ClickTool{browser: browser}
}

func (t *ClickTool) Name() entity.ToolName { return entity.ToolBrowserClick }
func (t *ClickTool) Description() string   { return "Click on an element by its index from the snapshot" }
func (t *ClickTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Element index from the snapshot",
			},
		},
		"required": []string{"index"},
	}
}

func (t *ClickTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[ClickAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.Click(ctx, *input.Index))
}

type TypeTool struct {
	browser Browser
}

func NewTypeTool(browser Browser) *TypeTool {
	return &TypeTool{browser: browser}
}

func (t *TypeTool) Name() entity.ToolName { return entity.ToolBrowserType }
func (t *TypeTool) Description() string   { return "Type text into an input field" }
func (t *TypeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Element index from the snapshot",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The text to type",
			},
			"submit": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether to press Enter after typing",
			},
		},
		"required": []string{"index", "text"},
	}
}

func (t *TypeTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[TypeAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.TypeText(ctx, *input.Index, *input.Text, input.Submit))
}

type PDFTool struct {
	browser Browser
}

func NewPDFTool(browser Browser) *PDFTool {
	return &PDFTool{browser: browser}
}

func (t *PDFTool) Name() entity.ToolName { return entity.ToolBrowserPDF }
func (t *PDFTool) Description() string   { return "Save the current page as a PDF file" }
func (t *PDFTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"filename": map[string]interface{}{
				"type":        "string",
				"description": "Filename for the PDF",
			},
		},
		"required": []string{"filename"},
	}
}

func (t *PDFTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[PDFAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.SavePDF(ctx, input.Filename))
}

type BackTool struct {
	browser Browser
}

func NewBackTool(browser Browser) *BackTool {
	return &BackTool{browser: browser}
}

func (t *BackTool) Name() entity.ToolName              { return entity.ToolBrowserBack }
func (t *BackTool) Description() string                { return "Go back to the previous page" }
func (t *BackTool) Parameters() map[string]interface{} { return noParameters() }

func (t *BackTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	if _, err := decode[BackAction](args); err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.GoBack(ctx))
}

type WaitTool struct {
	browser Browser
}

func NewWaitTool(browser Browser) *WaitTool {
	return &WaitTool{browser: browser}
}

func (t *WaitTool) Name() entity.ToolName { return entity.ToolBrowserWait }
func (t *WaitTool) Description() string   { return "Wait for a specified number of seconds" }
func (t *WaitTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"seconds": map[string]interface{}{
				"type":        "number",
				"description": "Number of seconds to wait (1-10)",
			},
		},
		"required": []string{"seconds"},
	}
}

func (t *WaitTool) Execute(ctx context.Context, args string) (entity.ToolOutput, error) {
	input, err := decode[WaitAction](args)
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return textResult(t.browser.Wait(ctx, *input.Seconds))
}

func textResult(text string, err error) (entity.ToolOutput, error) {
	if err != nil {
		return entity.ToolOutput{}, err
	}
	return entity.TextOutput(text), nil
}

// BrowserTools returns the seven browser tools in contract order.
func BrowserTools(browser Browser) []output.ToolPort {
	return []output.ToolPort{
		NewNavigateTool(browser),
		NewSnapshotTool(browser),
		NewClickTool(browser),
		NewTypeTool(browser),
		NewPDFTool(browser),
		NewBackTool(browser),
		NewWaitTool(browser),
	}
}
