package userinteraction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"webpilot/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestConsole(t *testing.T) (*ConsoleProgress, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	return NewConsoleProgressTo(&buf), &buf
}

func TestConsole_ToolLifecycle(t *testing.T) {
	console, buf := newTestConsole(t)
	ctx := context.Background()

	console.ShowIteration(ctx, 3, 50)
	console.ShowToolStart(ctx, "browser_type", `{"index":2,"text":"golang","submit":true}`)
	console.ShowToolResult(ctx, "browser_type", "Typed 'golang' into element [2]", false)
	console.ShowToolResult(ctx, "browser_click", "Error: ResolutionError: click: invalid element index 99", true)

	out := buf.String()
	assert.Contains(t, out, "Step 3/50")
	assert.Contains(t, out, "Type\n")
	assert.Contains(t, out, "Element: [2] → golang ⏎")
	assert.Contains(t, out, "✓ Typed 'golang' into element [2]")
	assert.Contains(t, out, "✗ Error: ResolutionError")
}

func TestConsole_Outcome(t *testing.T) {
	tests := []struct {
		report *entity.RunReport
		want   string
	}{
		{&entity.RunReport{Outcome: entity.OutcomeCompleted, Message: "saved", Steps: 4}, "COMPLETED: saved"},
		{&entity.RunReport{Outcome: entity.OutcomeFailed, Message: "captcha", Steps: 2}, "FAILED: captcha"},
		{&entity.RunReport{Outcome: entity.OutcomeExhausted, Steps: 50}, "MAX STEPS REACHED"},
	}

	for _, tt := range tests {
		t.Run(string(tt.report.Outcome), func(t *testing.T) {
			console, buf := newTestConsole(t)
			console.ShowOutcome(context.Background(), tt.report)

			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "Steps: ")
		})
	}
}

func TestFormatToolArguments(t *testing.T) {
	assert.Equal(t, "URL: https://example.com", formatToolArguments("browser_navigate", `{"url":"https://example.com"}`))
	assert.Equal(t, "Element: [4]", formatToolArguments("browser_click", `{"index":4}`))
	assert.Equal(t, "2.5s", formatToolArguments("browser_wait", `{"seconds":2.5}`))
	assert.Equal(t, "", formatToolArguments("browser_click", `not json`))
}

func TestFormatToolResult_Snapshot(t *testing.T) {
	report := strings.Join([]string{
		"URL: https://example.com/",
		"Title: Example Domain",
		"",
		"Interactive elements:",
		"[0] <a> More information...",
		"[1] <button> Go",
		"",
		"Page text (truncated):",
		"Example Domain",
	}, "\n")

	assert.Equal(t, "Example Domain | 2 elements listed", formatToolResult("browser_snapshot", report))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
