package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

type ConsoleProgress struct {
	out io.Writer
}

func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{out: os.Stdout}
}

func NewConsoleProgressTo(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: out}
}

func (u *ConsoleProgress) ShowTask(ctx context.Context, task string) {
	bold := color.New(color.Bold)
	bold.Fprintf(u.out, "Task: %s\n", task)
}

func (u *ConsoleProgress) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Step %d/%d ━━━\n", iteration, maxIterations)
}

func (u *ConsoleProgress) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := getToolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.out, "%s %s\n", icon, name)

	summary := formatToolArguments(toolName, arguments)
	if summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(u.out, "   %s\n", summary)
	}
}

func (u *ConsoleProgress) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(u.out, "✗ ")

		dim := color.New(color.Faint)
		dim.Fprintln(u.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(u.out, "✓ %s\n", formatToolResult(toolName, result))
}

func (u *ConsoleProgress) ShowOutcome(ctx context.Context, report *entity.RunReport) {
	c := color.New(color.FgYellow, color.Bold)
	label := "MAX STEPS REACHED"
	switch report.Outcome {
	case entity.OutcomeCompleted:
		c = color.New(color.FgGreen, color.Bold)
		label = "COMPLETED"
	case entity.OutcomeFailed:
		c = color.New(color.FgRed, color.Bold)
		label = "FAILED"
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintf(u.out, "\n%s\n", rule)
	if report.Message != "" {
		c.Fprintf(u.out, "%s: %s\n", label, report.Message)
	} else {
		c.Fprintln(u.out, label)
	}
	fmt.Fprintf(u.out, "Steps: %d\n%s\n", report.Steps, rule)
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		"browser_navigate": {"🌐", "Navigate"},
		"browser_snapshot": {"👁️", "Snapshot"},
		"browser_click":    {"🖱️", "Click"},
		"browser_type":     {"✏️", "Type"},
		"browser_pdf":      {"📄", "Save PDF"},
		"browser_back":     {"↩️", "Back"},
		"browser_wait":     {"⏸️", "Wait"},
		"task_complete":    {"🏁", "Task complete"},
		"task_failed":      {"🛑", "Task failed"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch toolName {
	case "browser_navigate":
		if url, ok := args["url"].(string); ok {
			return fmt.Sprintf("URL: %s", url)
		}

	case "browser_click":
		if index, ok := args["index"].(float64); ok {
			return fmt.Sprintf("Element: [%d]", int(index))
		}

	case "browser_type":
		index, _ := args["index"].(float64)
		text, _ := args["text"].(string)
		summary := fmt.Sprintf("Element: [%d] → %s", int(index), truncate(text, 40))
		if submit, _ := args["submit"].(bool); submit {
			summary += " ⏎"
		}
		return summary

	case "browser_pdf":
		if name, ok := args["filename"].(string); ok {
			return fmt.Sprintf("File: %s", name)
		}

	case "browser_wait":
		if seconds, ok := args["seconds"].(float64); ok {
			return fmt.Sprintf("%gs", seconds)
		}

	case "task_complete":
		if summary, ok := args["summary"].(string); ok {
			return truncate(summary, 80)
		}

	case "task_failed":
		if reason, ok := args["reason"].(string); ok {
			return truncate(reason, 80)
		}
	}

	return ""
}

func formatToolResult(toolName, result string) string {
	switch toolName {
	case "browser_snapshot":
		count := 0
		for _, line := range strings.Split(result, "\n") {
			if strings.HasPrefix(line, "[") {
				count++
			}
		}
		title := ""
		for _, line := range strings.Split(result, "\n") {
			if strings.HasPrefix(line, "Title: ") {
				title = strings.TrimPrefix(line, "Title: ")
				break
			}
		}
		return fmt.Sprintf("%s | %d elements listed", truncate(title, 60), count)
	}

	return truncate(result, 100)
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
