package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"webpilot/internal/application/port/output"
)

//go:embed system.txt
var DefaultSystemPrompt string

var _ output.PromptPort = (*Generator)(nil)

type SystemPromptData struct {
	Task      string
	OutputDir string
}

// Generator renders the opening instruction of a run.
type Generator struct {
	tmpl      *template.Template
	outputDir string
}

func NewGenerator(baseTemplate, outputDir string) (*Generator, error) {
	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse system prompt: %w", err)
	}
	return &Generator{tmpl: tmpl, outputDir: outputDir}, nil
}

func (g *Generator) SystemPrompt(task string) (string, error) {
	data := SystemPromptData{
		Task:      strings.TrimSpace(task),
		OutputDir: g.outputDir,
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
