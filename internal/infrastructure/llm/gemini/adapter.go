package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"

	"google.golang.org/genai"
)

var _ output.LLMPort = (*GeminiAdapter)(nil)

const DefaultModel = "gemini-3-flash-preview"

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint.
	BaseURL string
	Logger  output.LoggerPort
}

type GeminiAdapter struct {
	client *genai.Client
	model  string
	logger output.LoggerPort
}

func NewGeminiAdapter(ctx context.Context, cfg Config) (*GeminiAdapter, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAdapter{client: client, model: cfg.Model, logger: cfg.Logger}, nil
}

func (a *GeminiAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	contents, err := convertHistory(req.History)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: convertTools(req.Tools)}}
		if req.ForceToolCall {
			config.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeAny},
			}
		}
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if a.logger != nil {
			a.logger.Warn("Gemini returned no candidates", "model", a.model)
		}
		return &output.ChatResponse{}, nil
	}

	turn, err := convertCandidate(resp.Candidates[0].Content)
	if err != nil {
		return nil, err
	}
	return &output.ChatResponse{Candidate: &turn}, nil
}

func convertHistory(turns []entity.Turn) ([]*genai.Content, error) {
	result := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case entity.RoleModel:
			if native, ok := turn.Native.(*genai.Content); ok {
				result = append(result, native)
				continue
			}
			content, err := modelContent(turn)
			if err != nil {
				return nil, err
			}
			result = append(result, content)

		case entity.RoleUser:
			if len(turn.ToolResponses) == 0 {
				result = append(result, genai.NewContentFromText(turn.Text, genai.RoleUser))
				continue
			}
			parts := make([]*genai.Part, 0, len(turn.ToolResponses))
			for _, r := range turn.ToolResponses {
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       r.CallID,
					Name:     r.Name,
					Response: r.Payload(),
				}})
			}
			result = append(result, genai.NewContentFromParts(parts, genai.RoleUser))

		default:
			return nil, fmt.Errorf("unknown turn role %q", turn.Role)
		}
	}
	return result, nil
}

func modelContent(turn entity.Turn) (*genai.Content, error) {
	var parts []*genai.Part
	if turn.Text != "" {
		parts = append(parts, genai.NewPartFromText(turn.Text))
	}
	for _, tc := range turn.ToolCalls {
		args := map[string]any{}
		if strings.TrimSpace(tc.Arguments) != "" {
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				return nil, fmt.Errorf("decode arguments of %s: %w", tc.Name, err)
			}
		}
		parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
			ID:   tc.ID,
			Name: tc.Name,
			Args: args,
		}})
	}
	return genai.NewContentFromParts(parts, genai.RoleModel), nil
}

func convertTools(tools []entity.ToolDefinition) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		result = append(result, &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: t.Parameters,
		})
	}
	return result
}

// convertCandidate keeps the content as Native so thought signatures go
// back to the model untouched.
func convertCandidate(content *genai.Content) (entity.Turn, error) {
	turn := entity.Turn{Role: entity.RoleModel, Native: content}

	var text []string
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" && !part.Thought {
			text = append(text, part.Text)
		}
		if part.FunctionCall == nil {
			continue
		}

		args := part.FunctionCall.Args
		if args == nil {
			args = map[string]any{}
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return entity.Turn{}, fmt.Errorf("encode arguments of %s: %w", part.FunctionCall.Name, err)
		}

		turn.ToolCalls = append(turn.ToolCalls, entity.ToolCall{
			ID:        part.FunctionCall.ID,
			Name:      part.FunctionCall.Name,
			Arguments: string(raw),
		})
	}
	turn.Text = strings.Join(text, "\n")
	return turn, nil
}
