package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleModel, result.Role)
	assert.Equal(t, "Hello, world!", result.Text)
	assert.Empty(t, result.ToolCalls)
	assert.Equal(t, msg, result.Native)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "browser_navigate",
					Arguments: `{"url":"https://example.com"}`,
				},
			},
		},
	}

	result := convertResponseMessage(msg)

	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, "browser_navigate", result.ToolCalls[0].Name)
	assert.Equal(t, `{"url":"https://example.com"}`, result.ToolCalls[0].Arguments)
}

func TestConvertHistory(t *testing.T) {
	native := openai.ChatCompletionMessage{
		Role:             "assistant",
		ReasoningContent: "kept as is",
		ToolCalls: []openai.ToolCall{
			{ID: "a", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "browser_snapshot", Arguments: "{}"}},
			{ID: "b", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "browser_back", Arguments: "{}"}},
		},
	}
	turns := []entity.Turn{
		entity.UserText("Your task"),
		{Role: entity.RoleModel, Native: native},
		{Role: entity.RoleUser, ToolResponses: []entity.ToolResponse{
			{CallID: "a", Name: "browser_snapshot", Result: "URL: about:blank"},
			{CallID: "b", Name: "browser_back", Result: "Went back to previous page"},
		}},
		{Role: entity.RoleModel, Text: "thinking", ToolCalls: []entity.ToolCall{{ID: "c", Name: "task_complete", Arguments: `{"summary":"x"}`}}},
	}

	messages, err := convertHistory(turns)
	require.NoError(t, err)
	require.Len(t, messages, 5)

	assert.Equal(t, openai.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "Your task", messages[0].Content)
	assert.Equal(t, native, messages[1])

	assert.Equal(t, openai.ChatMessageRoleTool, messages[2].Role)
	assert.Equal(t, "a", messages[2].ToolCallID)
	assert.JSONEq(t, `{"result":"URL: about:blank"}`, messages[2].Content)
	assert.Equal(t, "b", messages[3].ToolCallID)

	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[4].Role)
	require.Len(t, messages[4].ToolCalls, 1)
	assert.Equal(t, "task_complete", messages[4].ToolCalls[0].Function.Name)
}

func TestConvertHistory_UnknownRole(t *testing.T) {
	_, err := convertHistory([]entity.Turn{{Role: "system"}})
	assert.Error(t, err)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]entity.ToolDefinition{{
		Name:        "browser_click",
		Description: "Click",
		Parameters:  map[string]interface{}{"type": "object"},
	}})

	require.Len(t, tools, 1)
	assert.Equal(t, openai.ToolTypeFunction, tools[0].Type)
	assert.Equal(t, "browser_click", tools[0].Function.Name)
}

func chatServer(t *testing.T, reply string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChat_ForcesToolCall(t *testing.T) {
	var seen openai.ChatCompletionRequest
	server := chatServer(t, `{
		"id": "1",
		"choices": [{
			"index": 0,
			"message": {
				"role": "assistant",
				"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "browser_snapshot", "arguments": "{}"}}]
			}
		}]
	}`, &seen)

	cfg := DefaultConfig("key", "test/model")
	cfg.BaseURL = server.URL
	cfg.Logger = logger.NewNop()
	adapter := NewOpenRouterAdapter(cfg)

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		History:       []entity.Turn{entity.UserText("go")},
		Tools:         []entity.ToolDefinition{{Name: "browser_snapshot", Parameters: map[string]interface{}{"type": "object"}}},
		ForceToolCall: true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Candidate)
	require.Len(t, resp.Candidate.ToolCalls, 1)
	assert.Equal(t, "browser_snapshot", resp.Candidate.ToolCalls[0].Name)

	assert.Equal(t, "test/model", seen.Model)
	assert.Equal(t, "required", seen.ToolChoice)
}

func TestChat_NoChoices(t *testing.T) {
	var seen openai.ChatCompletionRequest
	server := chatServer(t, `{"id": "1", "choices": []}`, &seen)

	cfg := DefaultConfig("key", "test/model")
	cfg.BaseURL = server.URL
	adapter := NewOpenRouterAdapter(cfg)

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{History: []entity.Turn{entity.UserText("go")}})
	require.NoError(t, err)
	assert.Nil(t, resp.Candidate)
	assert.Equal(t, "auto", seen.ToolChoice)
}

func TestChat_Temperature(t *testing.T) {
	var seen openai.ChatCompletionRequest
	server := chatServer(t, `{"id": "1", "choices": []}`, &seen)
	cfg := DefaultConfig("key", "test/model")
	cfg.BaseURL = server.URL
	adapter := NewOpenRouterAdapter(cfg)

	temperature := float32(0.3)
	_, err := adapter.Chat(context.Background(), output.ChatRequest{
		History:     []entity.Turn{entity.UserText("go")},
		Temperature: &temperature,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, seen.Temperature, 1e-6)
}
