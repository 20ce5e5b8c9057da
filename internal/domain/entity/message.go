package entity

type TurnRole string

const (
	RoleUser  TurnRole = "user"
	RoleModel TurnRole = "model"
)

// Turn is one entry of the conversation history. A model turn keeps the
// provider payload in Native so it can be sent back unchanged.
type Turn struct {
	Role          TurnRole
	Text          string
	ToolCalls     []ToolCall
	ToolResponses []ToolResponse
	Native        any
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolResponse answers the ToolCall with the same position in the
// preceding model turn. Result is sent as {"result": Result}.
type ToolResponse struct {
	CallID string
	Name   string
	Result string
}

type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

func UserText(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

func (r ToolResponse) Payload() map[string]any {
	return map[string]any{"result": r.Result}
}
