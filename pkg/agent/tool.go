package agent

import (
	"context"
	"encoding/json"

	"doc-chat-be/pkg/llm"
)

// Tool is a callable exposed to the reasoning loop. Execute receives the raw
// JSON arguments the model produced and returns text the model reads back.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Execute     func(ctx context.Context, args json.RawMessage) (string, error)
}

func toDefinitions(tools []Tool) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = llm.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		}
	}
	return defs
}

func findTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
