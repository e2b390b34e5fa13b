package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCalls  []ToolCall // Set on assistant messages that requested tool invocations
	ToolCallId string     // Set on "tool" role messages carrying a tool result
}

// ToolDefinition describes a callable the model may invoke.
// Parameters is a JSON Schema object in map form.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a single tool invocation requested by the model
type ToolCall struct {
	Id        string
	Name      string
	Arguments json.RawMessage
}

// ChatResult is the outcome of one model round. Either Content is the final
// answer, or ToolCalls is non-empty and the caller must execute them and
// send the results back.
type ChatResult struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ToolProvider is implemented by backends that support function calling.
// onDelta, when non-nil, receives incremental content fragments as the model
// emits them; the full result is still returned at the end of the round.
type ToolProvider interface {
	LLMProvider

	ChatWithTools(ctx context.Context, history []Message, tools []ToolDefinition, onDelta func(string), options ...Option) (*ChatResult, error)
}
