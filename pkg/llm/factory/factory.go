package factory

import (
	"fmt"

	"doc-chat-be/pkg/llm"
	"doc-chat-be/pkg/llm/openai"
)

// NewToolProvider builds a tool-capable LLM provider from config values.
// "ollama" is served through its OpenAI-compatible /v1 endpoint so the same
// function-calling wire format applies to both backends.
func NewToolProvider(providerType, modelName, baseURL, apiKey string) (llm.ToolProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		return openai.NewOpenAIProvider("", baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
