package agent

import (
	"context"
	"fmt"

	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/pkg/llm"
	"doc-chat-be/pkg/memory"
)

const defaultMaxTurns = 8

// Runner drives a tool-capable reasoning loop: it sends the conversation to
// the model, executes any tool calls the model requests, feeds results back,
// and repeats until the model answers in plain text or the turn budget runs
// out.
type Runner struct {
	provider llm.ToolProvider
	logger   logger.ILogger
	maxTurns int
}

// NewRunner builds a runner with the given turn budget. A non-positive
// maxTurns falls back to the default.
func NewRunner(provider llm.ToolProvider, log logger.ILogger, maxTurns int) *Runner {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Runner{
		provider: provider,
		logger:   log,
		maxTurns: maxTurns,
	}
}

// RunInput is one reasoning request. Memory and History are mutually
// exclusive in practice: when Memory is set the caller omits explicit
// history, since the memory layer subsumes it.
type RunInput struct {
	SystemPrompt string
	History      []llm.Message
	UserMessage  string
	Tools        []Tool
	Memory       memory.Session

	// OnDelta, when non-nil, receives incremental content fragments.
	OnDelta func(string)
}

// Run executes the loop to completion and returns the final response text.
func (r *Runner) Run(ctx context.Context, in *RunInput) (string, error) {
	systemPrompt := in.SystemPrompt

	// Enrich the system prompt with relevant long-term memories. Retrieval
	// failure is non-fatal; the conversation continues without them.
	if in.Memory != nil {
		enrichment, err := in.Memory.Retrieve(ctx, in.UserMessage)
		if err != nil {
			r.logger.Warn("agent", "Memory retrieval failed, continuing without memories", map[string]interface{}{
				"error": err.Error(),
			})
		} else if enrichment != "" {
			systemPrompt += "\n\n" + enrichment
		}
	}

	messages := make([]llm.Message, 0, len(in.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, in.History...)
	messages = append(messages, llm.Message{Role: "user", Content: in.UserMessage})

	tools := toDefinitions(in.Tools)

	for turn := 0; turn < r.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("reasoning loop cancelled: %w", err)
		}

		// OnDelta stays attached on every turn: any content the model emits
		// ahead of a tool call streams to the caller the same as final-answer
		// content.
		result, err := r.provider.ChatWithTools(ctx, messages, tools, in.OnDelta)
		if err != nil {
			return "", fmt.Errorf("reasoning engine: %w", err)
		}

		if len(result.ToolCalls) == 0 {
			r.storeTurn(ctx, in, result.Content)
			return result.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})

		for _, call := range result.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    r.executeTool(ctx, in.Tools, call),
				ToolCallId: call.Id,
			})
		}
	}

	return "", fmt.Errorf("reasoning loop exceeded %d turns", r.maxTurns)
}

// executeTool never returns an error to the loop; tool failures become text
// the model can read and work around.
func (r *Runner) executeTool(ctx context.Context, tools []Tool, call llm.ToolCall) string {
	tool, ok := findTool(tools, call.Name)
	if !ok {
		r.logger.Warn("agent", "Model requested unknown tool", map[string]interface{}{
			"tool": call.Name,
		})
		return fmt.Sprintf("unknown tool: %s", call.Name)
	}

	r.logger.Info("agent", "Executing tool", map[string]interface{}{
		"tool": call.Name,
	})

	result, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		r.logger.Error("agent", "Tool execution failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		return fmt.Sprintf("tool %s failed: %s", call.Name, err.Error())
	}
	return result
}

// storeTurn writes the finished exchange to long-term memory. Best-effort:
// a memory write failure never fails the conversation.
func (r *Runner) storeTurn(ctx context.Context, in *RunInput, reply string) {
	if in.Memory == nil || reply == "" {
		return
	}
	err := in.Memory.Add(ctx, []llm.Message{
		{Role: "user", Content: in.UserMessage},
		{Role: "assistant", Content: reply},
	})
	if err != nil {
		r.logger.Warn("agent", "Failed to store turn in memory", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
