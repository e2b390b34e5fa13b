package service

import (
	"context"
	"fmt"

	"doc-chat-be/internal/constant"
	"doc-chat-be/internal/dto"
	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/pkg/agent"
	"doc-chat-be/pkg/llm"
	"doc-chat-be/pkg/memory"
	"doc-chat-be/pkg/rag/evidence"
	"doc-chat-be/pkg/rag/scope"
)

type IChatService interface {
	Converse(ctx context.Context, req *dto.ChatQueryRequest) (*dto.ChatQueryResponse, error)
	ConverseStream(ctx context.Context, req *dto.ChatQueryRequest) <-chan dto.StreamEvent
}

// agentRunner and indexSearcher keep the orchestrator testable without a
// live reasoning engine or vector store behind it.
type agentRunner interface {
	Run(ctx context.Context, in *agent.RunInput) (string, error)
}

type indexSearcher interface {
	evidence.Searcher
	EnsureReady(ctx context.Context) error
}

type sessionProvider interface {
	GetOrCreate(ctx context.Context, userId string) memory.Session
}

// chatService orchestrates one conversational turn: it resolves the document
// scope, prepares a per-request evidence sink and search tool, picks the
// system prompt, and drives the reasoning loop.
type chatService struct {
	runner   agentRunner
	idx      indexSearcher
	sessions sessionProvider
	topK     int
	logger   logger.ILogger
}

func NewChatService(
	runner agentRunner,
	idx indexSearcher,
	sessions sessionProvider,
	topK int,
	log logger.ILogger,
) IChatService {
	if topK <= 0 {
		topK = constant.DefaultTopK
	}
	return &chatService{
		runner:   runner,
		idx:      idx,
		sessions: sessions,
		topK:     topK,
		logger:   log,
	}
}

func (cs *chatService) Converse(ctx context.Context, req *dto.ChatQueryRequest) (*dto.ChatQueryResponse, error) {
	answer, sources, err := cs.converse(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	return &dto.ChatQueryResponse{
		Response: answer,
		Sources:  sources,
	}, nil
}

// ConverseStream runs the same turn but emits events as they happen:
// "content" fragments while the answer is produced, one "sources" batch,
// at most one "error", and a terminal "done". The channel closes after
// "done" or "error".
func (cs *chatService) ConverseStream(ctx context.Context, req *dto.ChatQueryRequest) <-chan dto.StreamEvent {
	events := make(chan dto.StreamEvent, 16)

	go func() {
		defer close(events)

		emit := func(ev dto.StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		onDelta := func(fragment string) {
			emit(dto.StreamEvent{Type: "content", Data: fragment})
		}

		_, sources, err := cs.converse(ctx, req, onDelta)
		if err != nil {
			cs.logger.Error("chat", "Streaming turn failed", map[string]interface{}{
				"error": err.Error(),
			})
			emit(dto.StreamEvent{Type: "error", Data: err.Error()})
			return
		}

		if !emit(dto.StreamEvent{Type: "sources", Data: sources}) {
			return
		}
		emit(dto.StreamEvent{Type: "done"})
	}()

	return events
}

func (cs *chatService) converse(
	ctx context.Context,
	req *dto.ChatQueryRequest,
	onDelta func(string),
) (string, []dto.SourceDTO, error) {
	userId := req.UserId
	if userId == "" {
		userId = constant.DefaultUserId
	}

	sc := scope.Build(req.FileIds)

	in := &agent.RunInput{
		UserMessage: req.Message,
		OnDelta:     onDelta,
	}

	collector := evidence.NewCollector()
	if sc.IsEmpty() {
		in.SystemPrompt = constant.ConversationSystemPrompt
	} else {
		if err := cs.idx.EnsureReady(ctx); err != nil {
			return "", nil, fmt.Errorf("vector index: %w", err)
		}
		in.SystemPrompt = constant.DocumentSystemPrompt
		in.Tools = []agent.Tool{
			evidence.NewSearchTool(cs.idx, sc, cs.topK, collector, cs.logger),
		}
	}

	// Long-term memory when the backend is configured, otherwise the
	// client-supplied history carries the conversational state.
	session := cs.sessions.GetOrCreate(ctx, userId)
	if session != nil {
		in.Memory = session
	} else {
		in.History = toHistory(req.ChatHistory)
	}

	answer, err := cs.runner.Run(ctx, in)
	if err != nil {
		return "", nil, err
	}

	return answer, toSources(collector.Chunks()), nil
}

func toHistory(turns []dto.ChatTurnDTO) []llm.Message {
	history := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		history = append(history, llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	return history
}

func toSources(chunks []evidence.Chunk) []dto.SourceDTO {
	sources := make([]dto.SourceDTO, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, dto.SourceDTO{
			Text:     c.Text,
			Score:    c.Score,
			Filename: c.Filename,
			FileId:   c.FileId,
		})
	}
	return sources
}
