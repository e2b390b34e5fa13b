package memory

import (
	"context"

	"doc-chat-be/pkg/llm"
)

// Session is a user-scoped long-term memory handle. Retrieve returns a
// prompt-ready rendering of memories relevant to the query; Add stores a
// finished conversation turn for future recall.
type Session interface {
	Retrieve(ctx context.Context, query string) (string, error)
	Add(ctx context.Context, messages []llm.Message) error
}

// Store creates sessions against a memory backend. Creation may fail for
// configuration or connectivity reasons; the adapter caches that failure.
type Store interface {
	CreateSession(ctx context.Context, userId string) (Session, error)
}
