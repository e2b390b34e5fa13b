package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/internal/repository/contract"
	"doc-chat-be/pkg/embedding"
	"doc-chat-be/pkg/rag/scope"
)

// ErrNotReady means initialization has failed and no store is attached.
// Callers treat it as a retryable precondition; the next EnsureReady call
// attempts initialization again.
var ErrNotReady = errors.New("vector index is not ready")

type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateDegraded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Manager owns the lifecycle of the backing vector collection: it creates or
// attaches to the primary store exactly once, falls back to an in-process
// store when the primary is unavailable, and fronts all reads and writes so
// callers never touch an uninitialized store.
type Manager struct {
	primary  contract.ChunkStore
	fallback contract.ChunkStore
	embedder embedding.EmbeddingProvider
	model    string
	logger   logger.ILogger

	mu     sync.Mutex
	state  atomic.Int32
	active contract.ChunkStore
}

func NewManager(
	primary contract.ChunkStore,
	fallback contract.ChunkStore,
	embedder embedding.EmbeddingProvider,
	embeddingModel string,
	log logger.ILogger,
) *Manager {
	return &Manager{
		primary:  primary,
		fallback: fallback,
		embedder: embedder,
		model:    embeddingModel,
		logger:   log,
	}
}

func (m *Manager) State() State {
	return State(m.state.Load())
}

// EnsureReady initializes the backing collection once. Safe for concurrent
// first-call races: an uncontended fast check, then a serialized critical
// section that re-checks before doing the expensive create. Ready and
// Degraded are terminal; Failed permits another attempt on the next call.
func (m *Manager) EnsureReady(ctx context.Context) error {
	if s := m.State(); s == StateReady || s == StateDegraded {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check: another caller may have initialized while we waited.
	if s := m.State(); s == StateReady || s == StateDegraded {
		return nil
	}

	m.state.Store(int32(StateInitializing))
	dim := DimensionFor(m.model)

	if err := m.attach(ctx, m.primary, dim); err == nil {
		m.active = m.primary
		m.state.Store(int32(StateReady))
		m.logger.Info("index", "Vector index ready", map[string]interface{}{
			"dimension": dim,
			"model":     m.model,
		})
		return nil
	} else {
		m.logger.Error("index", "Primary vector store unavailable, attempting local fallback", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if m.fallback != nil {
		if err := m.fallback.Setup(ctx, dim); err == nil {
			m.active = m.fallback
			m.state.Store(int32(StateDegraded))
			m.logger.Warn("index", "Running on degraded in-memory vector index; uploads will not survive a restart", nil)
			return nil
		}
	}

	m.active = nil
	m.state.Store(int32(StateFailed))
	return fmt.Errorf("%w: initialization failed", ErrNotReady)
}

func (m *Manager) attach(ctx context.Context, store contract.ChunkStore, dim int) error {
	ready, err := store.Ready(ctx)
	if err != nil {
		return err
	}
	if ready {
		return nil
	}
	return store.Setup(ctx, dim)
}

// Search embeds the query and runs a similarity search under the given
// scope. Results come back best first.
func (m *Manager) Search(ctx context.Context, query string, sc scope.Scope, topK int) ([]*entity.ScoredChunk, error) {
	store := m.activeStore()
	if store == nil {
		return nil, ErrNotReady
	}

	vector, err := m.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return store.SearchSimilar(ctx, vector, sc.FileIds(), topK)
}

// Insert embeds and stores document chunks.
func (m *Manager) Insert(ctx context.Context, chunks []*entity.DocumentChunk) error {
	store := m.activeStore()
	if store == nil {
		return ErrNotReady
	}

	for _, chunk := range chunks {
		vector, err := m.embedder.Generate(ctx, chunk.Text, embedding.TaskDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d of file %s: %w", chunk.ChunkIndex, chunk.FileId, err)
		}
		chunk.Embedding = vector
	}

	return store.CreateBulk(ctx, chunks)
}

func (m *Manager) DeleteByFileId(ctx context.Context, fileId string) error {
	store := m.activeStore()
	if store == nil {
		return ErrNotReady
	}
	return store.DeleteByFileId(ctx, fileId)
}

func (m *Manager) activeStore() contract.ChunkStore {
	if s := m.State(); s != StateReady && s != StateDegraded {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
