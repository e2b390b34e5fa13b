package memory

import (
	"context"
	"sort"
	"sync"

	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/repository/contract"
)

// ChunkStore is a brute-force in-memory vector store. It backs the degraded
// index fallback when Postgres is unreachable and doubles as the test store.
// Vectors are assumed L2-normalized, so dot product equals cosine similarity.
type ChunkStore struct {
	mu        sync.RWMutex
	dimension int
	ready     bool
	chunks    []*entity.DocumentChunk
}

var _ contract.ChunkStore = &ChunkStore{}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

func (s *ChunkStore) Ready(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready, nil
}

func (s *ChunkStore) Setup(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.ready = true
	return nil
}

func (s *ChunkStore) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *ChunkStore) DeleteByFileId(ctx context.Context, fileId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.FileId != fileId {
			kept = append(kept, c)
		}
	}
	s.chunks = kept
	return nil
}

func (s *ChunkStore) SearchSimilar(ctx context.Context, vector []float32, fileIds []string, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	allowed := map[string]bool{}
	for _, id := range fileIds {
		allowed[id] = true
	}

	s.mu.RLock()
	var scored []*entity.ScoredChunk
	for _, c := range s.chunks {
		if len(allowed) > 0 && !allowed[c.FileId] {
			continue
		}
		scored = append(scored, &entity.ScoredChunk{
			Chunk:      c,
			Similarity: dot(c.Embedding, vector),
		})
	}
	s.mu.RUnlock()

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
