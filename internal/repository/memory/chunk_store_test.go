package memory

import (
	"context"
	"testing"

	"doc-chat-be/internal/entity"

	"github.com/google/uuid"
)

func newReadyStore(t *testing.T) *ChunkStore {
	t.Helper()
	s := NewChunkStore()
	if err := s.Setup(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	return s
}

func seedChunks(t *testing.T, s *ChunkStore) {
	t.Helper()
	err := s.CreateBulk(context.Background(), []*entity.DocumentChunk{
		{Id: uuid.New(), FileId: "file-a", Filename: "a.txt", Text: "close match", Embedding: []float32{1, 0, 0}},
		{Id: uuid.New(), FileId: "file-a", Filename: "a.txt", Text: "weak match", Embedding: []float32{0, 1, 0}},
		{Id: uuid.New(), FileId: "file-b", Filename: "b.txt", Text: "other file", Embedding: []float32{0.9, 0.1, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadyAfterSetup(t *testing.T) {
	s := NewChunkStore()

	ready, err := s.Ready(context.Background())
	if err != nil || ready {
		t.Fatalf("fresh store: ready=%v err=%v", ready, err)
	}

	if err := s.Setup(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	ready, _ = s.Ready(context.Background())
	if !ready {
		t.Error("store must be ready after Setup")
	}
}

func TestSearchSimilarOrdersByScore(t *testing.T) {
	s := newReadyStore(t)
	seedChunks(t, s)

	results, err := s.SearchSimilar(context.Background(), []float32{1, 0, 0}, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Chunk.Text != "close match" {
		t.Errorf("best match first, got %q", results[0].Chunk.Text)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results out of order at %d", i)
		}
	}
}

func TestSearchSimilarScopeFilter(t *testing.T) {
	s := newReadyStore(t)
	seedChunks(t, s)

	results, err := s.SearchSimilar(context.Background(), []float32{1, 0, 0}, []string{"file-b"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only file-b chunks, got %d", len(results))
	}
	if results[0].Chunk.FileId != "file-b" {
		t.Errorf("scope filter leaked: %+v", results[0].Chunk)
	}
}

func TestSearchSimilarLimit(t *testing.T) {
	s := newReadyStore(t)
	seedChunks(t, s)

	results, err := s.SearchSimilar(context.Background(), []float32{1, 0, 0}, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected limit of 2, got %d", len(results))
	}
}

func TestDeleteByFileId(t *testing.T) {
	s := newReadyStore(t)
	seedChunks(t, s)

	if err := s.DeleteByFileId(context.Background(), "file-a"); err != nil {
		t.Fatal(err)
	}

	results, err := s.SearchSimilar(context.Background(), []float32{1, 0, 0}, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Chunk.FileId == "file-a" {
			t.Errorf("file-a chunk survived deletion: %+v", r.Chunk)
		}
	}
	if len(results) != 1 {
		t.Errorf("expected 1 remaining chunk, got %d", len(results))
	}
}
