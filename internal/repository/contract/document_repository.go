package contract

import (
	"context"

	"doc-chat-be/internal/entity"
)

// ChunkStore is the storage backend for embedded document chunks. The index
// lifecycle manager decides which implementation is active (Postgres/pgvector
// or the in-memory degraded fallback).
type ChunkStore interface {
	// Ready reports whether the backing collection exists.
	Ready(ctx context.Context) (bool, error)

	// Setup creates the backing collection with the given vector width.
	Setup(ctx context.Context, dimension int) error

	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByFileId(ctx context.Context, fileId string) error

	// SearchSimilar returns the closest chunks by cosine similarity, best
	// first. A non-empty fileIds restricts matches to those documents.
	SearchSimilar(ctx context.Context, vector []float32, fileIds []string, limit int) ([]*entity.ScoredChunk, error)
}

// FileMetadataRepository persists per-file upload metadata.
type FileMetadataRepository interface {
	Create(ctx context.Context, file *entity.DocumentFile) error
	UpdateChunksCount(ctx context.Context, fileId string, chunksCount int) error
	Delete(ctx context.Context, fileId string) error
	FindById(ctx context.Context, fileId string) (*entity.DocumentFile, error)
	FindAll(ctx context.Context) ([]*entity.DocumentFile, error)
}
