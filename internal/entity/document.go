package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentFile is the metadata record of one uploaded file.
type DocumentFile struct {
	Id          string
	Filename    string
	Size        int64
	UploadedAt  time.Time
	ChunksCount int
}

// DocumentChunk is one embedded passage of an uploaded document.
type DocumentChunk struct {
	Id         uuid.UUID
	FileId     string
	Filename   string
	ChunkIndex int
	Text       string
	Embedding  []float32
	CreatedAt  time.Time
}

// ScoredChunk pairs a chunk with its similarity to a query vector.
type ScoredChunk struct {
	Chunk      *DocumentChunk
	Similarity float64
}
