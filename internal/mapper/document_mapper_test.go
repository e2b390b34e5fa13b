package mapper

import (
	"testing"
	"time"

	"doc-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDocumentChunkMapperRoundTrip(t *testing.T) {
	m := NewDocumentChunkMapper()

	chunk := &entity.DocumentChunk{
		Id:         uuid.New(),
		FileId:     "file-a",
		Filename:   "report.txt",
		ChunkIndex: 2,
		Text:       "第一段内容",
		Embedding:  []float32{0.1, 0.2, 0.3},
		CreatedAt:  time.Now(),
	}

	mo := m.ToModel(chunk)
	assert.Equal(t, chunk.Embedding, mo.Embedding.Slice(), "vector must survive the pgvector conversion")

	back := m.ToEntity(mo)
	assert.Equal(t, chunk, back)
}

func TestDocumentFileMapperRoundTrip(t *testing.T) {
	m := NewDocumentFileMapper()

	file := &entity.DocumentFile{
		Id:          "file-a",
		Filename:    "report.txt",
		Size:        2048,
		UploadedAt:  time.Now(),
		ChunksCount: 7,
	}

	assert.Equal(t, file, m.ToEntity(m.ToModel(file)))
}
