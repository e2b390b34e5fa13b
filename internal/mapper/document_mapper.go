package mapper

import (
	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToModel(e *entity.DocumentChunk) *model.DocumentChunk {
	return &model.DocumentChunk{
		Id:         e.Id,
		FileId:     e.FileId,
		Filename:   e.Filename,
		ChunkIndex: e.ChunkIndex,
		Text:       e.Text,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToEntity(mo *model.DocumentChunk) *entity.DocumentChunk {
	return &entity.DocumentChunk{
		Id:         mo.Id,
		FileId:     mo.FileId,
		Filename:   mo.Filename,
		ChunkIndex: mo.ChunkIndex,
		Text:       mo.Text,
		Embedding:  mo.Embedding.Slice(),
		CreatedAt:  mo.CreatedAt,
	}
}

type DocumentFileMapper struct{}

func NewDocumentFileMapper() *DocumentFileMapper {
	return &DocumentFileMapper{}
}

func (m *DocumentFileMapper) ToModel(e *entity.DocumentFile) *model.DocumentFile {
	return &model.DocumentFile{
		Id:          e.Id,
		Filename:    e.Filename,
		Size:        e.Size,
		UploadedAt:  e.UploadedAt,
		ChunksCount: e.ChunksCount,
	}
}

func (m *DocumentFileMapper) ToEntity(mo *model.DocumentFile) *entity.DocumentFile {
	return &entity.DocumentFile{
		Id:          mo.Id,
		Filename:    mo.Filename,
		Size:        mo.Size,
		UploadedAt:  mo.UploadedAt,
		ChunksCount: mo.ChunksCount,
	}
}
