package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DocumentChunk rows live in a table created at runtime by the index
// lifecycle manager, because the vector width depends on the configured
// embedding model. The type tag is documentation only; no AutoMigrate.
type DocumentChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileId     string          `gorm:"type:text;not null;index"`
	Filename   string          `gorm:"type:text;not null"`
	ChunkIndex int             `gorm:"default:0"`
	Text       string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
