package implementation

import (
	"context"
	"fmt"

	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/mapper"
	"doc-chat-be/internal/model"
	"doc-chat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkStoreImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkStore(db *gorm.DB) contract.ChunkStore {
	return &DocumentChunkStoreImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkStoreImpl) Ready(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = ?)",
			model.DocumentChunk{}.TableName()).
		Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("check chunk table: %w", err)
	}
	return exists, nil
}

// Setup creates the vector extension and the chunk table. The vector width is
// fixed at creation time from the configured embedding model, so the table is
// built with raw DDL instead of AutoMigrate.
func (r *DocumentChunkStoreImpl) Setup(ctx context.Context, dimension int) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		file_id text NOT NULL,
		filename text NOT NULL,
		chunk_index int DEFAULT 0,
		text text,
		embedding vector(%d),
		created_at timestamptz DEFAULT now()
	)`, model.DocumentChunk{}.TableName(), dimension)
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create chunk table: %w", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_document_chunks_file_id ON document_chunks (file_id)").Error; err != nil {
		return fmt.Errorf("create file_id index: %w", err)
	}

	return nil
}

func (r *DocumentChunkStoreImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentChunkStoreImpl) DeleteByFileId(ctx context.Context, fileId string) error {
	return r.db.WithContext(ctx).Where("file_id = ?", fileId).Delete(&model.DocumentChunk{}).Error
}

// SearchSimilar uses pgvector cosine distance. Cosine distance is
// 1 - cosine_similarity, so the similarity reported back is 1 - (a <=> b).
func (r *DocumentChunkStoreImpl) SearchSimilar(ctx context.Context, vector []float32, fileIds []string, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	query := r.db.WithContext(ctx).
		Table(model.DocumentChunk{}.TableName()).
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector)

	if len(fileIds) > 0 {
		query = query.Where("file_id IN ?", fileIds)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.DocumentChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
