package implementation

import (
	"context"
	"errors"

	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/mapper"
	"doc-chat-be/internal/model"
	"doc-chat-be/internal/repository/contract"

	"gorm.io/gorm"
)

type FileMetadataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentFileMapper
}

func NewFileMetadataRepository(db *gorm.DB) contract.FileMetadataRepository {
	return &FileMetadataRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentFileMapper(),
	}
}

func (r *FileMetadataRepositoryImpl) Create(ctx context.Context, file *entity.DocumentFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileMetadataRepositoryImpl) UpdateChunksCount(ctx context.Context, fileId string, chunksCount int) error {
	return r.db.WithContext(ctx).
		Model(&model.DocumentFile{}).
		Where("id = ?", fileId).
		Update("chunks_count", chunksCount).Error
}

func (r *FileMetadataRepositoryImpl) Delete(ctx context.Context, fileId string) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentFile{}, "id = ?", fileId).Error
}

func (r *FileMetadataRepositoryImpl) FindById(ctx context.Context, fileId string) (*entity.DocumentFile, error) {
	var m model.DocumentFile
	if err := r.db.WithContext(ctx).First(&m, "id = ?", fileId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FileMetadataRepositoryImpl) FindAll(ctx context.Context) ([]*entity.DocumentFile, error) {
	var models []*model.DocumentFile
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	files := make([]*entity.DocumentFile, len(models))
	for i, m := range models {
		files[i] = r.mapper.ToEntity(m)
	}
	return files, nil
}
