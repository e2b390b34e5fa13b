package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doc-chat-be/internal/config"
	"doc-chat-be/internal/dto"
	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/internal/repository/contract"
	"doc-chat-be/pkg/rag/index"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFileService interface {
	Upload(ctx context.Context, filename string, content []byte) (*dto.FileUploadResponse, error)
	List(ctx context.Context) (*dto.FileListResponse, error)
	Delete(ctx context.Context, fileId string) (*dto.FileDeleteResponse, error)
}

type fileService struct {
	cfg              *config.Config
	fileRepo         contract.FileMetadataRepository
	indexManager     *index.Manager
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewFileService(
	cfg *config.Config,
	fileRepo contract.FileMetadataRepository,
	indexManager *index.Manager,
	publisherService IPublisherService,
	log logger.ILogger,
) IFileService {
	return &fileService{
		cfg:              cfg,
		fileRepo:         fileRepo,
		indexManager:     indexManager,
		publisherService: publisherService,
		logger:           log,
	}
}

func (fs *fileService) Upload(ctx context.Context, filename string, content []byte) (*dto.FileUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !fs.extAllowed(ext) {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("File type %q is not supported, allowed: %s", ext, strings.Join(fs.cfg.Upload.AllowedExts, ", ")))
	}

	if len(content) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File is empty")
	}
	if len(content) > fs.cfg.Upload.MaxSize {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte limit", fs.cfg.Upload.MaxSize))
	}

	fileId := uuid.NewString()

	if err := os.MkdirAll(fs.cfg.Upload.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	storedPath := filepath.Join(fs.cfg.Upload.Dir, fileId+ext)
	if err := os.WriteFile(storedPath, content, 0644); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	file := &entity.DocumentFile{
		Id:         fileId,
		Filename:   filename,
		Size:       int64(len(content)),
		UploadedAt: time.Now(),
	}
	if err := fs.fileRepo.Create(ctx, file); err != nil {
		_ = os.Remove(storedPath)
		return nil, fmt.Errorf("save file metadata: %w", err)
	}

	event := dto.FileEmbedEvent{
		FileId:   fileId,
		Filename: filename,
		Path:     storedPath,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal embed event: %w", err)
	}
	if err := fs.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("publish embed event: %w", err)
	}

	fs.logger.Info("file", "File uploaded", map[string]interface{}{
		"file_id":  fileId,
		"filename": filename,
		"size":     file.Size,
	})

	return &dto.FileUploadResponse{
		FileId:   fileId,
		Filename: filename,
		Size:     file.Size,
		Message:  "File uploaded, embedding in progress",
	}, nil
}

func (fs *fileService) List(ctx context.Context) (*dto.FileListResponse, error) {
	files, err := fs.fileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.FileInfoDTO, 0, len(files))
	for _, f := range files {
		infos = append(infos, dto.FileInfoDTO{
			FileId:      f.Id,
			Filename:    f.Filename,
			Size:        f.Size,
			UploadedAt:  f.UploadedAt,
			ChunksCount: f.ChunksCount,
		})
	}

	return &dto.FileListResponse{Files: infos}, nil
}

func (fs *fileService) Delete(ctx context.Context, fileId string) (*dto.FileDeleteResponse, error) {
	file, err := fs.fileRepo.FindById(ctx, fileId)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "File not found")
	}

	// Vectors first; if this fails, metadata still points at the file and the
	// delete can be retried.
	if err := fs.indexManager.DeleteByFileId(ctx, fileId); err != nil && err != index.ErrNotReady {
		return nil, fmt.Errorf("delete vectors: %w", err)
	}

	if err := fs.fileRepo.Delete(ctx, fileId); err != nil {
		return nil, fmt.Errorf("delete file metadata: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	storedPath := filepath.Join(fs.cfg.Upload.Dir, fileId+ext)
	if err := os.Remove(storedPath); err != nil && !os.IsNotExist(err) {
		fs.logger.Warn("file", "Failed to remove stored upload", map[string]interface{}{
			"file_id": fileId,
			"error":   err.Error(),
		})
	}

	fs.logger.Info("file", "File deleted", map[string]interface{}{
		"file_id": fileId,
	})

	return &dto.FileDeleteResponse{
		FileId:  fileId,
		Message: "File deleted",
	}, nil
}

func (fs *fileService) extAllowed(ext string) bool {
	for _, allowed := range fs.cfg.Upload.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
