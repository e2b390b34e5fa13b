package service

import (
	"context"
	"encoding/json"
	"os"

	"doc-chat-be/internal/constant"
	"doc-chat-be/internal/dto"
	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/internal/repository/contract"
	"doc-chat-be/pkg/rag/index"
	"doc-chat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the file embedding topic: it reads the stored
// upload, chunks it, embeds each chunk and writes the vectors through the
// index manager.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	indexManager *index.Manager
	fileRepo     contract.FileMetadataRepository
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	indexManager *index.Manager,
	fileRepo contract.FileMetadataRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		indexManager: indexManager,
		fileRepo:     fileRepo,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.FileEmbedEvent
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal embed event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never succeed, do not retry
		return
	}

	cs.logger.Info("consumer", "Processing file embedding", map[string]interface{}{
		"file_id":  payload.FileId,
		"filename": payload.Filename,
	})

	content, err := os.ReadFile(payload.Path)
	if err != nil {
		cs.logger.Error("consumer", "Failed to read uploaded file", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		msg.Ack() // the file was deleted between upload and processing
		return
	}

	if err := cs.indexManager.EnsureReady(ctx); err != nil {
		cs.logger.Error("consumer", "Vector index unavailable", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	pieces := utils.SplitText(string(content), constant.ChunkSize, constant.ChunkOverlap)

	chunks := make([]*entity.DocumentChunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, &entity.DocumentChunk{
			Id:         uuid.New(),
			FileId:     payload.FileId,
			Filename:   payload.Filename,
			ChunkIndex: i,
			Text:       text,
		})
	}

	if err := cs.indexManager.Insert(ctx, chunks); err != nil {
		cs.logger.Error("consumer", "Failed to embed and store chunks", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	if err := cs.fileRepo.UpdateChunksCount(ctx, payload.FileId, len(chunks)); err != nil {
		cs.logger.Error("consumer", "Failed to update chunk count", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		// Vectors are already stored; the stale count is cosmetic.
	}

	cs.logger.Info("consumer", "File embedded", map[string]interface{}{
		"file_id": payload.FileId,
		"chunks":  len(chunks),
	})
	msg.Ack()
}
