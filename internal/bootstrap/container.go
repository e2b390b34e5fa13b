package bootstrap

import (
	"log"

	"doc-chat-be/internal/config"
	"doc-chat-be/internal/controller"
	"doc-chat-be/internal/model"
	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/internal/repository/implementation"
	memrepo "doc-chat-be/internal/repository/memory"
	"doc-chat-be/internal/service"
	"doc-chat-be/pkg/agent"
	"doc-chat-be/pkg/embedding"
	"doc-chat-be/pkg/llm/factory"
	"doc-chat-be/pkg/memory"
	"doc-chat-be/pkg/memory/mem0"
	"doc-chat-be/pkg/rag/index"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController
	FileController controller.IFileController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	if err := db.AutoMigrate(&model.DocumentFile{}); err != nil {
		log.Fatalf("[FATAL] Failed to migrate document_files: %v", err)
	}

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbedProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.EmbedBaseURL, cfg.Ai.EmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbedModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.EmbedApiKey, cfg.Ai.EmbedBaseURL, cfg.Ai.EmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbedModel)
	}

	// Reasoning engine
	toolProvider, err := factory.NewToolProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vector index: pgvector primary, in-process fallback
	chunkStore := implementation.NewDocumentChunkStore(db)
	fallbackStore := memrepo.NewChunkStore()
	indexManager := index.NewManager(chunkStore, fallbackStore, embeddingProvider, cfg.Ai.EmbedModel, sysLogger)

	fileRepo := implementation.NewFileMetadataRepository(db)

	// Long-term memory. Without an API key the adapter hands out no
	// sessions and conversations rely on client-supplied history.
	var memoryStore memory.Store
	if cfg.Memory.ApiKey != "" {
		memoryStore = mem0.NewClient(cfg.Memory.ApiKey, cfg.Memory.BaseURL, cfg.Memory.SearchLimit)
		log.Printf("[INFO] Long-term memory enabled (mem0)")
	} else {
		log.Printf("[INFO] Long-term memory disabled (no MEM0_API_KEY)")
	}
	memoryAdapter := memory.NewAdapter(memoryStore, sysLogger)

	runner := agent.NewRunner(toolProvider, sysLogger, cfg.Ai.MaxAgentTurns)

	// Services
	publisherService := service.NewPublisherService(cfg.App.EmbeddingTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EmbeddingTopic, indexManager, fileRepo, sysLogger)
	fileService := service.NewFileService(cfg, fileRepo, indexManager, publisherService, sysLogger)
	chatService := service.NewChatService(runner, indexManager, memoryAdapter, cfg.Ai.RetrievalTopK, sysLogger)

	return &Container{
		ChatController:  controller.NewChatController(chatService),
		FileController:  controller.NewFileController(fileService),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
