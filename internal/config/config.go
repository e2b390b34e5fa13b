package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Memory   MemoryConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	EmbeddingTopic     string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider    string // "openai" or "ollama"
	LLMModel       string
	LLMBaseURL     string
	LLMApiKey      string
	EmbedProvider  string // "openai" or "ollama"
	EmbedModel     string
	EmbedBaseURL   string
	EmbedApiKey    string
	MaxAgentTurns  int
	RetrievalTopK  int
}

type MemoryConfig struct {
	ApiKey      string
	BaseURL     string
	SearchLimit int
}

type UploadConfig struct {
	Dir         string
	MaxSize     int // bytes
	AllowedExts []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			EmbeddingTopic:     getEnv("EMBEDDING_TOPIC", "file.embed"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "qwen2.5"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
			LLMApiKey:     getEnv("LLM_API_KEY", ""),
			EmbedProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbedModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbedBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
			EmbedApiKey:   getEnv("EMBEDDING_API_KEY", ""),
			MaxAgentTurns: getEnvAsInt("MAX_AGENT_TURNS", 8),
			RetrievalTopK: getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
		Memory: MemoryConfig{
			ApiKey:      getEnv("MEM0_API_KEY", ""),
			BaseURL:     getEnv("MEM0_BASE_URL", "https://api.mem0.ai"),
			SearchLimit: getEnvAsInt("MEM0_SEARCH_LIMIT", 5),
		},
		Upload: UploadConfig{
			Dir:         getEnv("UPLOAD_DIR", "uploads"),
			MaxSize:     getEnvAsInt("UPLOAD_MAX_SIZE", 10*1024*1024),
			AllowedExts: []string{".txt", ".md"},
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
