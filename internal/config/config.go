package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
//
// The de-identification, embedding, chat, and rerank capabilities are all optional:
// when an endpoint is left empty the corresponding client is not constructed and every
// consumer degrades to its documented fallback (sentinel redaction, keyword scoring,
// template answers, stage-1 ordering).
type Config struct {
	DBPath  string
	APIPort string

	// Azure AI Language style PII detection endpoint (optional).
	DeidEndpoint string
	DeidAPIKey   string
	DeidLanguage string

	// OpenAI-compatible embeddings endpoint (optional).
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string

	// OpenAI-compatible chat endpoint for answer generation (optional).
	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	// Cohere-style rerank endpoint (optional).
	RerankBaseURL   string
	RerankModelName string
	RerankAPIKey    string

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	// CapabilityTimeout bounds every external capability call. A timeout is treated
	// identically to a hard failure and triggers the component's fallback.
	CapabilityTimeout time.Duration

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env file up the tree.
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:             getEnv("DB_PATH", "./data/patient360.db"),
		APIPort:            getEnv("API_PORT", "8000"),
		DeidEndpoint:       getEnv("DEID_ENDPOINT", ""),
		DeidAPIKey:         getEnv("DEID_API_KEY", ""),
		DeidLanguage:       getEnv("DEID_LANGUAGE", "en"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
		LLMModelName:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		RerankBaseURL:      getEnv("RERANK_BASE_URL", ""),
		RerankModelName:    getEnv("RERANK_MODEL", "rerank-v3.5"),
		RerankAPIKey:       getEnv("RERANK_API_KEY", ""),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "notes_phi"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// Parse QDRANT_VECTOR_SIZE. Only required when an embeddings endpoint is configured,
	// since without embeddings the vector index is never written or searched.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr != "" {
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}
	if cfg.EmbeddingBaseURL != "" && cfg.QdrantVectorSize == 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when EMBEDDING_BASE_URL is set")
	}

	// Parse capability timeout (milliseconds).
	timeoutStr := getEnv("CAPABILITY_TIMEOUT_MS", "10000")
	timeoutMs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutMs <= 0 {
		return nil, fmt.Errorf("CAPABILITY_TIMEOUT_MS must be a positive integer")
	}
	cfg.CapabilityTimeout = time.Duration(timeoutMs) * time.Millisecond

	// Parse log level.
	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Create ./data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// HasDeid reports whether a de-identification endpoint is configured.
func (c *Config) HasDeid() bool { return c.DeidEndpoint != "" }

// HasEmbedding reports whether an embeddings endpoint is configured.
func (c *Config) HasEmbedding() bool { return c.EmbeddingBaseURL != "" }

// HasLLM reports whether a chat endpoint is configured.
func (c *Config) HasLLM() bool { return c.LLMBaseURL != "" }

// HasRerank reports whether a rerank endpoint is configured.
func (c *Config) HasRerank() bool { return c.RerankBaseURL != "" }

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
