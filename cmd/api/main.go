package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"patient360/internal/answer"
	"patient360/internal/config"
	"patient360/internal/deid"
	"patient360/internal/http"
	"patient360/internal/ingest"
	"patient360/internal/llm"
	"patient360/internal/retrieval"
	"patient360/internal/storage"
	"patient360/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	patientRepo := storage.NewPatientRepo(db)
	encounterRepo := storage.NewEncounterRepo(db)
	noteRepo := storage.NewNoteRepo(db)
	observationRepo := storage.NewObservationRepo(db)
	medicationRepo := storage.NewMedicationRepo(db)

	ctx := context.Background()

	// External capabilities are optional: a nil client selects the documented
	// fallback (sentinel redaction, keyword scoring, stage-1 order, template
	// answers) in every consumer.
	var redactor deid.Redactor
	if cfg.HasDeid() {
		redactor = deid.NewClient(cfg.DeidEndpoint, cfg.DeidAPIKey)
		slog.Info("De-identification client configured", "endpoint", cfg.DeidEndpoint)
	} else {
		slog.Warn("De-identification not configured; notes will store the sentinel redaction")
	}

	var embedder llm.Embedder
	var vectorStore vectorstore.VectorStore
	if cfg.HasEmbedding() {
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
		vectorStore = qdrantStore
	} else {
		slog.Warn("Embeddings not configured; retrieval will use keyword scoring")
	}

	var reranker llm.Reranker
	if cfg.HasRerank() {
		reranker = llm.NewRerankClient(cfg.RerankBaseURL, cfg.RerankAPIKey, cfg.RerankModelName)
		slog.Info("Rerank client configured", "model", cfg.RerankModelName)
	}

	var completer llm.Completer
	if cfg.HasLLM() {
		completer = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
		slog.Info("Chat client configured", "model", cfg.LLMModelName)
	} else {
		slog.Warn("Chat not configured; answers will use the template fallback")
	}

	// Create ingestion pipeline
	pipeline := ingest.NewPipeline(
		patientRepo,
		encounterRepo,
		noteRepo,
		redactor,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.DeidLanguage,
		cfg.CapabilityTimeout,
	)

	// Create retrieval engine
	engine := retrieval.NewEngine(
		patientRepo,
		noteRepo,
		observationRepo,
		medicationRepo,
		embedder,
		reranker,
		vectorStore,
		cfg.QdrantCollection,
		cfg.CapabilityTimeout,
	)
	slog.Info("Retrieval engine initialized")

	generator := answer.NewGenerator(completer, cfg.LLMModelName, cfg.CapabilityTimeout)

	deps := &http.Deps{
		PatientRepo: patientRepo,
		Pipeline:    pipeline,
		Engine:      engine,
		Generator:   generator,
		Capabilities: map[string]bool{
			"deid":      cfg.HasDeid(),
			"embedding": cfg.HasEmbedding(),
			"rerank":    cfg.HasRerank(),
			"llm":       cfg.HasLLM(),
		},
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
