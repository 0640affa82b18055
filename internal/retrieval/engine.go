// Package retrieval implements the two-stage clinical evidence retrieval
// engine: per-source-type candidate generation (notes, labs, medications)
// followed by optional semantic reranking and a deterministic merge.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"patient360/internal/contextutil"
	"patient360/internal/llm"
	"patient360/internal/service"
	"patient360/internal/storage"
	"patient360/internal/vectorstore"
)

// Engine retrieves ranked, provenance-tagged evidence for a patient question.
//
// Retrieval is stateless and performs no writes, so caller cancellation only
// aborts in-flight external calls. The embedder, vector store, and reranker are
// optional; a nil capability (or a failing one) selects the documented fallback
// for that stage rather than failing the call.
type Engine struct {
	patientRepo     storage.PatientStore
	noteRepo        storage.NoteStore
	observationRepo storage.ObservationStore
	medicationRepo  storage.MedicationStore
	embedder        llm.Embedder
	reranker        llm.Reranker
	vectorStore     vectorstore.VectorStore
	collection      string
	timeout         time.Duration
	logger          *slog.Logger
}

// NewEngine creates a new retrieval engine.
// timeout bounds each external capability call (embedding, vector search, reranking).
func NewEngine(
	patientRepo storage.PatientStore,
	noteRepo storage.NoteStore,
	observationRepo storage.ObservationStore,
	medicationRepo storage.MedicationStore,
	embedder llm.Embedder,
	reranker llm.Reranker,
	vectorStore vectorstore.VectorStore,
	collection string,
	timeout time.Duration,
) *Engine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		patientRepo:     patientRepo,
		noteRepo:        noteRepo,
		observationRepo: observationRepo,
		medicationRepo:  medicationRepo,
		embedder:        embedder,
		reranker:        reranker,
		vectorStore:     vectorStore,
		collection:      collection,
		timeout:         timeout,
		logger:          slog.Default(),
	}
}

// RetrieveContext returns at most k evidence results for the query, ordered by
// descending relevance, along with the note scoring method used ("vector" or
// "keyword").
//
// Returns service.ErrNotFound when the patient does not exist. An empty query
// yields an empty result list, not an error. Candidate generation for the three
// source types runs concurrently since they share no data dependency.
func (e *Engine) RetrieveContext(ctx context.Context, patientID, query string, k, candidateMultiplier int) ([]Result, string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		k = DefaultK
	}
	if candidateMultiplier <= 0 {
		candidateMultiplier = DefaultCandidateMultiplier
	}

	if _, err := e.patientRepo.GetByID(ctx, patientID); err != nil {
		if err == storage.ErrNotFound {
			return nil, "", fmt.Errorf("patient %s: %w", patientID, service.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to check patient: %w", err)
	}

	terms := QueryTerms(query)
	if len(terms) == 0 {
		logger.InfoContext(ctx, "degenerate query, returning no results", "patient_id", patientID)
		return []Result{}, MethodKeyword, nil
	}

	var (
		noteCands, labCands, medCands []Candidate
		method                        = MethodKeyword
	)

	pool := k * candidateMultiplier

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		noteCands, method, err = e.noteCandidates(gctx, patientID, query, terms, pool)
		return err
	})
	g.Go(func() error {
		var err error
		labCands, err = e.observationCandidates(gctx, patientID, terms)
		return err
	})
	g.Go(func() error {
		var err error
		medCands, err = e.medicationCandidates(gctx, patientID, terms)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	candidates := make([]Candidate, 0, len(noteCands)+len(labCands)+len(medCands))
	candidates = append(candidates, noteCands...)
	candidates = append(candidates, labCands...)
	candidates = append(candidates, medCands...)

	results := e.rerankStage(ctx, query, candidates, k, candidateMultiplier)

	logger.InfoContext(ctx, "retrieval completed",
		"patient_id", patientID,
		"candidates", len(candidates),
		"results", len(results),
		"method", method,
	)

	return results, method, nil
}
