// Package ingest implements the note ingestion pipeline: persist the raw
// PHI-bearing note, de-identify it, embed the redacted text, and store the
// redacted record so it becomes retrievable.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"patient360/internal/contextutil"
	"patient360/internal/deid"
	"patient360/internal/llm"
	"patient360/internal/service"
	"patient360/internal/storage"
	"patient360/internal/vectorstore"
)

// RedactionUnavailableText is stored as the redacted text when the
// de-identification capability fails or is unconfigured. The raw text is never
// substituted: a note whose redaction status is unknown must not leak into the
// searchable store.
const RedactionUnavailableText = "[redaction unavailable]"

// Request holds the inputs for ingesting one clinical note.
type Request struct {
	PatientID   string
	EncounterID string // Optional
	RawText     string
	NoteType    string
	Author      string
}

// Result holds the outputs of a successful ingestion.
type Result struct {
	NoteID         string
	PHIEntityCount int
	Embedded       bool
}

// Pipeline orchestrates the de-identification and embedding of clinical notes.
//
// The redactor, embedder, and vector store are optional: a nil capability (or a
// failing one) degrades that step without failing the ingestion. Only the raw
// note persist and the referential checks can fail the call.
type Pipeline struct {
	patientRepo   storage.PatientStore
	encounterRepo storage.EncounterStore
	noteRepo      storage.NoteStore
	redactor      deid.Redactor
	embedder      llm.Embedder
	vectorStore   vectorstore.VectorStore
	collection    string
	language      string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
// timeout bounds each external capability call (redaction, embedding, vector upsert).
func NewPipeline(
	patientRepo storage.PatientStore,
	encounterRepo storage.EncounterStore,
	noteRepo storage.NoteStore,
	redactor deid.Redactor,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	language string,
	timeout time.Duration,
) *Pipeline {
	if language == "" {
		language = "en"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pipeline{
		patientRepo:   patientRepo,
		encounterRepo: encounterRepo,
		noteRepo:      noteRepo,
		redactor:      redactor,
		embedder:      embedder,
		vectorStore:   vectorStore,
		collection:    collection,
		language:      language,
		timeout:       timeout,
		logger:        slog.Default(),
	}
}

// Ingest runs a single note through the pipeline and returns the new note id.
//
// Returns service.ErrNotFound when the patient does not exist or the encounter
// does not belong to the patient; in that case no row is written. Capability
// failures never fail the call: redaction falls back to the sentinel text with
// an empty entity list, and embedding falls back to no vector.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Referential checks happen before any write.
	if _, err := p.patientRepo.GetByID(ctx, req.PatientID); err != nil {
		if err == storage.ErrNotFound {
			return Result{}, fmt.Errorf("patient %s: %w", req.PatientID, service.ErrNotFound)
		}
		return Result{}, fmt.Errorf("failed to check patient: %w", err)
	}
	if req.EncounterID != "" {
		if _, err := p.encounterRepo.GetForPatient(ctx, req.EncounterID, req.PatientID); err != nil {
			if err == storage.ErrNotFound {
				return Result{}, fmt.Errorf("encounter %s for patient %s: %w", req.EncounterID, req.PatientID, service.ErrNotFound)
			}
			return Result{}, fmt.Errorf("failed to check encounter: %w", err)
		}
	}

	noteID := uuid.New().String()

	// Step 1: persist the raw note. This is the system of record and must not degrade.
	rawNote := &storage.RawNote{
		ID:          noteID,
		PatientID:   req.PatientID,
		EncounterID: req.EncounterID,
		RawText:     req.RawText,
		NoteType:    req.NoteType,
		Author:      req.Author,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.noteRepo.InsertRaw(ctx, rawNote); err != nil {
		return Result{}, fmt.Errorf("failed to persist raw note: %w", err)
	}

	redacted, embedded := p.process(ctx, rawNote)

	if err := p.noteRepo.UpsertRedacted(ctx, redacted); err != nil {
		return Result{}, fmt.Errorf("failed to upsert redacted note: %w", err)
	}

	logger.InfoContext(ctx, "ingested note",
		"note_id", noteID,
		"patient_id", req.PatientID,
		"phi_entities", len(redacted.Entities),
		"embedded", embedded,
	)

	return Result{
		NoteID:         noteID,
		PHIEntityCount: len(redacted.Entities),
		Embedded:       embedded,
	}, nil
}

// Reprocess re-runs redaction and embedding for every raw note of a patient.
// Useful when a capability was unconfigured during the original ingestion.
// Per-note failures are counted, not fatal.
func (p *Pipeline) Reprocess(ctx context.Context, patientID string) (processed, failed int, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := p.patientRepo.GetByID(ctx, patientID); err != nil {
		if err == storage.ErrNotFound {
			return 0, 0, fmt.Errorf("patient %s: %w", patientID, service.ErrNotFound)
		}
		return 0, 0, fmt.Errorf("failed to check patient: %w", err)
	}

	rawNotes, err := p.noteRepo.ListRawByPatient(ctx, patientID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list raw notes: %w", err)
	}

	for i := range rawNotes {
		select {
		case <-ctx.Done():
			return processed, failed, ctx.Err()
		default:
		}

		redacted, _ := p.process(ctx, &rawNotes[i])
		if err := p.noteRepo.UpsertRedacted(ctx, redacted); err != nil {
			failed++
			logger.ErrorContext(ctx, "failed to reprocess note", "note_id", rawNotes[i].ID, "error", err)
			continue
		}
		processed++
	}

	logger.InfoContext(ctx, "reprocessed notes", "patient_id", patientID, "processed", processed, "failed", failed)
	return processed, failed, nil
}

// process runs the fault-tolerant steps (redact, embed, vector upsert) for one
// raw note and returns the redacted record ready to upsert.
func (p *Pipeline) process(ctx context.Context, raw *storage.RawNote) (*storage.RedactedNote, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	// Step 2: de-identify. Failure substitutes the sentinel so the note is still
	// persisted and auditable, just not text-searchable.
	redactedText := RedactionUnavailableText
	var entities []storage.PHIEntity
	if p.redactor != nil {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		result, err := p.redactor.Redact(callCtx, raw.RawText, p.language)
		cancel()
		if err != nil {
			logger.WarnContext(ctx, "redaction unavailable, storing sentinel", "note_id", raw.ID, "error", err)
		} else {
			redactedText = result.RedactedText
			entities = result.Entities
		}
	} else {
		logger.WarnContext(ctx, "redactor not configured, storing sentinel", "note_id", raw.ID)
	}

	// Step 3: embed the redacted text, never the raw text. Failure stores no
	// vector; retrieval falls back to keyword scoring for this note.
	embedded := false
	if p.embedder != nil && p.vectorStore != nil && redactedText != RedactionUnavailableText {
		embedded = p.embed(ctx, raw, redactedText)
	}

	return &storage.RedactedNote{
		NoteID:       raw.ID,
		PatientID:    raw.PatientID,
		EncounterID:  raw.EncounterID,
		RedactedText: redactedText,
		Entities:     entities,
		Embedded:     embedded,
	}, embedded
}

// embed computes the embedding for redacted text and upserts it into the vector
// index with the note id as point id (last-writer-wins on re-ingestion).
func (p *Pipeline) embed(ctx context.Context, raw *storage.RawNote, redactedText string) bool {
	logger := contextutil.LoggerFromContext(ctx)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	vectors, err := p.embedder.EmbedTexts(callCtx, []string{redactedText})
	if err != nil || len(vectors) == 0 {
		logger.WarnContext(ctx, "embedding unavailable, storing null embedding", "note_id", raw.ID, "error", err)
		return false
	}

	point := vectorstore.Point{
		ID:  raw.ID,
		Vec: vectors[0],
		Meta: map[string]any{
			"patient_id":   raw.PatientID,
			"encounter_id": raw.EncounterID,
			"note_type":    raw.NoteType,
			"author":       raw.Author,
			"created_at":   raw.CreatedAt.Format(time.RFC3339),
		},
	}
	if err := p.vectorStore.Upsert(callCtx, p.collection, []vectorstore.Point{point}); err != nil {
		logger.WarnContext(ctx, "vector upsert failed, storing null embedding", "note_id", raw.ID, "error", err)
		return false
	}
	return true
}
