package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"patient360/internal/contextutil"
	"patient360/internal/ingest"
)

// IngestHandler handles HTTP requests for ingesting clinical notes.
type IngestHandler struct {
	pipeline *ingest.Pipeline
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline *ingest.Pipeline) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestRequest represents the HTTP request payload for note ingestion.
type IngestRequest struct {
	EncounterID string `json:"encounter_id,omitempty"`
	RawText     string `json:"raw_text"`
	NoteType    string `json:"note_type,omitempty"`
	Author      string `json:"author,omitempty"`
}

// IngestResponse represents the HTTP response payload for note ingestion.
type IngestResponse struct {
	NoteID         string `json:"note_id"`
	PatientID      string `json:"patient_id"`
	Message        string `json:"message"`
	PHIEntityCount int    `json:"phi_entity_count"`
}

// ServeHTTP ingests a clinical note through the PHI-safe pipeline.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	patientID := chi.URLParam(r, "patientID")

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RawText == "" {
		logger.WarnContext(ctx, "empty raw_text in request")
		writeError(w, http.StatusBadRequest, "raw_text is required")
		return
	}

	result, err := h.pipeline.Ingest(ctx, ingest.Request{
		PatientID:   patientID,
		EncounterID: req.EncounterID,
		RawText:     req.RawText,
		NoteType:    req.NoteType,
		Author:      req.Author,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to ingest note")
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		NoteID:         result.NoteID,
		PatientID:      patientID,
		Message:        ingestMessage(result.PHIEntityCount),
		PHIEntityCount: result.PHIEntityCount,
	})
}

func ingestMessage(entityCount int) string {
	if entityCount == 0 {
		return "Note ingested successfully."
	}
	if entityCount == 1 {
		return "Note ingested successfully. Detected and redacted 1 PHI entity."
	}
	return fmt.Sprintf("Note ingested successfully. Detected and redacted %d PHI entities.", entityCount)
}

// ReprocessHandler handles HTTP requests for reprocessing a patient's notes
// through the PHI pipeline, for example after a capability was configured late.
type ReprocessHandler struct {
	pipeline *ingest.Pipeline
}

// NewReprocessHandler creates a new ReprocessHandler.
func NewReprocessHandler(pipeline *ingest.Pipeline) *ReprocessHandler {
	return &ReprocessHandler{pipeline: pipeline}
}

// ReprocessResponse represents the HTTP response payload for note reprocessing.
type ReprocessResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

// ServeHTTP reprocesses all raw notes for a patient.
func (h *ReprocessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID := chi.URLParam(r, "patientID")

	processed, failed, err := h.pipeline.Reprocess(ctx, patientID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to reprocess notes")
		return
	}

	writeJSON(w, http.StatusOK, ReprocessResponse{
		Message:   fmt.Sprintf("Reprocessed %d notes", processed),
		Processed: processed,
		Failed:    failed,
	})
}
