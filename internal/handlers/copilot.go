package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"patient360/internal/answer"
	"patient360/internal/contextutil"
	"patient360/internal/retrieval"
	"patient360/internal/service"
	"patient360/internal/storage"
)

// CopilotHandler handles HTTP requests for grounded clinical questions.
type CopilotHandler struct {
	patientRepo storage.PatientStore
	engine      *retrieval.Engine
	generator   *answer.Generator
}

// NewCopilotHandler creates a new CopilotHandler.
func NewCopilotHandler(patientRepo storage.PatientStore, engine *retrieval.Engine, generator *answer.Generator) *CopilotHandler {
	return &CopilotHandler{
		patientRepo: patientRepo,
		engine:      engine,
		generator:   generator,
	}
}

// CopilotRequest represents the HTTP request payload for copilot questions.
type CopilotRequest struct {
	Question            string `json:"question"`
	MaxSources          int    `json:"max_sources,omitempty"`
	CandidateMultiplier int    `json:"candidate_multiplier,omitempty"`
}

// CopilotResponse represents the HTTP response payload for copilot questions.
// The sources entries carry the retrieval result shape the answer step cites.
type CopilotResponse struct {
	Answer          string             `json:"answer"`
	AnswerHTML      string             `json:"answer_html,omitempty"`
	NextActions     []string           `json:"next_actions"`
	Sources         []retrieval.Result `json:"sources"`
	ModelUsed       string             `json:"model_used,omitempty"`
	RetrievalMethod string             `json:"retrieval_method"`
}

// ServeHTTP answers a clinical question about a patient: retrieve relevant
// evidence, then generate a grounded answer with citations.
func (h *CopilotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	patientID := chi.URLParam(r, "patientID")

	var req CopilotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	patient, err := h.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			handleServiceError(w, ctx, service.WrapError(service.ErrNotFound, "patient "+patientID), "Failed to load patient")
			return
		}
		handleServiceError(w, ctx, err, "Failed to load patient")
		return
	}

	sources, method, err := h.engine.RetrieveContext(ctx, patientID, req.Question, req.MaxSources, req.CandidateMultiplier)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to retrieve context")
		return
	}

	generated := h.generator.Generate(ctx, req.Question, patient.DisplayName, sources)

	resp := CopilotResponse{
		Answer:          generated.Text,
		NextActions:     generated.NextActions,
		Sources:         sources,
		ModelUsed:       generated.ModelUsed,
		RetrievalMethod: method,
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		html, err := answer.RenderHTML(generated.Text)
		if err != nil {
			logger.WarnContext(ctx, "failed to render answer html", "error", err)
		} else {
			resp.AnswerHTML = html
		}
	}

	logger.InfoContext(ctx, "copilot answered question",
		"patient_id", patientID,
		"sources", len(sources),
		"retrieval_method", method,
	)

	writeJSON(w, http.StatusOK, resp)
}
