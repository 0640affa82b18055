package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"patient360/internal/contextutil"
)

// noteCandidates scores the patient's redacted notes against the query.
//
// The scoring mode is call-scoped: if a query embedding can be computed and the
// vector index holds at least one embedded note for the patient, every note
// candidate in this call is scored by cosine similarity; otherwise every note
// candidate is scored by keyword overlap. The two modes are never mixed within
// one call.
func (e *Engine) noteCandidates(ctx context.Context, patientID, query string, terms []string, pool int) ([]Candidate, string, error) {
	if e.embedder != nil && e.vectorStore != nil {
		candidates, ok := e.vectorNoteCandidates(ctx, patientID, query, pool)
		if ok {
			return candidates, MethodVector, nil
		}
	}

	candidates, err := e.keywordNoteCandidates(ctx, patientID, terms)
	return candidates, MethodKeyword, err
}

// vectorNoteCandidates attempts vector-mode note scoring. The second return
// value reports whether vector mode was usable for this call; false means the
// caller must fall back to keyword mode (embedding failure, index failure, or
// no embedded notes for the patient).
func (e *Engine) vectorNoteCandidates(ctx context.Context, patientID, query string, pool int) ([]Candidate, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.embedder.EmbedTexts(callCtx, []string{query})
	if err != nil || len(vectors) == 0 {
		logger.WarnContext(ctx, "query embedding unavailable, falling back to keyword scoring", "error", err)
		return nil, false
	}

	searchResults, err := e.vectorStore.Search(callCtx, e.collection, vectors[0], pool, map[string]any{
		"patient_id": patientID,
	})
	if err != nil {
		logger.WarnContext(ctx, "vector search failed, falling back to keyword scoring", "error", err)
		return nil, false
	}
	if len(searchResults) == 0 {
		// No embedded notes for this patient; keyword mode covers the rest.
		return nil, false
	}

	candidates := make([]Candidate, 0, len(searchResults))
	for _, result := range searchResults {
		// Only positive cosine similarity counts as relevant.
		if result.Score <= 0 {
			continue
		}

		note, err := e.noteRepo.GetRedacted(ctx, result.PointID)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch redacted note for search hit", "note_id", result.PointID, "error", err)
			continue
		}

		candidates = append(candidates, Candidate{
			SourceType: SourceNote,
			SourceID:   note.NoteID,
			Label:      noteLabel(note.CreatedAt),
			Snippet:    note.RedactedText,
			Score:      float64(result.Score),
			Metadata:   noteMetadata(result.Meta, note.CreatedAt),
		})
	}
	return candidates, true
}

// keywordNoteCandidates scores redacted notes by keyword overlap.
func (e *Engine) keywordNoteCandidates(ctx context.Context, patientID string, terms []string) ([]Candidate, error) {
	notes, err := e.noteRepo.ListRedactedByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redacted notes: %w", err)
	}

	var candidates []Candidate
	for _, note := range notes {
		score := KeywordOverlap(terms, note.RedactedText)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			SourceType: SourceNote,
			SourceID:   note.NoteID,
			Label:      noteLabel(note.CreatedAt),
			Snippet:    note.RedactedText,
			Score:      score,
			Metadata: map[string]any{
				"created_at": note.CreatedAt.Format(time.RFC3339),
			},
		})
	}
	return candidates, nil
}

// observationCandidates scores the patient's observations by keyword overlap
// against display name, value, and code.
func (e *Engine) observationCandidates(ctx context.Context, patientID string, terms []string) ([]Candidate, error) {
	observations, err := e.observationRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}

	var candidates []Candidate
	for _, obs := range observations {
		value := obs.ValueText
		if value == "" && obs.ValueNum != nil {
			value = strconv.FormatFloat(*obs.ValueNum, 'f', -1, 64)
		}

		score := KeywordOverlap(terms, obs.Display, value, obs.Code)
		if score <= 0 {
			continue
		}

		snippet := value
		if obs.Unit != "" {
			snippet = fmt.Sprintf("%s %s", value, obs.Unit)
		}

		candidates = append(candidates, Candidate{
			SourceType: SourceLab,
			SourceID:   obs.ID,
			Label:      fmt.Sprintf("%s (%s)", obs.Display, obs.ObservedAt.Format("2006-01-02")),
			Snippet:    snippet,
			Score:      score,
			Metadata: map[string]any{
				"code":  obs.Code,
				"value": value,
				"unit":  obs.Unit,
			},
		})
	}
	return candidates, nil
}

// medicationCandidates scores the patient's medications by keyword overlap
// against name and reason.
func (e *Engine) medicationCandidates(ctx context.Context, patientID string, terms []string) ([]Candidate, error) {
	medications, err := e.medicationRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	var candidates []Candidate
	for _, med := range medications {
		score := KeywordOverlap(terms, med.Name, med.Reason)
		if score <= 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			SourceType: SourceMedication,
			SourceID:   med.ID,
			Label:      fmt.Sprintf("%s %s", med.Name, med.Dose),
			Snippet:    fmt.Sprintf("%s %s %s - Status: %s", med.Name, med.Dose, med.Frequency, med.Status),
			Score:      score,
			Metadata: map[string]any{
				"dose":      med.Dose,
				"frequency": med.Frequency,
				"status":    med.Status,
				"reason":    med.Reason,
			},
		})
	}
	return candidates, nil
}

// noteLabel formats the human label for a note candidate.
func noteLabel(createdAt time.Time) string {
	if createdAt.IsZero() {
		return "Note"
	}
	return "Note " + createdAt.Format("2006-01-02")
}

// noteMetadata builds the metadata bag for a vector-mode note candidate from
// the search hit payload.
func noteMetadata(meta map[string]any, createdAt time.Time) map[string]any {
	out := map[string]any{
		"created_at": createdAt.Format(time.RFC3339),
	}
	if noteType, ok := meta["note_type"].(string); ok && noteType != "" {
		out["note_type"] = noteType
	}
	if author, ok := meta["author"].(string); ok && author != "" {
		out["author"] = author
	}
	return out
}
