package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	llm_mocks "patient360/internal/llm/mocks"
	"patient360/internal/service"
	"patient360/internal/storage"
	storage_mocks "patient360/internal/storage/mocks"
	"patient360/internal/vectorstore"
	vectorstore_mocks "patient360/internal/vectorstore/mocks"
)

func TestRetrieveContext_PatientNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientRepo := storage_mocks.NewMockPatientStore(ctrl)
	patientRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	engine := NewEngine(patientRepo, nil, nil, nil, nil, nil, nil, "notes", time.Second)

	_, _, err := engine.RetrieveContext(context.Background(), "missing", "potassium", 5, 3)
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("RetrieveContext() error = %v, want service.ErrNotFound", err)
	}
}

func TestRetrieveContext_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientRepo := storage_mocks.NewMockPatientStore(ctrl)
	patientRepo.EXPECT().GetByID(gomock.Any(), "p1").Return(&storage.Patient{ID: "p1"}, nil)

	engine := NewEngine(patientRepo, nil, nil, nil, nil, nil, nil, "notes", time.Second)

	results, method, err := engine.RetrieveContext(context.Background(), "p1", "   ", 5, 3)
	if err != nil {
		t.Fatalf("RetrieveContext() unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("RetrieveContext() returned %d results for empty query, want 0", len(results))
	}
	if method != MethodKeyword {
		t.Errorf("RetrieveContext() method = %s, want %s", method, MethodKeyword)
	}
}

func TestRetrieveContext_KeywordMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientRepo := storage_mocks.NewMockPatientStore(ctrl)
	noteRepo := storage_mocks.NewMockNoteStore(ctrl)
	observationRepo := storage_mocks.NewMockObservationStore(ctrl)
	medicationRepo := storage_mocks.NewMockMedicationStore(ctrl)

	patientRepo.EXPECT().GetByID(gomock.Any(), "p1").Return(&storage.Patient{ID: "p1"}, nil)

	noteDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	noteRepo.EXPECT().ListRedactedByPatient(gomock.Any(), "p1").Return([]storage.RedactedNote{
		{NoteID: "n1", PatientID: "p1", RedactedText: "Started lisinopril. Potassium low at 3.1.", CreatedAt: noteDate},
		{NoteID: "n2", PatientID: "p1", RedactedText: "Routine visit, no complaints.", CreatedAt: noteDate},
	}, nil)

	value := 3.1
	observationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return([]storage.Observation{
		{ID: "o1", PatientID: "p1", Code: "2823-3", Display: "Potassium", ValueNum: &value, Unit: "mmol/L",
			ObservedAt: time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)},
	}, nil)

	medicationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return([]storage.Medication{
		{ID: "m1", PatientID: "p1", Name: "Lisinopril", Dose: "10mg", Frequency: "daily", Status: "active"},
		{ID: "m2", PatientID: "p1", Name: "Metformin", Dose: "500mg", Frequency: "bid", Status: "active"},
	}, nil)

	engine := NewEngine(patientRepo, noteRepo, observationRepo, medicationRepo, nil, nil, nil, "notes", time.Second)

	results, method, err := engine.RetrieveContext(context.Background(), "p1", "potassium low lisinopril", 5, 3)
	if err != nil {
		t.Fatalf("RetrieveContext() unexpected error: %v", err)
	}
	if method != MethodKeyword {
		t.Errorf("method = %s, want %s", method, MethodKeyword)
	}

	// The matching note hits all three terms, the lab and med hit one each.
	// Score ties break by type precedence: lab before med.
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].SourceID != "n1" || results[0].SourceType != SourceNote {
		t.Errorf("results[0] = %s/%s, want note/n1", results[0].SourceType, results[0].SourceID)
	}
	if results[1].SourceID != "o1" || results[1].SourceType != SourceLab {
		t.Errorf("results[1] = %s/%s, want lab/o1", results[1].SourceType, results[1].SourceID)
	}
	if results[2].SourceID != "m1" || results[2].SourceType != SourceMedication {
		t.Errorf("results[2] = %s/%s, want med/m1", results[2].SourceType, results[2].SourceID)
	}

	if results[0].Label != "Note 2025-03-10" {
		t.Errorf("note label = %q, want %q", results[0].Label, "Note 2025-03-10")
	}
	if results[1].Label != "Potassium (2025-03-11)" {
		t.Errorf("lab label = %q, want %q", results[1].Label, "Potassium (2025-03-11)")
	}
	if results[1].Snippet != "3.1 mmol/L" {
		t.Errorf("lab snippet = %q, want %q", results[1].Snippet, "3.1 mmol/L")
	}
	if results[2].Label != "Lisinopril 10mg" {
		t.Errorf("med label = %q, want %q", results[2].Label, "Lisinopril 10mg")
	}
	if results[2].Snippet != "Lisinopril 10mg daily - Status: active" {
		t.Errorf("med snippet = %q, want %q", results[2].Snippet, "Lisinopril 10mg daily - Status: active")
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score: %f > %f at %d", results[i].Score, results[i-1].Score, i)
		}
	}
}

func TestRetrieveContext_VectorMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientRepo := storage_mocks.NewMockPatientStore(ctrl)
	noteRepo := storage_mocks.NewMockNoteStore(ctrl)
	observationRepo := storage_mocks.NewMockObservationStore(ctrl)
	medicationRepo := storage_mocks.NewMockMedicationStore(ctrl)
	embedder := llm_mocks.NewMockEmbedder(ctrl)
	vectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	patientRepo.EXPECT().GetByID(gomock.Any(), "p1").Return(&storage.Patient{ID: "p1"}, nil)

	queryVec := []float32{0.1, 0.2, 0.3}
	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"potassium"}).Return([][]float32{queryVec}, nil)

	vectorStore.EXPECT().
		Search(gomock.Any(), "notes", queryVec, 15, map[string]any{"patient_id": "p1"}).
		Return([]vectorstore.SearchResult{
			{PointID: "n1", Score: 0.91, Meta: map[string]any{"note_type": "progress", "author": "Dr. Lee"}},
			{PointID: "n2", Score: -0.1},
		}, nil)

	noteDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	noteRepo.EXPECT().GetRedacted(gomock.Any(), "n1").Return(&storage.RedactedNote{
		NoteID: "n1", PatientID: "p1", RedactedText: "Potassium trending low.", CreatedAt: noteDate,
	}, nil)

	observationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return(nil, nil)
	medicationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return(nil, nil)

	engine := NewEngine(patientRepo, noteRepo, observationRepo, medicationRepo, embedder, nil, vectorStore, "notes", time.Second)

	results, method, err := engine.RetrieveContext(context.Background(), "p1", "potassium", 5, 3)
	if err != nil {
		t.Fatalf("RetrieveContext() unexpected error: %v", err)
	}
	if method != MethodVector {
		t.Errorf("method = %s, want %s", method, MethodVector)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (non-positive scores are dropped)", len(results))
	}
	if results[0].SourceID != "n1" || results[0].Score != 0.91 {
		t.Errorf("results[0] = %s score %f, want n1 score 0.91", results[0].SourceID, results[0].Score)
	}
	if results[0].Metadata["note_type"] != "progress" || results[0].Metadata["author"] != "Dr. Lee" {
		t.Errorf("vector note metadata not carried: %v", results[0].Metadata)
	}
}

func TestRetrieveContext_EmbeddingFailureFallsBackToKeyword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientRepo := storage_mocks.NewMockPatientStore(ctrl)
	noteRepo := storage_mocks.NewMockNoteStore(ctrl)
	observationRepo := storage_mocks.NewMockObservationStore(ctrl)
	medicationRepo := storage_mocks.NewMockMedicationStore(ctrl)
	embedder := llm_mocks.NewMockEmbedder(ctrl)
	vectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	patientRepo.EXPECT().GetByID(gomock.Any(), "p1").Return(&storage.Patient{ID: "p1"}, nil)
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return(nil, errors.New("endpoint down"))

	noteRepo.EXPECT().ListRedactedByPatient(gomock.Any(), "p1").Return([]storage.RedactedNote{
		{NoteID: "n1", PatientID: "p1", RedactedText: "Potassium low."},
	}, nil)
	observationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return(nil, nil)
	medicationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return(nil, nil)

	engine := NewEngine(patientRepo, noteRepo, observationRepo, medicationRepo, embedder, nil, vectorStore, "notes", time.Second)

	results, method, err := engine.RetrieveContext(context.Background(), "p1", "potassium", 5, 3)
	if err != nil {
		t.Fatalf("RetrieveContext() unexpected error: %v", err)
	}
	if method != MethodKeyword {
		t.Errorf("method = %s, want %s after embedding failure", method, MethodKeyword)
	}
	if len(results) != 1 || results[0].SourceID != "n1" {
		t.Errorf("expected the keyword-scored note, got %v", results)
	}
}

func TestRetrieveContext_NoEmbeddedNotesFallsBackToKeyword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientRepo := storage_mocks.NewMockPatientStore(ctrl)
	noteRepo := storage_mocks.NewMockNoteStore(ctrl)
	observationRepo := storage_mocks.NewMockObservationStore(ctrl)
	medicationRepo := storage_mocks.NewMockMedicationStore(ctrl)
	embedder := llm_mocks.NewMockEmbedder(ctrl)
	vectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	patientRepo.EXPECT().GetByID(gomock.Any(), "p1").Return(&storage.Patient{ID: "p1"}, nil)
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.1}}, nil)
	vectorStore.EXPECT().Search(gomock.Any(), "notes", gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorstore.SearchResult{}, nil)

	noteRepo.EXPECT().ListRedactedByPatient(gomock.Any(), "p1").Return(nil, nil)
	observationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return(nil, nil)
	medicationRepo.EXPECT().ListByPatient(gomock.Any(), "p1").Return(nil, nil)

	engine := NewEngine(patientRepo, noteRepo, observationRepo, medicationRepo, embedder, nil, vectorStore, "notes", time.Second)

	_, method, err := engine.RetrieveContext(context.Background(), "p1", "potassium", 5, 3)
	if err != nil {
		t.Fatalf("RetrieveContext() unexpected error: %v", err)
	}
	if method != MethodKeyword {
		t.Errorf("method = %s, want %s when the index holds no notes for the patient", method, MethodKeyword)
	}
}
