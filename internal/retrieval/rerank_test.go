package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"patient360/internal/llm"
	llm_mocks "patient360/internal/llm/mocks"
)

func rerankTestCandidates() []Candidate {
	return []Candidate{
		{SourceType: SourceNote, SourceID: "a", Snippet: "note a", Score: 0.9},
		{SourceType: SourceNote, SourceID: "b", Snippet: "note b", Score: 0.8},
		{SourceType: SourceLab, SourceID: "c", Snippet: "lab c", Score: 0.7},
	}
}

func TestRerankStage_NoRerankerKeepsStage1Order(t *testing.T) {
	engine := NewEngine(nil, nil, nil, nil, nil, nil, nil, "notes", time.Second)

	results := engine.rerankStage(context.Background(), "q", rerankTestCandidates(), 2, 3)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].SourceID != "a" || results[1].SourceID != "b" {
		t.Errorf("stage-1 order not kept: got %s, %s", results[0].SourceID, results[1].SourceID)
	}
}

func TestRerankStage_ReordersByRerankerPositions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reranker := llm_mocks.NewMockReranker(ctrl)
	reranker.EXPECT().Rank(gomock.Any(), "q", gomock.Any()).Return([]llm.Ranking{
		{ID: "lab:c", Position: 0, Score: 0.95},
		{ID: "note:a", Position: 1, Score: 0.40},
	}, nil)

	engine := NewEngine(nil, nil, nil, nil, nil, reranker, nil, "notes", time.Second)

	results := engine.rerankStage(context.Background(), "q", rerankTestCandidates(), 3, 3)

	wantIDs := []string{"c", "a", "b"}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range wantIDs {
		if results[i].SourceID != want {
			t.Errorf("results[%d].SourceID = %s, want %s", i, results[i].SourceID, want)
		}
	}

	// Ranked candidates carry the reranker score; unranked ones keep stage-1.
	if results[0].Score != 0.95 {
		t.Errorf("ranked result score = %f, want 0.95", results[0].Score)
	}
	if results[1].Score != 0.40 {
		t.Errorf("ranked result score = %f, want 0.40", results[1].Score)
	}
	if results[2].Score != 0.8 {
		t.Errorf("unranked result score = %f, want stage-1 score 0.8", results[2].Score)
	}
}

func TestRerankStage_FailureFallsBackToStage1(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reranker := llm_mocks.NewMockReranker(ctrl)
	reranker.EXPECT().Rank(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("rerank down"))

	engine := NewEngine(nil, nil, nil, nil, nil, reranker, nil, "notes", time.Second)

	results := engine.rerankStage(context.Background(), "q", rerankTestCandidates(), 3, 3)

	wantIDs := []string{"a", "b", "c"}
	for i, want := range wantIDs {
		if results[i].SourceID != want {
			t.Errorf("results[%d].SourceID = %s, want %s (stage-1 order)", i, results[i].SourceID, want)
		}
	}
}

func TestRerankStage_PoolLimitsDocumentsSubmitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var submitted []llm.Document
	reranker := llm_mocks.NewMockReranker(ctrl)
	reranker.EXPECT().Rank(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, docs []llm.Document) ([]llm.Ranking, error) {
			submitted = docs
			return nil, nil
		})

	engine := NewEngine(nil, nil, nil, nil, nil, reranker, nil, "notes", time.Second)

	engine.rerankStage(context.Background(), "q", rerankTestCandidates(), 1, 2)

	if len(submitted) != 2 {
		t.Fatalf("submitted %d documents, want k*multiplier = 2", len(submitted))
	}
	if submitted[0].ID != "note:a" || submitted[1].ID != "note:b" {
		t.Errorf("pool not taken from the top of the stage-1 order: %v", submitted)
	}
}

func TestRerankStage_EmptyCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The reranker must not be called with an empty pool.
	reranker := llm_mocks.NewMockReranker(ctrl)

	engine := NewEngine(nil, nil, nil, nil, nil, reranker, nil, "notes", time.Second)

	results := engine.rerankStage(context.Background(), "q", nil, 5, 3)
	if len(results) != 0 {
		t.Errorf("got %d results for empty candidates, want 0", len(results))
	}
}
