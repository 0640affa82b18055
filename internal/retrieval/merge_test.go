package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMergeOrdering(t *testing.T) {
	candidates := []Candidate{
		{SourceType: SourceMedication, SourceID: "med-1", Score: 0.5},
		{SourceType: SourceNote, SourceID: "note-1", Score: 0.9},
		{SourceType: SourceLab, SourceID: "lab-1", Score: 0.5},
		{SourceType: SourceNote, SourceID: "note-2", Score: 0.5},
	}

	results := Merge(candidates, 10)

	wantIDs := []string{"note-1", "note-2", "lab-1", "med-1"}
	if len(results) != len(wantIDs) {
		t.Fatalf("Merge() returned %d results, want %d", len(results), len(wantIDs))
	}
	for i, want := range wantIDs {
		if results[i].SourceID != want {
			t.Errorf("results[%d].SourceID = %s, want %s", i, results[i].SourceID, want)
		}
	}
}

func TestMergeScoreTieBrokenBySourceID(t *testing.T) {
	candidates := []Candidate{
		{SourceType: SourceNote, SourceID: "note-b", Score: 0.5},
		{SourceType: SourceNote, SourceID: "note-a", Score: 0.5},
	}

	results := Merge(candidates, 10)

	if results[0].SourceID != "note-a" || results[1].SourceID != "note-b" {
		t.Errorf("equal-score notes not ordered by id: got %s, %s", results[0].SourceID, results[1].SourceID)
	}
}

func TestMergeTruncatesToK(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, Candidate{
			SourceType: SourceNote,
			SourceID:   string(rune('a' + i)),
			Score:      float64(i),
		})
	}

	results := Merge(candidates, 3)

	if len(results) != 3 {
		t.Fatalf("Merge() returned %d results, want 3", len(results))
	}
	if results[0].Score != 9 {
		t.Errorf("top result score = %f, want 9", results[0].Score)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{
		{SourceType: SourceNote, SourceID: "note-1", Score: 0.1},
		{SourceType: SourceNote, SourceID: "note-2", Score: 0.9},
	}

	Merge(candidates, 10)

	if candidates[0].SourceID != "note-1" {
		t.Error("Merge() mutated the input slice")
	}
}

func TestMergeCapsSnippets(t *testing.T) {
	long := strings.Repeat("x", 1000)
	results := Merge([]Candidate{
		{SourceType: SourceNote, SourceID: "note-1", Snippet: long, Score: 1},
	}, 1)

	if len(results[0].Snippet) != outputSnippetLimit {
		t.Errorf("snippet length = %d, want %d", len(results[0].Snippet), outputSnippetLimit)
	}
}

func TestTruncateSnippet(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		limit int
		want  string
	}{
		{
			name:  "short string unchanged",
			s:     "hello",
			limit: 10,
			want:  "hello",
		},
		{
			name:  "exact length unchanged",
			s:     "hello",
			limit: 5,
			want:  "hello",
		},
		{
			name:  "ascii truncation",
			s:     "hello world",
			limit: 5,
			want:  "hello",
		},
		{
			name:  "zero limit unchanged",
			s:     "hello",
			limit: 0,
			want:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateSnippet(tt.s, tt.limit); got != tt.want {
				t.Errorf("truncateSnippet(%q, %d) = %q, want %q", tt.s, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncateSnippetNeverSplitsRune(t *testing.T) {
	s := strings.Repeat("é", 100) // 2 bytes per rune
	for limit := 1; limit < 20; limit++ {
		got := truncateSnippet(s, limit)
		if !utf8.ValidString(got) {
			t.Fatalf("truncateSnippet produced invalid UTF-8 at limit %d: %q", limit, got)
		}
		if len(got) > limit {
			t.Fatalf("truncateSnippet exceeded limit %d: got %d bytes", limit, len(got))
		}
	}
}
