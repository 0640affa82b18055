package retrieval

import (
	"context"
	"sort"

	"patient360/internal/contextutil"
	"patient360/internal/llm"
)

// rerankPositionSentinel sorts candidates the reranker did not rank after all
// ranked ones while preserving their stage-1 relative order by score.
const rerankPositionSentinel = 1 << 30

// rerankStage runs the optional second retrieval stage.
//
// With no reranker configured it returns the stage-1 ordering truncated to k.
// Otherwise it submits the top k*multiplier candidates (snippets capped at the
// rerank limit) and reorders them by the returned positions; candidates the
// reranker did not rank fall back to their stage-1 score and sort after ranked
// ones. A reranker failure mid-call falls back to stage-1 ordering for the
// whole call; reranking must never fail the retrieval.
func (e *Engine) rerankStage(ctx context.Context, query string, candidates []Candidate, k, multiplier int) []Result {
	logger := contextutil.LoggerFromContext(ctx)

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sortStage1(ordered)

	if e.reranker == nil {
		return toResults(ordered, k)
	}

	poolSize := k * multiplier
	if len(ordered) > poolSize {
		ordered = ordered[:poolSize]
	}
	if len(ordered) == 0 {
		return toResults(ordered, k)
	}

	docs := make([]llm.Document, len(ordered))
	for i, c := range ordered {
		docs[i] = llm.Document{
			ID:   candidateKey(c),
			Text: truncateSnippet(c.Snippet, rerankSnippetLimit),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rankings, err := e.reranker.Rank(callCtx, query, docs)
	if err != nil {
		logger.WarnContext(ctx, "reranking failed, keeping stage-1 order", "error", err)
		return toResults(ordered, k)
	}

	positions := make(map[string]int, len(rankings))
	scores := make(map[string]float64, len(rankings))
	for _, ranking := range rankings {
		positions[ranking.ID] = ranking.Position
		scores[ranking.ID] = ranking.Score
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := rerankPositionSentinel, rerankPositionSentinel
		if p, ok := positions[candidateKey(ordered[i])]; ok {
			pi = p
		}
		if p, ok := positions[candidateKey(ordered[j])]; ok {
			pj = p
		}
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Score > ordered[j].Score
	})

	// Carry the reranker's score onto ranked candidates so the final relevance
	// reflects the second stage.
	for i := range ordered {
		if score, ok := scores[candidateKey(ordered[i])]; ok {
			ordered[i].Score = score
		}
	}

	return toResults(ordered, k)
}

// candidateKey uniquely identifies a candidate across source types.
func candidateKey(c Candidate) string {
	return string(c.SourceType) + ":" + c.SourceID
}
