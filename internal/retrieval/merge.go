package retrieval

import "sort"

// sortStage1 orders candidates by score descending, breaking ties by source
// type precedence (note, lab, med) and then source id ascending so repeated
// calls over the same data always produce the same order.
func sortStage1(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		pi, pj := typePrecedence[candidates[i].SourceType], typePrecedence[candidates[j].SourceType]
		if pi != pj {
			return pi < pj
		}
		return candidates[i].SourceID < candidates[j].SourceID
	})
}

// Merge applies the final ordering and limit to a candidate set: stage-1 sort,
// truncate to k, and cap snippets at the output limit. Each source-type
// retriever emits at most one candidate per row, so no (sourceType, sourceID)
// pair can appear twice by construction.
func Merge(candidates []Candidate, k int) []Result {
	merged := make([]Candidate, len(candidates))
	copy(merged, candidates)
	sortStage1(merged)
	return toResults(merged, k)
}

// toResults truncates an already-ordered candidate list to k results with
// output-capped snippets.
func toResults(ordered []Candidate, k int) []Result {
	if k > 0 && len(ordered) > k {
		ordered = ordered[:k]
	}

	results := make([]Result, 0, len(ordered))
	for _, c := range ordered {
		results = append(results, Result{
			SourceType: c.SourceType,
			SourceID:   c.SourceID,
			Label:      c.Label,
			Snippet:    truncateSnippet(c.Snippet, outputSnippetLimit),
			Score:      c.Score,
			Metadata:   c.Metadata,
		})
	}
	return results
}

// truncateSnippet caps a snippet at limit bytes without splitting a UTF-8 rune.
func truncateSnippet(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && (s[cut]&0xC0) == 0x80 {
		cut--
	}
	return s[:cut]
}
