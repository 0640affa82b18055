package retrieval

import "strings"

// QueryTerms tokenizes a query: lower-case, split on whitespace, de-duplicated.
// An empty or all-whitespace query yields an empty term set, which makes every
// keyword score zero; the degenerate query returns nothing rather than erroring.
func QueryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// KeywordOverlap computes the fraction of distinct query terms found as
// case-insensitive substrings of the concatenated target fields, in [0, 1].
// All source types share this one formula so the scoring cannot drift between
// notes, observations, and medications.
func KeywordOverlap(terms []string, fields ...string) float64 {
	if len(terms) == 0 {
		return 0
	}

	target := strings.ToLower(strings.Join(fields, " "))
	if target == "" {
		return 0
	}

	var matched int
	for _, term := range terms {
		if strings.Contains(target, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
