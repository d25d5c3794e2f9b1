package match

import "strings"

// Similarity scores candidate against query in [0,1] as the higher of the
// token and positional string similarities.
func Similarity(query, candidate Title) float64 {
	return max(TokenSimilarity(query.Tokens, candidate.Tokens), StringSimilarity(query.Clean, candidate.Clean))
}

// TokenSimilarity is the fraction of query tokens that contain, or are
// contained in, some candidate token, over the longer token list.
func TokenSimilarity(query, candidate []string) float64 {
	if len(query) == 0 || len(candidate) == 0 {
		return 0
	}
	common := 0
	for _, qt := range query {
		for _, ct := range candidate {
			if strings.Contains(ct, qt) || strings.Contains(qt, ct) {
				common++
				break
			}
		}
	}
	return float64(common) / float64(max(len(query), len(candidate)))
}

// StringSimilarity counts equal bytes at equal offsets over the length of the
// longer string. This is not an edit distance: a single inserted character
// shifts everything after it and the match thresholds depend on that.
func StringSimilarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	same := 0
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
}
