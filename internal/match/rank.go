package match

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// InclusionThreshold drops weak candidates before ranking.
	InclusionThreshold = 0.3
	// AcceptanceThreshold is the similarity the best candidate must exceed to
	// be treated as the same work.
	AcceptanceThreshold = 0.5
)

// ScoredVariant is one title variant and its similarity to the query.
type ScoredVariant struct {
	Text       string
	Similarity float64
}

// Ranked is a candidate reduced to its best matching title variant.
type Ranked struct {
	ID         string
	Title      string // display title
	Similarity float64
	Best       ScoredVariant
}

// ScoreCandidate scores every usable variant of c against query and keeps the
// best one; earlier variants win ties. A candidate without usable titles
// scores 0.
func ScoreCandidate(query Title, c Candidate) Ranked {
	variants := c.Variants()
	r := Ranked{ID: c.ID}
	if len(variants) == 0 {
		return r
	}
	r.Title = variants[0]

	for i, v := range variants {
		s := Similarity(query, NormalizeTitle(v))
		if i == 0 || s > r.Best.Similarity {
			r.Best = ScoredVariant{Text: v, Similarity: s}
		}
	}
	r.Similarity = r.Best.Similarity
	return r
}

// Rank scores all candidates against the raw query title, drops those at or
// below InclusionThreshold and sorts the rest by descending similarity. The
// sort is stable so equal scores keep the catalog's order.
func Rank(query string, cands []Candidate) []Ranked {
	return RankTitle(NormalizeTitle(query), cands)
}

// RankTitle is Rank for an already normalized query.
func RankTitle(q Title, cands []Candidate) []Ranked {
	out := make([]Ranked, 0, len(cands))
	for _, c := range cands {
		r := ScoreCandidate(q, c)
		if r.Similarity <= InclusionThreshold {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

// Best returns the head of a ranked list when it clears AcceptanceThreshold.
func Best(ranked []Ranked) (Ranked, bool) {
	if len(ranked) == 0 || ranked[0].Similarity <= AcceptanceThreshold {
		return Ranked{}, false
	}
	return ranked[0], true
}

// Closest reports the variant with the smallest edit distance to query across
// all candidates, for diagnosing rejected entries. It returns -1 when no
// candidate has a usable title.
func Closest(query string, cands []Candidate) (string, int) {
	q := NormalizeTitle(query).Clean
	best, bestDist := "", -1
	for _, c := range cands {
		for _, v := range c.Variants() {
			d := fuzzy.LevenshteinDistance(q, NormalizeTitle(v).Clean)
			if bestDist < 0 || d < bestDist {
				best, bestDist = v, d
			}
		}
	}
	return best, bestDist
}
