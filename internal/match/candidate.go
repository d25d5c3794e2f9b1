package match

import "github.com/Another0Noob/mangadex-mal-import/internal/mangadexapi"

// Candidate is a catalog record with its title variants in preference order.
// Variants may be empty strings when a locale is missing.
type Candidate struct {
	ID     string
	Titles []string
}

// primaryLocales are the main-title locales consulted, in order, before the
// alternate titles.
var primaryLocales = []string{"en", "ja", "ja-ro"}

// CandidateFromManga flattens a MangaDex record into a Candidate: the primary
// title in each of primaryLocales, then the first value of every alternate
// title group.
func CandidateFromManga(m mangadexapi.Manga) Candidate {
	titles := make([]string, 0, len(primaryLocales)+len(m.Attributes.AltTitles))
	for _, lang := range primaryLocales {
		titles = append(titles, m.Attributes.Title.Get(lang))
	}
	for _, alt := range m.Attributes.AltTitles {
		titles = append(titles, alt.First())
	}
	return Candidate{ID: m.ID, Titles: titles}
}

// CandidatesFromManga flattens a search response into candidates, in order.
func CandidatesFromManga(list []mangadexapi.Manga) []Candidate {
	out := make([]Candidate, len(list))
	for i, m := range list {
		out[i] = CandidateFromManga(m)
	}
	return out
}

// Variants returns the non-empty titles in order.
func (c Candidate) Variants() []string {
	out := make([]string, 0, len(c.Titles))
	for _, t := range c.Titles {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
