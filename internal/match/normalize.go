package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenLen is the shortest token kept; "no", "wa", "of" and friends carry no signal.
const minTokenLen = 3

var reNonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)

// Title is a normalized title: lowercase ASCII letters, digits and whitespace,
// plus its significant tokens.
type Title struct {
	Clean  string
	Tokens []string
}

// NormalizeTitle lowercases s, drops everything outside [a-z0-9\s] and splits
// the result into tokens longer than two characters. Characters are removed,
// not replaced, so "Kaguya-sama" becomes "kaguyasama". Unicode spaces such as
// NBSP and U+3000 count as whitespace.
func NormalizeTitle(s string) Title {
	lower := strings.Map(asciiSpace, cases.Lower(language.Und).String(s))
	clean := reNonAlnum.ReplaceAllString(lower, "")

	var tokens []string
	for _, tok := range strings.Fields(clean) {
		if len(tok) >= minTokenLen {
			tokens = append(tokens, tok)
		}
	}
	return Title{Clean: clean, Tokens: tokens}
}

func asciiSpace(r rune) rune {
	if r > unicode.MaxASCII && unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Query returns the search string sent to the catalog: the tokens joined by
// commas, or the trimmed raw title when nothing significant survived.
func (t Title) Query(raw string) string {
	if len(t.Tokens) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(t.Tokens, ",")
}
