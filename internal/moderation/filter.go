package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// BannedTerms is the beta-launch blocklist applied to posted chat messages.
var BannedTerms = []string{
	"hate", "racist", "violence", "threat", "kill", "die", "stupid", "idiot",
	"fuck", "shit", "damn", "bitch", "asshole", "loser", "retard", "gay",
	"nazi", "terror", "bomb", "weapon", "drug", "illegal",
}

// Filter flags messages containing banned terms. Matching is
// case-insensitive and ignores punctuation between letters, so spaced-out
// or dotted variants still match.
type Filter struct {
	matcher *goahocorasick.Machine
}

// NewFilter builds the Aho-Corasick automaton over a normalized version of
// the term list.
func NewFilter(terms []string) (*Filter, error) {
	patterns := make([][]rune, len(terms))
	for i, term := range terms {
		patterns[i] = normalize(term)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}

	return &Filter{matcher: m}, nil
}

// Contains reports whether the text holds at least one banned term.
func (f *Filter) Contains(text string) bool {
	norm := normalize(text)
	if len(norm) == 0 {
		return false
	}

	return len(f.matcher.MultiPatternSearch(norm, true)) > 0
}

func normalize(input string) []rune {
	norm := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
	}

	return norm
}

func isNoise(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
