// Package textnorm canonicalizes column headers and synonyms before matching.
// Two strings that differ only in case, accents, or separator style normalize
// to the same value, e.g. "Glucosa_Plasmática" and "glucosa plasmatica".
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so accented
// letters reduce to their base character.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the comparable form of raw: accents stripped, lowercased,
// non-alphanumeric runs collapsed to single spaces, trimmed. It is total:
// malformed or empty input yields an empty string, never an error.
func Normalize(raw string) string {
	s, _, err := transform.String(stripMarks, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}

// Candidate pairs a raw column name with its normalized form.
type Candidate struct {
	Raw  string
	Norm string
}

// Candidates normalizes every column name once so the result can be shared
// across all variables in a detection run.
func Candidates(columns []string) []Candidate {
	out := make([]Candidate, len(columns))
	for i, c := range columns {
		out[i] = Candidate{Raw: c, Norm: Normalize(c)}
	}
	return out
}
