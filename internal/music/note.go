// Package music defines notes, chords, and keys, and the transposition
// arithmetic between them. Accidentals are stored in plain ASCII ("b", "#")
// and converted to the unicode glyphs (♭, ♯) only for display.
package music

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	flatGlyph  = "♭" // ♭
	sharpGlyph = "♯" // ♯
)

var noteRe = regexp.MustCompile(`^[A-Ga-g][b#]?$`)

// ToUnicode replaces ASCII accidentals with their unicode glyphs.
func ToUnicode(s string) string {
	s = strings.ReplaceAll(s, "b", flatGlyph)
	return strings.ReplaceAll(s, "#", sharpGlyph)
}

// FromUnicode reverses ToUnicode.
func FromUnicode(s string) string {
	s = strings.ReplaceAll(s, flatGlyph, "b")
	return strings.ReplaceAll(s, sharpGlyph, "#")
}

// Note is a pitch name with an optional accidental, stored in ASCII
// (e.g. "C", "Bb", "F#").
type Note string

// ParseNote validates and normalises a note name. Unicode accidentals and
// lowercase pitch letters are accepted.
func ParseNote(s string) (Note, error) {
	s = FromUnicode(s)
	if !noteRe.MatchString(s) {
		return "", fmt.Errorf("music: %q is not a valid note", s)
	}
	return Note(strings.ToUpper(s[:1]) + s[1:]), nil
}

// SplitNote consumes a leading note from s and returns it along with the
// unparsed remainder. A two-character note ("Bb") wins over a
// one-character one when both would match.
func SplitNote(s string) (Note, string, error) {
	s = FromUnicode(s)
	if len(s) >= 2 {
		if n, err := ParseNote(s[:2]); err == nil {
			return n, s[2:], nil
		}
	}
	if s == "" {
		return "", "", fmt.Errorf("music: %q is not a valid note", s)
	}
	n, err := ParseNote(s[:1])
	if err != nil {
		return "", "", err
	}
	return n, s[1:], nil
}

// String renders the note with unicode accidentals.
func (n Note) String() string {
	return ToUnicode(string(n))
}
