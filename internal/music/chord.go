package music

import (
	"fmt"
	"strings"
)

// Chord is a chord symbol: a root note, a quality spec rendered after the
// root (e.g. "-7", "maj7"), and an optional bass note after a slash.
type Chord struct {
	Root Note
	Spec string
	Base Note
}

// ParseChord parses a chord symbol such as "G", "Bb-7", or "C#7/E".
func ParseChord(s string) (Chord, error) {
	root, remainder, err := SplitNote(s)
	if err != nil {
		return Chord{}, err
	}
	c := Chord{Root: root}
	if remainder == "" {
		return c, nil
	}

	tokens := strings.Split(remainder, "/")
	if len(tokens) > 2 {
		return Chord{}, fmt.Errorf("music: could not parse %q as a chord: too many \"/\"s", s)
	}
	if len(tokens) == 2 {
		if tokens[1] == "" {
			return Chord{}, fmt.Errorf("music: could not parse %q as a chord: empty base", s)
		}
		base, err := ParseNote(tokens[1])
		if err != nil {
			return Chord{}, fmt.Errorf("music: could not parse %q as a chord: %w", s, err)
		}
		c.Base = base
	}
	c.Spec = FromUnicode(tokens[0])
	return c, nil
}

// String renders the full symbol with unicode accidentals.
func (c Chord) String() string {
	out := string(c.Root) + c.Spec
	if c.Base != "" {
		out += "/" + string(c.Base)
	}
	return ToUnicode(out)
}
