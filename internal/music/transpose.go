package music

import "fmt"

// Chromatic scales in both spellings. Transposition works by index
// arithmetic over these tables, picking the spelling that suits the key.
var (
	sharpScale = []Note{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}
	flatScale  = []Note{"A", "Bb", "B", "C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab"}
)

// Keys with no accidental in the tonic that still conventionally use flat
// spellings.
var preferFlats = map[string]bool{"D-": true, "F": true}

// AllRoots returns the fixed enumeration of selectable transposition
// targets, in chromatic order with flat spellings.
func AllRoots() []string {
	out := make([]string, len(flatScale))
	for i, n := range flatScale {
		out[i] = string(n)
	}
	return out
}

func scaleForKey(k Key) []Note {
	plain := k.Plain()
	for _, r := range plain {
		switch r {
		case '#':
			return sharpScale
		case 'b':
			return flatScale
		}
	}
	if preferFlats[plain] {
		return flatScale
	}
	return sharpScale
}

func scaleIndex(n Note) (int, error) {
	for i, s := range sharpScale {
		if s == n {
			return i, nil
		}
	}
	for i, f := range flatScale {
		if f == n {
			return i, nil
		}
	}
	return 0, fmt.Errorf("music: note %q is not in the chromatic scale", n)
}

// HalfSteps returns the upward interval from one note to another, in
// half steps (0..11).
func HalfSteps(from, to Note) (int, error) {
	fi, err := scaleIndex(from)
	if err != nil {
		return 0, err
	}
	ti, err := scaleIndex(to)
	if err != nil {
		return 0, err
	}
	return ((ti-fi)%12 + 12) % 12, nil
}

// Transposer rewrites chord spellings from one key into another. It is
// built once per render and applied to chord copies; it never mutates a
// song in place.
type Transposer struct {
	steps     int
	fromScale []Note
	toScale   []Note
}

// NewTransposer prepares a transposition from a key to a new tonic.
func NewTransposer(from Key, toRoot Note) (*Transposer, error) {
	steps, err := HalfSteps(from.Root, toRoot)
	if err != nil {
		return nil, err
	}
	return &Transposer{
		steps:     steps,
		fromScale: scaleForKey(from),
		toScale:   scaleForKey(from.WithRoot(toRoot)),
	}, nil
}

func (t *Transposer) note(n Note) (Note, error) {
	from := -1
	for i, s := range t.fromScale {
		if s == n {
			from = i
			break
		}
	}
	if from < 0 {
		// The note is spelled against the key (e.g. a sharp in a flat
		// key); fall back to whichever table holds it.
		i, err := scaleIndex(n)
		if err != nil {
			return "", err
		}
		from = i
	}
	return t.toScale[(from+t.steps)%12], nil
}

// Chord returns a transposed copy of the chord: the root and bass notes
// are moved, the quality spec is untouched.
func (t *Transposer) Chord(c Chord) (Chord, error) {
	root, err := t.note(c.Root)
	if err != nil {
		return Chord{}, err
	}
	out := Chord{Root: root, Spec: c.Spec}
	if c.Base != "" {
		base, err := t.note(c.Base)
		if err != nil {
			return Chord{}, err
		}
		out.Base = base
	}
	return out, nil
}
