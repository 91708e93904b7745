package music

import "fmt"

// Mode is the scale mode of a key. Only major and minor are recognised in
// song files; minor keys use the "-" shorthand ("C-").
type Mode struct {
	Name      string
	Shorthand string
}

var (
	ModeMajor = Mode{Name: "Major", Shorthand: ""}
	ModeMinor = Mode{Name: "Minor", Shorthand: "-"}
)

// Key is a tonic plus a mode.
type Key struct {
	Root Note
	Mode Mode
}

// ParseKey parses a key signature such as "G" or "Eb-".
func ParseKey(s string) (Key, error) {
	root, remainder, err := SplitNote(s)
	if err != nil {
		return Key{}, err
	}
	switch remainder {
	case ModeMajor.Shorthand:
		return Key{Root: root, Mode: ModeMajor}, nil
	case ModeMinor.Shorthand:
		return Key{Root: root, Mode: ModeMinor}, nil
	}
	return Key{}, fmt.Errorf("music: did not recognize mode of key %q (%q)", s, remainder)
}

// WithRoot returns a copy of the key moved to a new tonic.
func (k Key) WithRoot(root Note) Key {
	return Key{Root: root, Mode: k.Mode}
}

// Plain renders the key in ASCII ("Eb-"), the form used in song files and
// the transposition tables.
func (k Key) Plain() string {
	return string(k.Root) + k.Mode.Shorthand
}

// String renders the key with unicode accidentals.
func (k Key) String() string {
	return ToUnicode(k.Plain())
}
