// Package models defines the domain types for a song: its key and time
// signature, named chord progressions, and the form sections that
// reference them.
package models

import (
	"time"

	"github.com/quartal/leadsheet/internal/music"
)

// TimeSignature is the meter of a song, e.g. 4/4 or 6/8.
type TimeSignature struct {
	Count int `yaml:"count" json:"count"`
	Unit  int `yaml:"unit" json:"unit"`
}

// Song is one fully parsed song file.
type Song struct {
	Title        string
	SortTitle    string
	Key          music.Key
	Time         TimeSignature
	Feel         string
	Progressions []Progression
	Form         []FormSection
}

// Progression is a named, reusable chord pattern referenced by form
// sections. Events hold the parsed chord/group/break stream from the
// song file; measures and rows are derived at render time.
type Progression struct {
	Name   string
	Events []Event
}

// ProgressionByName resolves a form section's progression reference.
func (s *Song) ProgressionByName(name string) (Progression, bool) {
	for _, p := range s.Progressions {
		if p.Name == name {
			return p, true
		}
	}
	return Progression{}, false
}

// DurationUnit is the unit of one chord duration component.
type DurationUnit byte

const (
	DurationMeasure  DurationUnit = 'm'
	DurationBeat     DurationUnit = 'b'
	DurationHalfbeat DurationUnit = 'h'
)

// Duration is one component of a chord's length, e.g. 2 beats.
type Duration struct {
	Count int
	Unit  DurationUnit
}

// EventKind discriminates the progression event variants.
type EventKind int

const (
	EventChord EventKind = iota
	EventGroup
	EventRowBreak
)

// Event is one element of a progression's parsed stream: a chord hit, a
// bracketed group, or a forced row break. Exactly one of Chord/Group is
// set for the corresponding kind.
type Event struct {
	Kind  EventKind
	Chord *ChordEvent
	Group *GroupEvent
}

// ChordEvent is a chord (or rest) held for a duration.
type ChordEvent struct {
	Chord     music.Chord
	Rest      bool
	Optional  bool
	Durations []Duration
}

// GroupKind discriminates bracketed progression groups.
type GroupKind int

const (
	// GroupRepeat is a {}-group played between repeat bars.
	GroupRepeat GroupKind = iota
	// GroupSection is a ()-group opened with a double bar and an
	// annotation, used for endings and tagged passages.
	GroupSection
)

// GroupEvent is a bracketed sub-progression.
type GroupEvent struct {
	Kind   GroupKind
	Note   string
	Events []Event
}

// BarStyle is a bar-line style marker. The ordering is meaningful:
// "stronger" bars compare greater, so a measure's bar is only ever
// promoted, never demoted.
type BarStyle int

const (
	BarSingle BarStyle = iota
	BarDouble
	BarSectionOpen
	BarSectionClose
	BarRepeatOpen
	BarRepeatClose
)

var barNames = map[BarStyle]string{
	BarSingle:       "single",
	BarDouble:       "double",
	BarSectionOpen:  "section-open",
	BarSectionClose: "section-close",
	BarRepeatOpen:   "repeat-open",
	BarRepeatClose:  "repeat-close",
}

func (b BarStyle) String() string {
	return barNames[b]
}

// Subdivision is the smallest rhythmic cell of a measure: either a chord
// hit, a rest, or an empty placeholder (Chord nil, Rest false) that only
// contributes to back-counting.
type Subdivision struct {
	Chord    *music.Chord
	Rest     bool
	Optional bool
}

// Empty reports whether the subdivision is a rhythmic placeholder.
func (s Subdivision) Empty() bool {
	return s.Chord == nil && !s.Rest
}

// Measure is one bar of a progression.
type Measure struct {
	StartBar     BarStyle
	EndBar       BarStyle
	StartNote    string
	EndNote      string
	Subdivisions []Subdivision
	// BreakAfter forces a row break after this measure.
	BreakAfter bool
}

// Row is one printed line of measures.
type Row []Measure

// FormSection is one segment of the song form.
type FormSection struct {
	Progression  string
	Reps         int
	Comment      []string
	Lyrics       string
	LyricsHint   string
	Continuation bool
}

// SongMetadata is a lightweight representation returned by songbook list
// operations.
type SongMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
