package songfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quartal/leadsheet/internal/models"
	"github.com/quartal/leadsheet/internal/music"
)

// Progression strings are a compact DSL:
//
//	[C-7:2b]   chord held for two beats (units: m measure, b beat, h halfbeat)
//	[C]        duration defaults to one measure
//	[rest:1b]  a rest
//	[G?:2b]    optional chord, rendered in parentheses
//	{ ... }    repeat group; trailing text before the first chord is the ending note
//	( ... )    section group opened with a double bar and an annotation
//	/          forced row break
//
// Groups do not nest.

var durationRe = regexp.MustCompile(`(\d+)([mbh])`)

// ParseProgression parses a progression DSL string into an event stream.
func ParseProgression(s string) ([]models.Event, error) {
	var out []models.Event
	i := 0
	for i < len(s) {
		switch c := s[i]; c {
		case '[':
			close, err := findClose(s, i, ']')
			if err != nil {
				return nil, err
			}
			ev, err := parseChord(s[i+1 : close])
			if err != nil {
				return nil, err
			}
			out = append(out, models.Event{Kind: models.EventChord, Chord: ev})
			i = close + 1
		case '{', '(':
			closer := byte('}')
			kind := models.GroupRepeat
			if c == '(' {
				closer = ')'
				kind = models.GroupSection
			}
			close, err := findClose(s, i, closer)
			if err != nil {
				return nil, err
			}
			grp, err := parseGroup(s[i+1:close], kind)
			if err != nil {
				return nil, err
			}
			out = append(out, models.Event{Kind: models.EventGroup, Group: grp})
			i = close + 1
		case '/':
			out = append(out, models.Event{Kind: models.EventRowBreak})
			i++
		default:
			// Whitespace between tokens is allowed and ignored.
			i++
		}
	}
	return out, nil
}

func findClose(s string, open int, closer byte) (int, error) {
	rel := strings.IndexByte(s[open+1:], closer)
	if rel < 0 {
		return 0, fmt.Errorf("songfile: reached end of progression looking for %q", string(closer))
	}
	return open + 1 + rel, nil
}

// parseChord parses the inside of a [...] token: a chord symbol (or
// "rest"), optionally followed by ":" and a duration run like "1m2b".
func parseChord(token string) (*models.ChordEvent, error) {
	parts := strings.SplitN(token, ":", 2)
	symbol := strings.TrimSpace(parts[0])

	ev := &models.ChordEvent{}
	if strings.HasSuffix(symbol, "?") {
		ev.Optional = true
		symbol = strings.TrimSuffix(symbol, "?")
	}
	if symbol == "rest" {
		ev.Rest = true
	} else {
		chord, err := music.ParseChord(symbol)
		if err != nil {
			return nil, fmt.Errorf("songfile: bad chord in [%s]: %w", token, err)
		}
		ev.Chord = chord
	}

	if len(parts) == 1 {
		ev.Durations = []models.Duration{{Count: 1, Unit: models.DurationMeasure}}
		return ev, nil
	}

	durStr := strings.TrimSpace(parts[1])
	matches := durationRe.FindAllStringSubmatch(durStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("songfile: bad duration %q in [%s]", durStr, token)
	}
	for _, m := range matches {
		n := 0
		for _, r := range m[1] {
			n = n*10 + int(r-'0')
		}
		ev.Durations = append(ev.Durations, models.Duration{
			Count: n,
			Unit:  models.DurationUnit(m[2][0]),
		})
	}
	return ev, nil
}

// parseGroup parses the inside of a {...} or (...) group: optional
// annotation text, then the inner chord stream.
func parseGroup(body string, kind models.GroupKind) (*models.GroupEvent, error) {
	firstChord := strings.IndexByte(body, '[')
	if firstChord < 0 {
		return nil, fmt.Errorf("songfile: group %q has no chords", body)
	}
	note := strings.TrimSpace(body[:firstChord])
	events, err := ParseProgression(body[firstChord:])
	if err != nil {
		return nil, err
	}
	return &models.GroupEvent{Kind: kind, Note: note, Events: events}, nil
}
