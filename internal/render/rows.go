package render

import (
	"fmt"

	"github.com/quartal/leadsheet/internal/models"
	"github.com/quartal/leadsheet/internal/music"
)

// defaultMaxMeasures is the printed row width; condensed mode fits twice
// as many measures per row.
const defaultMaxMeasures = 4

// NumSubdivisions returns the halfbeat resolution of one measure: eight
// for 4/4, six for 6/8. Must be even for the beat/midpoint split to make
// sense; that invariant is owned by the song's time signature.
func NumSubdivisions(t models.TimeSignature) int {
	return t.Count * 8 / t.Unit
}

func subdivisionsPerUnit(unit models.DurationUnit, numSub int) int {
	switch unit {
	case models.DurationMeasure:
		return numSub
	case models.DurationBeat:
		return 2
	default:
		return 1
	}
}

// Rows flattens a progression's event stream into measures and breaks
// them into printed rows. tr, when non-nil, transposes each chord copy as
// it is placed; the source events are never mutated.
func Rows(events []models.Event, numSub, maxPerRow int, tr *music.Transposer) ([]models.Row, error) {
	measures, err := buildMeasures(events, numSub, tr)
	if err != nil {
		return nil, err
	}
	if len(measures) == 0 {
		return nil, ErrInvalidRow
	}
	if measures[0].StartBar < models.BarSectionOpen {
		measures[0].StartBar = models.BarSectionOpen
	}
	if measures[len(measures)-1].EndBar < models.BarSectionClose {
		measures[len(measures)-1].EndBar = models.BarSectionClose
	}
	return breakRows(measures, maxPerRow), nil
}

// buildMeasures walks the event stream, filling measures one halfbeat
// subdivision at a time. A chord that spills into a fresh measure
// re-prints its symbol there.
func buildMeasures(events []models.Event, numSub int, tr *music.Transposer) ([]models.Measure, error) {
	var measures []models.Measure
	cursor := 0

	for _, ev := range events {
		switch ev.Kind {
		case models.EventRowBreak:
			if len(measures) > 0 {
				measures[len(measures)-1].BreakAfter = true
			}

		case models.EventGroup:
			group, err := buildMeasures(ev.Group.Events, numSub, tr)
			if err != nil {
				return nil, err
			}
			if len(group) == 0 {
				continue
			}
			switch ev.Group.Kind {
			case models.GroupRepeat:
				group[0].StartBar = models.BarRepeatOpen
				group[len(group)-1].EndBar = models.BarRepeatClose
				group[len(group)-1].EndNote = ev.Group.Note
			case models.GroupSection:
				group[0].StartBar = models.BarDouble
				group[0].StartNote = ev.Group.Note
			}
			measures = append(measures, group...)

		case models.EventChord:
			hit, err := subdivisionFor(ev.Chord, tr)
			if err != nil {
				return nil, err
			}
			total := 0
			for _, d := range ev.Chord.Durations {
				total += d.Count * subdivisionsPerUnit(d.Unit, numSub)
			}
			for i := 0; i < total; i++ {
				switch {
				case cursor%numSub == 0:
					measures = append(measures, models.Measure{
						StartBar:     models.BarSingle,
						EndBar:       models.BarSingle,
						Subdivisions: []models.Subdivision{hit},
					})
				case i == 0:
					cleanLastChord(measures, hit)
					last := &measures[len(measures)-1]
					last.Subdivisions = append(last.Subdivisions, hit)
				default:
					last := &measures[len(measures)-1]
					last.Subdivisions = append(last.Subdivisions, models.Subdivision{})
				}
				cursor++
			}
		}
	}
	return measures, nil
}

func subdivisionFor(ev *models.ChordEvent, tr *music.Transposer) (models.Subdivision, error) {
	if ev.Rest {
		return models.Subdivision{Rest: true}, nil
	}
	chord := ev.Chord
	if tr != nil {
		transposed, err := tr.Chord(chord)
		if err != nil {
			return models.Subdivision{}, fmt.Errorf("transpose %s: %w", chord, err)
		}
		chord = transposed
	}
	return models.Subdivision{Chord: &chord, Optional: ev.Optional}, nil
}

// cleanLastChord clears a chord symbol sitting on the final subdivision
// boundary when it duplicates the previous printed symbol, so a spilled
// chord is not shown twice back to back.
func cleanLastChord(measures []models.Measure, _ models.Subdivision) {
	if len(measures) == 0 {
		return
	}
	last := &measures[len(measures)-1]
	n := len(last.Subdivisions)
	if n == 0 || last.Subdivisions[n-1].Empty() {
		return
	}
	lastHit := last.Subdivisions[n-1]

	// Scan backwards for the previous non-empty subdivision.
	for mi := len(measures) - 1; mi >= 0; mi-- {
		subs := measures[mi].Subdivisions
		start := len(subs) - 1
		if mi == len(measures)-1 {
			start = n - 2
		}
		for si := start; si >= 0; si-- {
			if subs[si].Empty() {
				continue
			}
			if sameHit(subs[si], lastHit) {
				last.Subdivisions[n-1] = models.Subdivision{}
			}
			return
		}
	}
}

func sameHit(a, b models.Subdivision) bool {
	if a.Rest || b.Rest {
		return a.Rest == b.Rest
	}
	if a.Chord == nil || b.Chord == nil {
		return false
	}
	return *a.Chord == *b.Chord
}

// breakRows splits measures into printed rows: at the width limit, after
// repeat or section close bars, and at explicit break marks.
func breakRows(measures []models.Measure, maxPerRow int) []models.Row {
	var rows []models.Row
	lastBreak := 0
	for i, m := range measures {
		if i == 0 ||
			i-lastBreak == maxPerRow ||
			measures[i-1].EndBar == models.BarRepeatClose ||
			measures[i-1].EndBar == models.BarSectionClose ||
			measures[i-1].BreakAfter {
			rows = append(rows, models.Row{})
			lastBreak = i
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], m)
	}
	return rows
}
