// Package render turns a parsed song into render-ready structures: a
// positional grid of measures and back-count labels for each progression,
// a continuous lyric stream, and the transposition choice menu. Every
// function here is pure; one call consumes one song snapshot and produces
// new values without touching shared state.
package render

import (
	"fmt"

	"github.com/quartal/leadsheet/internal/models"
	"github.com/quartal/leadsheet/internal/music"
)

// CellKind discriminates layout grid cells.
type CellKind int

const (
	// CellChord holds a chord symbol.
	CellChord CellKind = iota
	// CellRest holds a rest marker.
	CellRest
	// CellBeat is an empty subdivision on a beat, labelled with the
	// beat number.
	CellBeat
	// CellMid is an empty subdivision between beats, labelled with a
	// midpoint dot. Suppressed entirely in condensed mode.
	CellMid
)

// Cell is one subdivision's worth of layout output.
type Cell struct {
	Kind     CellKind
	Chord    *music.Chord
	Optional bool
	Beat     int
}

// Label is the cell's back-count or rest label for text output.
func (c Cell) Label() string {
	switch c.Kind {
	case CellBeat:
		return fmt.Sprintf("%d", c.Beat)
	case CellMid:
		return "·"
	case CellRest:
		return "✕"
	}
	return ""
}

// LayoutMeasure is one measure of the grid: its leading delimiter and its
// content cells.
type LayoutMeasure struct {
	StartBar  models.BarStyle
	StartNote string
	Cells     []Cell
}

// LayoutRow is one printed line. The end delimiter comes from the row's
// last measure and is emitted once, after it.
type LayoutRow struct {
	Odd      bool
	Measures []LayoutMeasure
	EndBar   models.BarStyle
	EndNote  string
}

// Parity returns "odd" or "even" for presentational striping. The first
// row is odd.
func (r LayoutRow) Parity() string {
	if r.Odd {
		return "odd"
	}
	return "even"
}

// Layout converts progression rows into the positional grid. Every
// measure contributes its own leading delimiter; each row ends with a
// single end delimiter taken from its last measure. Empty subdivisions
// are labelled by back-count: beats every other subdivision starting at
// the first, midpoint dots in between. Condensed mode omits the midpoint
// cells to compact the row.
func Layout(rows []models.Row, numSubdivisions int, condense bool) ([]LayoutRow, error) {
	out := make([]LayoutRow, 0, len(rows))
	for ri, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("row %d: %w", ri, ErrInvalidRow)
		}
		lr := LayoutRow{Odd: ri%2 == 0}
		for mi, m := range row {
			if len(m.Subdivisions) != numSubdivisions {
				return nil, fmt.Errorf("row %d measure %d has %d subdivisions, want %d: %w",
					ri, mi, len(m.Subdivisions), numSubdivisions, ErrSubdivisionCount)
			}
			lm := LayoutMeasure{StartBar: m.StartBar, StartNote: m.StartNote}
			for i, sub := range m.Subdivisions {
				switch {
				case sub.Chord != nil:
					lm.Cells = append(lm.Cells, Cell{
						Kind:     CellChord,
						Chord:    sub.Chord,
						Optional: sub.Optional,
					})
				case sub.Rest:
					lm.Cells = append(lm.Cells, Cell{Kind: CellRest})
				case i%2 == 0:
					// Odd 1-based index: a beat.
					lm.Cells = append(lm.Cells, Cell{Kind: CellBeat, Beat: i/2 + 1})
				default:
					if condense {
						continue
					}
					lm.Cells = append(lm.Cells, Cell{Kind: CellMid})
				}
			}
			lr.Measures = append(lr.Measures, lm)
		}
		last := row[len(row)-1]
		lr.EndBar = last.EndBar
		lr.EndNote = last.EndNote
		out = append(out, lr)
	}
	return out, nil
}
