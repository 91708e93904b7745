package render

import (
	"fmt"

	"github.com/quartal/leadsheet/internal/models"
	"github.com/quartal/leadsheet/internal/music"
)

// Song view types.
const (
	ViewComplete  = "complete"
	ViewLeadsheet = "leadsheet"
	ViewLyrics    = "lyrics"
)

// ViewTypes lists the valid song view types in display order.
var ViewTypes = []string{ViewComplete, ViewLeadsheet, ViewLyrics}

// Options are the caller-supplied knobs for one render. Each render call
// is independent; nothing here is persisted.
type Options struct {
	// View selects which components run: "complete" (default),
	// "leadsheet", or "lyrics".
	View string
	// CondenseMeasures omits midpoint markers and doubles the row width.
	CondenseMeasures bool
	// TransposeRoot, when set, rewrites all chords into the key with
	// this tonic.
	TransposeRoot string
}

// ProgressionView is one progression's laid-out grid.
type ProgressionView struct {
	Name string
	Rows []LayoutRow
}

// SongView is the render-ready structure consumed by the presentation
// layer.
type SongView struct {
	Title           string
	Key             music.Key
	Time            models.TimeSignature
	Feel            string
	View            string
	NumSubdivisions int
	Condensed       bool
	RenderLeadsheet bool
	RenderLyrics    bool
	Progressions    []ProgressionView
	Form            []models.FormSection
	Lyrics          string
	Roots           []RootOption
}

// ComposeSongView runs the full render pipeline for one song and one set
// of options. The song is read-only; transposed chords are copies. A
// component gated off by the view type is not invoked at all.
func ComposeSongView(song *models.Song, opts Options) (*SongView, error) {
	view := opts.View
	if view == "" {
		view = ViewComplete
	}
	switch view {
	case ViewComplete, ViewLeadsheet, ViewLyrics:
	default:
		return nil, fmt.Errorf("render: invalid song view type %q", view)
	}

	for i, sec := range song.Form {
		if _, ok := song.ProgressionByName(sec.Progression); !ok {
			return nil, fmt.Errorf("render: form section %d references %q: %w",
				i, sec.Progression, ErrUnknownProgression)
		}
	}

	key := song.Key
	var tr *music.Transposer
	if opts.TransposeRoot != "" {
		root, err := music.ParseNote(opts.TransposeRoot)
		if err != nil {
			return nil, fmt.Errorf("render: transpose root: %w", err)
		}
		tr, err = music.NewTransposer(song.Key, root)
		if err != nil {
			return nil, fmt.Errorf("render: transpose: %w", err)
		}
		key = song.Key.WithRoot(root)
	}

	sv := &SongView{
		Title:           song.Title,
		Key:             key,
		Time:            song.Time,
		Feel:            song.Feel,
		View:            view,
		NumSubdivisions: NumSubdivisions(song.Time),
		Condensed:       opts.CondenseMeasures,
		RenderLeadsheet: view == ViewComplete || view == ViewLeadsheet,
		RenderLyrics:    view == ViewComplete || view == ViewLyrics,
		Form:            song.Form,
		Roots:           SelectableRoots(music.AllRoots(), currentRoot(key, opts)),
	}

	if sv.RenderLeadsheet {
		maxPerRow := defaultMaxMeasures
		if opts.CondenseMeasures {
			maxPerRow *= 2
		}
		for _, p := range song.Progressions {
			rows, err := Rows(p.Events, sv.NumSubdivisions, maxPerRow, tr)
			if err != nil {
				return nil, fmt.Errorf("render: progression %q: %w", p.Name, err)
			}
			laid, err := Layout(rows, sv.NumSubdivisions, opts.CondenseMeasures)
			if err != nil {
				return nil, fmt.Errorf("render: progression %q: %w", p.Name, err)
			}
			sv.Progressions = append(sv.Progressions, ProgressionView{Name: p.Name, Rows: laid})
		}
	}

	if sv.RenderLyrics {
		sv.Lyrics = AssembleLyrics(song.Form)
	}

	return sv, nil
}

func currentRoot(key music.Key, opts Options) string {
	if opts.TransposeRoot != "" {
		return music.FromUnicode(opts.TransposeRoot)
	}
	return string(key.Root)
}
