// Package web serves the HTML songbook UI: an alphabetical index page and
// per-song pages with transposition and condense controls. The same
// templates back the static book export.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quartal/leadsheet/internal/apperr"
	"github.com/quartal/leadsheet/internal/models"
	"github.com/quartal/leadsheet/internal/music"
	"github.com/quartal/leadsheet/internal/render"
	"github.com/quartal/leadsheet/internal/songservice"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/style.css
var styleCSS []byte

var funcs = template.FuncMap{
	"nl2br":     nl2br,
	"glyphs":    music.ToUnicode,
	"barGlyph":  render.BarGlyph,
	"cellClass": CellClass,
	"isChord":   func(c render.Cell) bool { return c.Kind == render.CellChord },
	"barClass":  func(s models.BarStyle) string { return "bar " + s.String() },
}

// IndexPage is the data for the index template. Links maps song paths to
// hrefs so the exporter can substitute file names.
type IndexPage struct {
	Groups []songservice.LetterGroup
	Links  map[string]string
	Static bool
}

// SongPage is the data for the song template.
type SongPage struct {
	Short     string
	View      *render.SongView
	ViewTypes []string
	// Links maps each view type to its href. The HTTP handler points them
	// at /song/{short}/{view}; the book exporter points them at the
	// exported file names.
	Links map[string]string
	// Static disables the transpose/condense form (no server to POST to).
	Static bool
}

// Renderer holds the parsed templates. It is shared by the HTTP handlers
// and the static book exporter.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("web").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: t}, nil
}

// WriteIndex renders the alphabetical index page.
func (rd *Renderer) WriteIndex(w io.Writer, page IndexPage) error {
	return rd.tmpl.ExecuteTemplate(w, "index.html", page)
}

// WriteSong renders a song page.
func (rd *Renderer) WriteSong(w io.Writer, page SongPage) error {
	return rd.tmpl.ExecuteTemplate(w, "song.html", page)
}

// StyleCSS returns the stylesheet served at /static/style.css and copied
// into book exports.
func StyleCSS() []byte {
	return styleCSS
}

// Handler serves the HTML pages.
type Handler struct {
	svc *songservice.Service
	rd  *Renderer
}

// NewHandler creates the web handler.
func NewHandler(svc *songservice.Service) (*Handler, error) {
	rd, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, rd: rd}, nil
}

// Mount registers the web routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/static/style.css", h.style)
	r.Get("/song/{short}", h.song)
	r.Post("/song/{short}", h.song)
	r.Get("/song/{short}/{view}", h.song)
	r.Post("/song/{short}/{view}", h.song)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ByFirstLetter(r.Context())
	if err != nil {
		slog.Error("index page failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	links := make(map[string]string)
	for _, g := range groups {
		for _, s := range g.Songs {
			links[s.Path] = "/song/" + s.Short + "/complete"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.rd.WriteIndex(w, IndexPage{Groups: groups, Links: links}); err != nil {
		slog.Error("index template failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) style(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(styleCSS)
}

// song serves the song page. POST re-renders the same page with the
// submitted transpose_root and condense_measures form values.
func (h *Handler) song(w http.ResponseWriter, r *http.Request) {
	short := chi.URLParam(r, "short")
	viewType := chi.URLParam(r, "view")

	path, err := h.svc.ResolveShort(r.Context(), short)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	opts := render.Options{View: viewType}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			opts.TransposeRoot = r.PostFormValue("transpose_root")
			opts.CondenseMeasures = r.PostFormValue("condense_measures") != ""
		}
	}

	view, err := h.svc.RenderSong(r.Context(), path, opts)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("song page failed", slog.String("path", path), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	links := make(map[string]string, len(render.ViewTypes))
	for _, v := range render.ViewTypes {
		links[v] = "/song/" + short + "/" + v
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := SongPage{Short: short, View: view, ViewTypes: render.ViewTypes, Links: links}
	if err := h.rd.WriteSong(w, page); err != nil {
		slog.Error("song template failed", slog.String("error", err.Error()))
	}
}

// nl2br escapes s and converts newlines to <br> tags, preserving stanza
// breaks as double <br>.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
}

// CellClass maps a layout cell to its CSS class.
func CellClass(c render.Cell) string {
	switch c.Kind {
	case render.CellChord:
		if c.Optional {
			return "cell chord optional"
		}
		return "cell chord"
	case render.CellRest:
		return "cell rest"
	case render.CellBeat:
		return "cell beat"
	default:
		return "cell mid"
	}
}
