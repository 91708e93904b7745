// Package export writes the whole songbook as a static HTML book: one
// file per song and view, an index page, and a machine-readable
// index.json.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quartal/leadsheet/internal/render"
	"github.com/quartal/leadsheet/internal/songservice"
	"github.com/quartal/leadsheet/internal/web"
)

// Book renders every song in every view into outputDir, plus index.html,
// index.json, and the stylesheet. The directory is created if missing;
// existing files are overwritten.
func Book(ctx context.Context, svc *songservice.Service, outputDir string, logger *slog.Logger) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("export: create output dir: %w", err)
	}

	rd, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("export: templates: %w", err)
	}

	groups, err := svc.ByFirstLetter(ctx)
	if err != nil {
		return fmt.Errorf("export: list songs: %w", err)
	}

	indexLinks := make(map[string]string)
	count := 0
	for _, g := range groups {
		for _, item := range g.Songs {
			links := make(map[string]string, len(render.ViewTypes))
			for _, v := range render.ViewTypes {
				links[v] = FileName(item.Title, v)
			}
			indexLinks[item.Path] = links[render.ViewComplete]

			for _, v := range render.ViewTypes {
				view, rErr := svc.RenderSong(ctx, item.Path, render.Options{View: v})
				if rErr != nil {
					logger.Warn("export: render failed",
						slog.String("path", item.Path),
						slog.String("view", v),
						slog.String("error", rErr.Error()))
					continue
				}
				page := web.SongPage{
					Short:     item.Short,
					View:      view,
					ViewTypes: render.ViewTypes,
					Links:     links,
					Static:    true,
				}
				if wErr := writePage(filepath.Join(outputDir, links[v]), func(f *os.File) error {
					return rd.WriteSong(f, page)
				}); wErr != nil {
					return wErr
				}
				count++
			}
		}
	}

	if err := writePage(filepath.Join(outputDir, "index.html"), func(f *os.File) error {
		return rd.WriteIndex(f, web.IndexPage{Groups: groups, Links: indexLinks, Static: true})
	}); err != nil {
		return err
	}

	if err := writeIndexJSON(filepath.Join(outputDir, "index.json"), groups, indexLinks); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(outputDir, "style.css"), web.StyleCSS(), 0o644); err != nil {
		return fmt.Errorf("export: stylesheet: %w", err)
	}

	logger.Info("export: book written",
		slog.String("dir", outputDir),
		slog.Int("pages", count))
	return nil
}

// FileName is the exported file name for one song view: the lowercased
// title with spaces replaced by underscores, suffixed with the view.
func FileName(title, view string) string {
	slug := strings.ReplaceAll(strings.ToLower(title), " ", "_")
	return slug + "_" + view + ".html"
}

type indexEntry struct {
	Title string `json:"title"`
	Key   string `json:"key"`
	Time  string `json:"time"`
	Feel  string `json:"feel,omitempty"`
	File  string `json:"file"`
}

type indexGroup struct {
	Letter string       `json:"letter"`
	Songs  []indexEntry `json:"songs"`
}

func writeIndexJSON(path string, groups []songservice.LetterGroup, links map[string]string) error {
	out := make([]indexGroup, 0, len(groups))
	for _, g := range groups {
		ig := indexGroup{Letter: g.Letter, Songs: make([]indexEntry, 0, len(g.Songs))}
		for _, s := range g.Songs {
			ig.Songs = append(ig.Songs, indexEntry{
				Title: s.Title,
				Key:   s.Key,
				Time:  s.Time,
				Feel:  s.Feel,
				File:  links[s.Path],
			})
		}
		out = append(out, ig)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writePage(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return f.Close()
}
