// Package songservice coordinates storage, index, parsing, and rendering
// for the API and web layers.
package songservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/quartal/leadsheet/internal/apperr"
	"github.com/quartal/leadsheet/internal/checksum"
	"github.com/quartal/leadsheet/internal/index"
	"github.com/quartal/leadsheet/internal/render"
	"github.com/quartal/leadsheet/internal/songfile"
	"github.com/quartal/leadsheet/internal/storage"
)

// SongDetail is the full representation of a song file.
type SongDetail struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Key       string    `json:"key"`
	Time      string    `json:"time"`
	Feel      string    `json:"feel,omitempty"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongListItem is a lightweight item in a list response.
type SongListItem struct {
	Path      string    `json:"path"`
	Short     string    `json:"short"`
	Title     string    `json:"title"`
	Key       string    `json:"key"`
	Time      string    `json:"time"`
	Feel      string    `json:"feel,omitempty"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LetterGroup is one letter's worth of the alphabetical song index.
type LetterGroup struct {
	Letter string         `json:"letter"`
	Songs  []SongListItem `json:"songs"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new song service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// GetSong reads a song from storage and parses it.
func (s *Service) GetSong(_ context.Context, path string) (*SongDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return buildSongDetail(path, data)
}

// CreateSong validates and writes a new song file and indexes it.
func (s *Service) CreateSong(_ context.Context, path string, content []byte) (*SongDetail, error) {
	if !storage.IsSongFile(path) {
		return nil, fmt.Errorf("songservice: %q is not a song file path", path)
	}
	if _, err := songfile.Parse(content); err != nil {
		return nil, err
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return buildSongDetail(path, content)
}

// UpdateSong writes updated content with optimistic concurrency.
func (s *Service) UpdateSong(_ context.Context, path string, content []byte, ifMatch string) (*SongDetail, error) {
	if _, err := songfile.Parse(content); err != nil {
		return nil, err
	}
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return buildSongDetail(path, content)
}

// DeleteSong removes a song from storage and index.
func (s *Service) DeleteSong(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		return err
	}
	return s.db.DeleteSong(path)
}

// ListSongs returns paginated songs with optional key filter.
func (s *Service) ListSongs(_ context.Context, limit, offset int, key, sort string) ([]SongListItem, int, error) {
	rows, total, err := s.db.ListSongs(limit, offset, key, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]SongListItem, len(rows))
	for i, r := range rows {
		items[i] = listItem(r)
	}
	return items, total, nil
}

// ByFirstLetter groups all songs by the first letter of their sort title,
// alphabetically, for the songbook index page.
func (s *Service) ByFirstLetter(ctx context.Context) ([]LetterGroup, error) {
	items, _, err := s.ListSongs(ctx, 0, 0, "", "title")
	if err != nil {
		return nil, err
	}
	var groups []LetterGroup
	for _, item := range items {
		letter := firstLetter(songfile.SortTitle(item.Title))
		if len(groups) == 0 || groups[len(groups)-1].Letter != letter {
			groups = append(groups, LetterGroup{Letter: letter})
		}
		last := &groups[len(groups)-1]
		last.Songs = append(last.Songs, item)
	}
	return groups, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// KeyCounts returns the songs-per-key summary.
func (s *Service) KeyCounts(_ context.Context) ([]index.KeyCount, error) {
	return s.db.KeyCounts()
}

// RenderSong parses the song at path and composes its render view.
func (s *Service) RenderSong(_ context.Context, path string, opts render.Options) (*render.SongView, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	song, err := songfile.Parse(data)
	if err != nil {
		return nil, err
	}
	return render.ComposeSongView(song, opts)
}

// ListPaths returns the songbook paths under dir straight from storage,
// bypassing the index.
func (s *Service) ListPaths(_ context.Context, dir string) ([]string, error) {
	metas, err := s.store.List(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(metas))
	for i, m := range metas {
		paths[i] = m.Path
	}
	return paths, nil
}

// ResolveShort maps a short URL name (the filename stem) back to a
// songbook path.
func (s *Service) ResolveShort(_ context.Context, short string) (string, error) {
	metas, err := s.store.List("")
	if err != nil {
		return "", err
	}
	for _, m := range metas {
		if ShortName(m.Path) == short {
			return m.Path, nil
		}
	}
	return "", apperr.ErrNotFound
}

// IndexFile parses song data and upserts it into the index.
// Exported so that API handlers can reuse it.
func (s *Service) IndexFile(path string, data []byte) error {
	song, err := songfile.Parse(data)
	if err != nil {
		return err
	}
	return s.db.UpsertSong(index.SongRow{
		Path:      path,
		Title:     song.Title,
		SortTitle: song.SortTitle,
		Key:       song.Key.Plain(),
		Time:      fmt.Sprintf("%d/%d", song.Time.Count, song.Time.Unit),
		Feel:      song.Feel,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}, render.AssembleLyrics(song.Form))
}

// ShortName returns the filename stem used in song page URLs.
func ShortName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstLetter(sortTitle string) string {
	for _, r := range sortTitle {
		return string(unicode.ToUpper(r))
	}
	return "#"
}

func listItem(r index.SongRow) SongListItem {
	return SongListItem{
		Path:      r.Path,
		Short:     ShortName(r.Path),
		Title:     r.Title,
		Key:       r.Key,
		Time:      r.Time,
		Feel:      r.Feel,
		Checksum:  r.Checksum,
		UpdatedAt: r.UpdatedAt,
	}
}

func buildSongDetail(path string, data []byte) (*SongDetail, error) {
	song, err := songfile.Parse(data)
	if err != nil {
		return nil, err
	}
	return &SongDetail{
		Path:      path,
		Title:     song.Title,
		Key:       song.Key.Plain(),
		Time:      fmt.Sprintf("%d/%d", song.Time.Count, song.Time.Unit),
		Feel:      song.Feel,
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}, nil
}
