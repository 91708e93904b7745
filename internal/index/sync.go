package index

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/quartal/leadsheet/internal/checksum"
	"github.com/quartal/leadsheet/internal/render"
	"github.com/quartal/leadsheet/internal/songfile"
	"github.com/quartal/leadsheet/internal/storage"
)

// Sync walks the songbook and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteSong(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses song data and upserts it into the DB.
func indexFile(db *DB, path string, data []byte) error {
	song, err := songfile.Parse(data)
	if err != nil {
		return err
	}
	row := SongRow{
		Path:      path,
		Title:     song.Title,
		SortTitle: song.SortTitle,
		Key:       song.Key.Plain(),
		Time:      fmt.Sprintf("%d/%d", song.Time.Count, song.Time.Unit),
		Feel:      song.Feel,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}
	return db.UpsertSong(row, render.AssembleLyrics(song.Form))
}
