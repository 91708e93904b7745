// Package storage defines the songbook file-system abstraction.
package storage

import "github.com/quartal/leadsheet/internal/models"

// Provider is the interface for songbook file operations. All paths are
// relative to the songbook root.
type Provider interface {
	// List returns metadata for every song file under dir.
	List(dir string) ([]models.SongMetadata, error)
	// Read returns the raw bytes of the song file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the song file at path.
	Delete(path string) error
}

// IsSongFile reports whether name has a song file extension.
func IsSongFile(name string) bool {
	return hasYAMLSuffix(name)
}
