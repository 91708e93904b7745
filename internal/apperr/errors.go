// Package apperr defines the sentinel errors shared by the service, API,
// and web layers.
package apperr

import "errors"

var (
	// ErrNotFound indicates the requested song does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates an optimistic-locking checksum mismatch.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists indicates a create targeting an existing path.
	ErrAlreadyExists = errors.New("already exists")
)
