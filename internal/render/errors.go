package render

import "errors"

// Rendering is pure and deterministic: these errors indicate bad input
// data, and the same input will always fail the same way.
var (
	// ErrInvalidRow marks a row with zero measures, which has no place
	// to attach an end delimiter.
	ErrInvalidRow = errors.New("row has no measures")
	// ErrSubdivisionCount marks a measure whose subdivision count does
	// not match the configured resolution.
	ErrSubdivisionCount = errors.New("subdivision count mismatch")
	// ErrUnknownProgression marks a form section referencing a
	// progression the song does not define.
	ErrUnknownProgression = errors.New("unknown progression reference")
)
