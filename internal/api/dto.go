package api

import (
	"github.com/quartal/leadsheet/internal/index"
	"github.com/quartal/leadsheet/internal/songservice"
)

// CreateSongRequest is the request body for creating a song.
type CreateSongRequest struct {
	Path    string `json:"path" example:"jazz/autumn_leaves.yaml"`
	Content string `json:"content" example:"title: Autumn Leaves\nkey: G-\n..."`
}

// UpdateSongRequest is the request body for updating a song.
type UpdateSongRequest struct {
	Content string `json:"content"`
}

// SongDetail is the full song response type (aliased from the domain layer).
type SongDetail = songservice.SongDetail

// SongListItem is a lightweight item in a list response (aliased from the domain layer).
type SongListItem = songservice.SongListItem

// SongListResponse wraps paginated song listings.
type SongListResponse struct {
	Songs []SongListItem `json:"songs"`
	Total int            `json:"total" example:"42"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// KeysResponse wraps the songs-per-key summary.
type KeysResponse struct {
	Keys []index.KeyCount `json:"keys"`
}
