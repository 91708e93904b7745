package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quartal/leadsheet/internal/songservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *songservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Songs CRUD.
	r.Get("/songs", h.ListSongs)
	r.Post("/songs", h.CreateSong)
	r.Get("/songs/*", h.GetSong)
	r.Put("/songs/*", h.UpdateSong)
	r.Delete("/songs/*", h.DeleteSong)

	// Rendered song view (layout, transposition, lyrics).
	r.Get("/render/*", h.RenderSong)

	// Search.
	r.Get("/search", h.Search)

	// Songs-per-key summary.
	r.Get("/keys", h.Keys)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
