package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Get("/notes/{id}/links", h.NoteLinks)
	r.Get("/notes/{id}/backlinks", h.NoteBacklinks)
	r.Post("/notes/{id}/enrich", h.EnrichNote)
	r.Post("/notes/{id}/tags/promote", h.PromoteTag)
	r.Get("/notes/{id}/related", h.Related)

	// Search and tags.
	r.Get("/search", h.Search)
	r.Get("/tags", h.Tags)

	// Derived views.
	r.Get("/chapters", h.Chapters)
	r.Post("/chapters/{tag}/synthesize", h.Synthesize)
	r.Post("/chapters/{tag}/arguments", h.Arguments)
	r.Get("/graph", h.Graph)
	r.Get("/timeline", h.Timeline)

	// Conversational search.
	r.Post("/chat", h.Chat)
	r.Get("/chats", h.ListChats)
	r.Get("/chats/{id}", h.GetChat)
	r.Patch("/chats/{id}", h.RenameChat)
	r.Delete("/chats/{id}", h.DeleteChat)

	// Reading import.
	r.Post("/reading", h.ImportReading)

	// Workspace state.
	r.Get("/state", h.GetState)
	r.Put("/state", h.PutState)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
