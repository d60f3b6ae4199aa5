package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mhollis/zettel/internal/ai"
	"github.com/mhollis/zettel/internal/chapter"
	"github.com/mhollis/zettel/internal/chat"
	"github.com/mhollis/zettel/internal/enrich"
	"github.com/mhollis/zettel/internal/graphview"
	"github.com/mhollis/zettel/internal/noteservice"
	"github.com/mhollis/zettel/internal/reading"
	"github.com/mhollis/zettel/internal/timeline"
	"github.com/mhollis/zettel/internal/uistate"
)

// Handler holds all API route handlers.
type Handler struct {
	notes    *noteservice.Service
	state    *uistate.Store
	enricher *ai.Client
	chats    *chat.Service
	importer *reading.Importer
}

// NewHandler creates a Handler.
func NewHandler(notes *noteservice.Service, state *uistate.Store, client *ai.Client, chats *chat.Service, importer *reading.Importer) *Handler {
	return &Handler{
		notes:    notes,
		state:    state,
		enricher: client,
		chats:    chats,
		importer: importer,
	}
}

// ListNotes handles GET /notes, newest modification first.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	if tag := r.URL.Query().Get("tag"); tag != "" {
		notes, err := h.notes.ByTag(r.Context(), tag)
		if err != nil {
			slog.Error("list notes by tag failed", slog.String("tag", tag), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
		return
	}

	notes, err := h.notes.List(r.Context())
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// CreateNote handles POST /notes. The note is persisted first, then enriched
// with a summary and suggested tags; enrichment never blocks creation.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}

	note, err := h.notes.Create(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		slog.Error("create note failed", slog.String("title", req.Title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	e := h.enrich(r, note.Title, note.Content)
	enriched, err := h.notes.SetEnrichment(r.Context(), note.ID, e.Summary, e.AutoTags)
	if err != nil || enriched == nil {
		slog.Warn("enrichment not stored", slog.String("id", note.ID))
		writeJSON(w, http.StatusCreated, note)
		return
	}
	writeJSON(w, http.StatusCreated, enriched)
}

// GetNote handles GET /notes/{id}, returning the note with its outbound
// links and backlinks.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.notes.Get(r.Context(), id)
	if err != nil {
		slog.Error("get note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	fwd, err := h.notes.ForwardLinks(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	back, err := h.notes.Backlinks(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteDetail{Note: *note, Links: fwd, Backlinks: back})
}

// UpdateNote handles PATCH /notes/{id}. Only the fields present in the body
// change; links are regenerated from the resulting content.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")

	var patch noteservice.UpdatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.notes.Update(r.Context(), id, patch)
	if err != nil {
		slog.Error("update note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}. Deleting an absent id still
// returns 204; the end state is the same.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.notes.Delete(r.Context(), id); err != nil {
		slog.Error("delete note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteLinks handles GET /notes/{id}/links.
func (h *Handler) NoteLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fwd, err := h.notes.ForwardLinks(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	back, err := h.notes.Backlinks(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": fwd, "backlinks": back})
}

// NoteBacklinks handles GET /notes/{id}/backlinks.
func (h *Handler) NoteBacklinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back, err := h.notes.Backlinks(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"backlinks": back})
}

// EnrichNote handles POST /notes/{id}/enrich, regenerating the summary and
// suggested tags for an existing note.
func (h *Handler) EnrichNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.notes.Get(r.Context(), id)
	if err != nil {
		slog.Error("enrich note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	e := h.enrich(r, note.Title, note.Content)
	enriched, err := h.notes.SetEnrichment(r.Context(), id, e.Summary, e.AutoTags)
	if err != nil || enriched == nil {
		slog.Error("enrichment not stored", slog.String("id", id))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, enriched)
}

// PromoteTag handles POST /notes/{id}/tags/promote, moving a suggested tag
// into the user-assigned set.
func (h *Handler) PromoteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req PromoteTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("tag is required"))
		return
	}

	note, err := h.notes.PromoteAutoTag(r.Context(), id, req.Tag)
	if err != nil {
		slog.Error("promote tag failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.notes.Search(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Tags handles GET /tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.notes.AllTags(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// Chapters handles GET /chapters. Groupings are recomputed from current
// notes on every call; minSize falls back to the workspace setting.
func (h *Handler) Chapters(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	minSize := h.workspace().GroupingMinSize
	if v, err := strconv.Atoi(r.URL.Query().Get("minSize")); err == nil && v >= 1 {
		minSize = v
	}

	chapters := chapter.Compute(notes, minSize)
	if r.URL.Query().Get("sort") == "tag" {
		chapter.SortByTag(chapters)
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": chapters})
}

// Graph handles GET /graph. Cluster thresholds and tag color overrides come
// from the workspace state; hub and tag-link layers toggle via query.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	links, err := h.notes.AllLinks(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	ws := h.workspace()
	opts := graphview.Options{
		ChapterHubs:      boolParam(r, "chapters", ws.ShowChapterHubs),
		TagLinks:         boolParam(r, "tagLinks", ws.ShowTagLinks),
		GroupingMinSize:  ws.GroupingMinSize,
		ClusterThreshold: ws.MapColorThreshold,
		TagColors:        ws.TagColors,
	}
	writeJSON(w, http.StatusOK, graphview.Project(notes, links, opts))
}

// Timeline handles GET /timeline?grouping=day|week|month.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	grouping := r.URL.Query().Get("grouping")
	if grouping == "" {
		grouping = h.workspace().TimelineGrouping
	}
	blocks := timeline.Build(notes, timeline.ParseGrouping(grouping))
	if blocks == nil {
		blocks = []timeline.Block{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": blocks})
}

// GetState handles GET /state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	s, err := h.state.Load()
	if err != nil {
		slog.Error("load state failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// PutState handles PUT /state, replacing the whole workspace state document.
func (h *Handler) PutState(w http.ResponseWriter, r *http.Request) {
	var s uistate.State
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.state.Save(s); err != nil {
		slog.Error("save state failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	s.Normalize()
	writeJSON(w, http.StatusOK, s)
}

// workspace returns the current state, falling back to defaults if the
// document cannot be read.
func (h *Handler) workspace() uistate.State {
	s, err := h.state.Load()
	if err != nil {
		slog.Warn("workspace state unreadable, using defaults", slog.String("error", err.Error()))
		return uistate.Default()
	}
	return s
}

func boolParam(r *http.Request, name string, fallback bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (h *Handler) enrich(r *http.Request, title, content string) enrich.Enrichment {
	if h.enricher != nil {
		return h.enricher.SummarizeAndTag(r.Context(), title, content)
	}
	return enrich.SummarizeAndTag(title, content)
}
