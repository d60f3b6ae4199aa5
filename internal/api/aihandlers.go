package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mhollis/zettel/internal/ai"
	"github.com/mhollis/zettel/internal/apperr"
	"github.com/mhollis/zettel/internal/reading"
)

// aiError maps AI failures to status codes: missing credential is 503,
// an unparseable model reply is 502, anything else 500.
func aiError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrAIUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("ai features require an api key"))
	case errors.Is(err, apperr.ErrBadAIResponse):
		slog.Warn(op+" got unusable ai reply", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("ai response not usable"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Chat handles POST /chat: one question grounded in the note collection.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query is required"))
		return
	}

	chat, msg, err := h.chats.Ask(r.Context(), req.ChatID, req.Query)
	if err != nil {
		aiError(w, "chat", err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Chat: chat, Message: msg})
}

// ListChats handles GET /chats.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

// GetChat handles GET /chats/{id}.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chats.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if chat == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// RenameChat handles PATCH /chats/{id}.
func (h *Handler) RenameChat(w http.ResponseWriter, r *http.Request) {
	var req RenameChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	chat, err := h.chats.Rename(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if chat == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// DeleteChat handles DELETE /chats/{id}.
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := h.chats.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Synthesize handles POST /chapters/{tag}/synthesize, drafting a long-form
// piece from the chapter's notes and saving it as a new note. The saved note
// carries the chapter tag plus synthesis markers and closes with wiki-links
// back to its sources.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	notes, err := h.notes.ByTag(r.Context(), tag)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if len(notes) == 0 {
		writeJSON(w, http.StatusNotFound, errorBody("no notes with that tag"))
		return
	}

	synthesis, err := h.enricher.SynthesizeChapter(r.Context(), tag, notes)
	if err != nil {
		aiError(w, "synthesize", err)
		return
	}

	titles := make(map[string]string, len(notes))
	for _, n := range notes {
		titles[n.ID] = n.Title
	}
	content := synthesis.Content
	var sources []string
	for _, id := range synthesis.SourceNoteIDs {
		if title, ok := titles[id]; ok {
			sources = append(sources, "- [["+title+"]]")
		}
	}
	if len(sources) > 0 {
		content += "\n\nSources:\n" + strings.Join(sources, "\n") + "\n"
	}

	note, err := h.notes.Create(r.Context(), synthesis.Title, content,
		[]string{tag, "synthesis", "ai-generated"})
	if err != nil {
		slog.Error("save synthesis failed", slog.String("tag", tag), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"synthesis": synthesis, "note": note})
}

// Arguments handles POST /chapters/{tag}/arguments, mapping claims and
// tensions across the chapter's notes.
func (h *Handler) Arguments(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	notes, err := h.notes.ByTag(r.Context(), tag)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if len(notes) == 0 {
		writeJSON(w, http.StatusNotFound, errorBody("no notes with that tag"))
		return
	}

	analysis, err := h.enricher.AnalyzeArguments(r.Context(), tag, notes)
	if err != nil {
		aiError(w, "arguments", err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Related handles GET /notes/{id}/related, suggesting conceptual neighbors.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.notes.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	candidates, err := h.notes.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	related, err := h.enricher.FindRelatedNotes(r.Context(), note, candidates)
	if err != nil {
		aiError(w, "related", err)
		return
	}
	if related == nil {
		related = []ai.Related{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"related": related})
}

// ImportReading handles POST /reading. The body is either JSON with pasted
// text or a multipart upload with a "file" field. With ?create=true the
// distilled reading is saved as a new note.
func (h *Handler) ImportReading(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, reading.MaxUploadSize+1<<20)

	var (
		distilled *readingResult
		err       error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		distilled, err = h.readingFromUpload(r)
	} else {
		distilled, err = h.readingFromJSON(r)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if distilled.err != nil {
		aiError(w, "reading import", distilled.err)
		return
	}

	if boolParam(r, "create", false) {
		title, content, tags := reading.ComposeNote(distilled.reading)
		note, createErr := h.notes.Create(r.Context(), title, content, tags)
		if createErr != nil {
			slog.Error("create note from reading failed", slog.String("error", createErr.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"reading": distilled.reading, "note": note})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reading": distilled.reading})
}

type readingResult struct {
	reading *ai.Reading
	err     error
}

func (h *Handler) readingFromJSON(r *http.Request) (*readingResult, error) {
	var req ReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		return nil, errors.New("text is required")
	}
	res, err := h.importer.Distill(r.Context(), req.Text)
	return &readingResult{reading: res, err: err}, nil
}

func (h *Handler) readingFromUpload(r *http.Request) (*readingResult, error) {
	if err := r.ParseMultipartForm(reading.MaxUploadSize); err != nil {
		return nil, errors.New("invalid multipart body")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("file field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, reading.MaxUploadSize+1))
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	res, importErr := h.importer.Import(r.Context(), header.Filename, data)
	return &readingResult{reading: res, err: importErr}, nil
}
