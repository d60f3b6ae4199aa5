package api

import "github.com/mhollis/zettel/internal/models"

// CreateNoteRequest is the body for POST /notes.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NoteDetail is a note plus its link neighborhood.
type NoteDetail struct {
	models.Note
	Links     []models.NoteLink `json:"links"`
	Backlinks []models.NoteLink `json:"backlinks"`
}

// PromoteTagRequest is the body for POST /notes/{id}/tags/promote.
type PromoteTagRequest struct {
	Tag string `json:"tag"`
}

// ChatRequest is the body for POST /chat. ChatID is empty for a new
// conversation.
type ChatRequest struct {
	ChatID string `json:"chatId"`
	Query  string `json:"query"`
}

// ChatResponse returns the updated conversation and the assistant's reply.
type ChatResponse struct {
	Chat    *models.SavedChat   `json:"chat"`
	Message *models.ChatMessage `json:"message"`
}

// RenameChatRequest is the body for PATCH /chats/{id}.
type RenameChatRequest struct {
	Title string `json:"title"`
}

// ReadingRequest is the JSON body for POST /reading when pasting text.
type ReadingRequest struct {
	Text string `json:"text"`
}
