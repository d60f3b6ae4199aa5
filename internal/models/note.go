// Package models defines the domain types for Zettel.
package models

import "time"

// Note is the atomic unit of knowledge.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	AutoTags   []string  `json:"autoTags,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	BookColor  *int      `json:"bookColor,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// AllTags returns tags plus autoTags, deduplicated, in order of appearance.
func (n *Note) AllTags() []string {
	seen := make(map[string]struct{}, len(n.Tags)+len(n.AutoTags))
	out := make([]string, 0, len(n.Tags)+len(n.AutoTags))
	for _, t := range n.Tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range n.AutoTags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// NoteLink is a directed edge discovered by scanning a note's content for
// wiki-link syntax. TargetID holds either a resolved note id or, for a
// dangling link, the literal unresolved title text. The link table is
// derived: it is fully regenerated from the source note's content on save.
type NoteLink struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Context  string `json:"context,omitempty"`
}

// Chapter is an ephemeral tag grouping, recomputed on every read.
type Chapter struct {
	Tag     string   `json:"tag"`
	Count   int      `json:"count"`
	NoteIDs []string `json:"noteIds"`
}

// CitedNote identifies a note referenced by an assistant answer.
type CitedNote struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversational search transcript.
type ChatMessage struct {
	ID         string      `json:"id"`
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	Timestamp  time.Time   `json:"timestamp"`
	CitedNotes []CitedNote `json:"citedNotes,omitempty"`
}

// SavedChat is a persisted conversational search transcript.
type SavedChat struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Messages   []ChatMessage `json:"messages"`
	CreatedAt  time.Time     `json:"createdAt"`
	ModifiedAt time.Time     `json:"modifiedAt"`
}
