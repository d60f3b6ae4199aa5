// Package noteservice coordinates note persistence and wiki-link resolution.
package noteservice

import (
	"context"
	"strings"
	"time"

	"github.com/mhollis/zettel/internal/models"
	"github.com/mhollis/zettel/internal/noteid"
	"github.com/mhollis/zettel/internal/store"
	"github.com/mhollis/zettel/internal/wikilink"
)

// EventFunc is called after a successful note mutation.
// kind is one of "created", "updated", "deleted".
type EventFunc func(kind, id string)

// Service is the sole writer of notes and their derived link table.
type Service struct {
	db store.Repository

	// Now supplies timestamps; replaceable in tests. Defaults to time.Now.
	Now func() time.Time

	// OnChange, if non-nil, is invoked after each successful mutation.
	OnChange EventFunc
}

// NewService creates a new note service.
func NewService(db store.Repository) *Service {
	return &Service{db: db, Now: time.Now}
}

// UpdatePatch carries the fields an update may change. Nil fields are left
// untouched.
type UpdatePatch struct {
	Title     *string   `json:"title,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	AutoTags  *[]string `json:"autoTags,omitempty"`
	Summary   *string   `json:"summary,omitempty"`
	BookColor *int      `json:"bookColor,omitempty"`
}

// Create allocates an id and timestamps, persists the note, and resolves and
// persists its outbound links as a single atomic unit.
//
// The id is timestamp-derived at one-second resolution; creating two notes
// within the same second is a known, unhandled collision.
func (s *Service) Create(_ context.Context, title, content string, tags []string) (*models.Note, error) {
	now := s.Now()
	note := &models.Note{
		ID:         noteid.New(now),
		Title:      title,
		Content:    content,
		Tags:       tags,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	links, err := s.resolveLinks(note)
	if err != nil {
		return nil, err
	}
	if err := s.db.SaveNote(note, links); err != nil {
		return nil, err
	}
	s.emit("created", note.ID)
	return note, nil
}

// Update merges the supplied fields into an existing note, bumps its
// modification time, and regenerates its outbound links atomically.
// When id does not exist it returns (nil, nil): absent, not an error.
// Links are always recomputed from current content, never diffed.
func (s *Service) Update(_ context.Context, id string, patch UpdatePatch) (*models.Note, error) {
	note, err := s.db.GetNote(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Tags != nil {
		note.Tags = *patch.Tags
	}
	if patch.AutoTags != nil {
		note.AutoTags = *patch.AutoTags
	}
	if patch.Summary != nil {
		note.Summary = *patch.Summary
	}
	if patch.BookColor != nil {
		note.BookColor = patch.BookColor
	}
	note.ModifiedAt = s.Now()

	links, err := s.resolveLinks(note)
	if err != nil {
		return nil, err
	}
	if err := s.db.SaveNote(note, links); err != nil {
		return nil, err
	}
	s.emit("updated", note.ID)
	return note, nil
}

// Delete removes the note and purges all links where it is source or target.
// Deleting a missing id is a no-op.
func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.db.DeleteNote(id); err != nil {
		return err
	}
	s.emit("deleted", id)
	return nil
}

// Get returns a note by id, or nil when it does not exist.
func (s *Service) Get(_ context.Context, id string) (*models.Note, error) {
	return s.db.GetNote(id)
}

// List returns all notes, most recently modified first.
func (s *Service) List(_ context.Context) ([]models.Note, error) {
	return s.db.ListNotes()
}

// Search performs a case-insensitive substring match over title, content,
// and tags.
func (s *Service) Search(_ context.Context, query string) ([]models.Note, error) {
	return s.db.SearchNotes(query)
}

// ByTag returns notes carrying the exact user-assigned tag.
func (s *Service) ByTag(_ context.Context, tag string) ([]models.Note, error) {
	return s.db.NotesByTag(tag)
}

// AllTags returns the sorted set of user-assigned tags.
func (s *Service) AllTags(_ context.Context) ([]string, error) {
	return s.db.AllTags()
}

// ForwardLinks returns the note's outbound links.
func (s *Service) ForwardLinks(_ context.Context, id string) ([]models.NoteLink, error) {
	return s.db.ForwardLinks(id)
}

// Backlinks returns the links pointing at the note.
func (s *Service) Backlinks(_ context.Context, id string) ([]models.NoteLink, error) {
	return s.db.Backlinks(id)
}

// AllLinks returns every stored link, for graph projection.
func (s *Service) AllLinks(_ context.Context) ([]models.NoteLink, error) {
	return s.db.AllLinks()
}

// SetEnrichment stores a summary and machine-suggested tags on a note.
func (s *Service) SetEnrichment(ctx context.Context, id, summary string, autoTags []string) (*models.Note, error) {
	return s.Update(ctx, id, UpdatePatch{Summary: &summary, AutoTags: &autoTags})
}

// PromoteAutoTag moves a machine-suggested tag into the user-assigned tags.
// Promoting a tag the note does not carry is a no-op.
func (s *Service) PromoteAutoTag(ctx context.Context, id, tag string) (*models.Note, error) {
	note, err := s.db.GetNote(id)
	if err != nil || note == nil {
		return nil, err
	}

	found := false
	remaining := make([]string, 0, len(note.AutoTags))
	for _, t := range note.AutoTags {
		if t == tag {
			found = true
			continue
		}
		remaining = append(remaining, t)
	}
	if !found {
		return note, nil
	}

	tags := note.Tags
	if !containsTag(tags, tag) {
		tags = append(tags, tag)
	}
	return s.Update(ctx, id, UpdatePatch{Tags: &tags, AutoTags: &remaining})
}

// resolveLinks extracts the note's wiki-links and resolves target titles to
// note ids by case-insensitive exact title match. Unresolved titles are kept
// literally (dangling links); self-references are dropped.
func (s *Service) resolveLinks(note *models.Note) ([]models.NoteLink, error) {
	raw := wikilink.Extract(note.ID, note.Content)
	if len(raw) == 0 {
		return nil, nil
	}

	titles, err := s.db.TitleMap()
	if err != nil {
		return nil, err
	}
	// The note being saved may not be stored yet (create path); its own
	// title must still resolve so self-references can be discarded.
	titles[strings.ToLower(note.Title)] = note.ID

	var out []models.NoteLink
	for _, l := range raw {
		target := l.TargetTitle
		if id, ok := titles[strings.ToLower(l.TargetTitle)]; ok {
			target = id
		}
		if target == note.ID {
			continue
		}
		out = append(out, models.NoteLink{
			SourceID: l.SourceID,
			TargetID: target,
			Context:  l.Context,
		})
	}
	return out, nil
}

func (s *Service) emit(kind, id string) {
	if s.OnChange != nil {
		s.OnChange(kind, id)
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
