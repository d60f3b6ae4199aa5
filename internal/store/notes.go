package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mhollis/zettel/internal/models"
)

// SaveNote inserts or replaces a note and regenerates its outbound links
// within a single transaction. The caller supplies resolved links; rows for
// the note's previous content are always removed first, so the link table
// stays a pure derivation of current content.
func (db *DB) SaveNote(n *models.Note, links []models.NoteLink) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(nonNil(n.Tags))
	autoJSON, _ := json.Marshal(nonNil(n.AutoTags))

	var color sql.NullInt64
	if n.BookColor != nil {
		color = sql.NullInt64{Int64: int64(*n.BookColor), Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, content, tags, auto_tags, summary, book_color, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title       = excluded.title,
			content     = excluded.content,
			tags        = excluded.tags,
			auto_tags   = excluded.auto_tags,
			summary     = excluded.summary,
			book_color  = excluded.book_color,
			modified_at = excluded.modified_at
	`, n.ID, n.Title, n.Content, string(tagsJSON), string(autoJSON), n.Summary, color, n.CreatedAt, n.ModifiedAt)
	if err != nil {
		return fmt.Errorf("store: upsert note: %w", err)
	}

	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.ID)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO links (source, target, context) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range links {
			if _, err := stmt.Exec(l.SourceID, l.TargetID, l.Context); err != nil {
				return fmt.Errorf("store: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetNote returns the note with the given id, or nil when it does not exist.
func (db *DB) GetNote(id string) (*models.Note, error) {
	row := db.conn.QueryRow(`
		SELECT id, title, content, tags, auto_tags, summary, book_color, created_at, modified_at
		FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// DeleteNote removes a note and purges every link where it appears as
// source or target, within one transaction. Deleting a missing id is a no-op.
func (db *DB) DeleteNote(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM notes WHERE id = ?`, id)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ? OR target = ?`, id, id)

	return tx.Commit()
}

// ListNotes returns all notes ordered by modification time, newest first.
func (db *DB) ListNotes() ([]models.Note, error) {
	return db.queryNotes(`
		SELECT id, title, content, tags, auto_tags, summary, book_color, created_at, modified_at
		FROM notes ORDER BY modified_at DESC, id DESC
	`)
}

// SearchNotes performs a case-insensitive substring match over title,
// content, and tags. Result order follows underlying storage order.
func (db *DB) SearchNotes(query string) ([]models.Note, error) {
	like := "%" + strings.ToLower(query) + "%"
	return db.queryNotes(`
		SELECT id, title, content, tags, auto_tags, summary, book_color, created_at, modified_at
		FROM notes
		WHERE lower(title) LIKE ? OR lower(content) LIKE ? OR lower(tags) LIKE ?
	`, like, like, like)
}

// NotesByTag returns notes carrying the exact user-assigned tag.
func (db *DB) NotesByTag(tag string) ([]models.Note, error) {
	pattern, _ := json.Marshal(tag)
	return db.queryNotes(`
		SELECT id, title, content, tags, auto_tags, summary, book_color, created_at, modified_at
		FROM notes WHERE tags LIKE ?
	`, "%"+string(pattern)+"%")
}

// AllTags returns the sorted set of user-assigned tags across all notes.
func (db *DB) AllTags() ([]string, error) {
	rows, err := db.conn.Query(`SELECT tags FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("store: all tags: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			continue
		}
		for _, t := range tags {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// TitleMap returns a lowercased-title -> id map over all notes, used for
// case-insensitive wiki-link resolution.
func (db *DB) TitleMap() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, title FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("store: title map: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		out[strings.ToLower(title)] = id
	}
	return out, rows.Err()
}

// ForwardLinks returns all links whose source is the given note.
func (db *DB) ForwardLinks(id string) ([]models.NoteLink, error) {
	return db.queryLinks(`SELECT source, target, context FROM links WHERE source = ?`, id)
}

// Backlinks returns all links whose target is the given note.
func (db *DB) Backlinks(id string) ([]models.NoteLink, error) {
	return db.queryLinks(`SELECT source, target, context FROM links WHERE target = ?`, id)
}

// AllLinks returns every link row, for graph projection.
func (db *DB) AllLinks() ([]models.NoteLink, error) {
	return db.queryLinks(`SELECT source, target, context FROM links`)
}

func (db *DB) queryLinks(q string, args ...any) ([]models.NoteLink, error) {
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query links: %w", err)
	}
	defer rows.Close()

	var out []models.NoteLink
	for rows.Next() {
		var l models.NoteLink
		if err := rows.Scan(&l.SourceID, &l.TargetID, &l.Context); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (db *DB) queryNotes(q string, args ...any) ([]models.Note, error) {
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var n models.Note
	var tagsRaw, autoRaw string
	var color sql.NullInt64
	if err := s.Scan(&n.ID, &n.Title, &n.Content, &tagsRaw, &autoRaw, &n.Summary, &color, &n.CreatedAt, &n.ModifiedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsRaw), &n.Tags)
	_ = json.Unmarshal([]byte(autoRaw), &n.AutoTags)
	if color.Valid {
		c := int(color.Int64)
		n.BookColor = &c
	}
	return &n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
