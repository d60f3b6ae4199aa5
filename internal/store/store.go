// Package store provides the SQLite-backed note, link, and chat stores.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mhollis/zettel/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	auto_tags   TEXT NOT NULL DEFAULT '[]',
	summary     TEXT NOT NULL DEFAULT '',
	book_color  INTEGER,
	created_at  DATETIME NOT NULL,
	modified_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);
CREATE INDEX IF NOT EXISTS idx_notes_modified ON notes(modified_at);

CREATE TABLE IF NOT EXISTS links (
	source  TEXT NOT NULL,
	target  TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	UNIQUE(source, target)
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);

CREATE TABLE IF NOT EXISTS chats (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	messages    TEXT NOT NULL DEFAULT '[]',
	created_at  DATETIME NOT NULL,
	modified_at DATETIME NOT NULL
);
`

// Repository defines the persistence operations the rest of the application
// depends on. Consumers should use this interface rather than *DB directly.
type Repository interface {
	SaveNote(n *models.Note, links []models.NoteLink) error
	GetNote(id string) (*models.Note, error)
	DeleteNote(id string) error
	ListNotes() ([]models.Note, error)
	SearchNotes(query string) ([]models.Note, error)
	NotesByTag(tag string) ([]models.Note, error)
	AllTags() ([]string, error)
	TitleMap() (map[string]string, error)
	ForwardLinks(id string) ([]models.NoteLink, error)
	Backlinks(id string) ([]models.NoteLink, error)
	AllLinks() ([]models.NoteLink, error)
	SaveChat(c *models.SavedChat) error
	GetChat(id string) (*models.SavedChat, error)
	ListChats() ([]models.SavedChat, error)
	DeleteChat(id string) error
	Close() error
}

// Verify *DB satisfies Repository at compile time.
var _ Repository = (*DB)(nil)

// DB wraps a sql.DB with store-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
