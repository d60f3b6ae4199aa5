package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mhollis/zettel/internal/models"
)

// SaveChat inserts or replaces a saved chat transcript.
func (db *DB) SaveChat(c *models.SavedChat) error {
	messages, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("store: marshal chat messages: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO chats (id, title, messages, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title       = excluded.title,
			messages    = excluded.messages,
			modified_at = excluded.modified_at
	`, c.ID, c.Title, string(messages), c.CreatedAt, c.ModifiedAt)
	if err != nil {
		return fmt.Errorf("store: upsert chat: %w", err)
	}
	return nil
}

// GetChat returns the saved chat with the given id, or nil when absent.
func (db *DB) GetChat(id string) (*models.SavedChat, error) {
	row := db.conn.QueryRow(`SELECT id, title, messages, created_at, modified_at FROM chats WHERE id = ?`, id)
	c, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get chat: %w", err)
	}
	return c, nil
}

// ListChats returns all saved chats, most recently modified first.
func (db *DB) ListChats() ([]models.SavedChat, error) {
	rows, err := db.conn.Query(`SELECT id, title, messages, created_at, modified_at FROM chats ORDER BY modified_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list chats: %w", err)
	}
	defer rows.Close()

	var out []models.SavedChat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan chat: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// DeleteChat removes a saved chat. Deleting a missing id is a no-op.
func (db *DB) DeleteChat(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM chats WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete chat: %w", err)
	}
	return nil
}

func scanChat(s scanner) (*models.SavedChat, error) {
	var c models.SavedChat
	var raw string
	if err := s.Scan(&c.ID, &c.Title, &raw, &c.CreatedAt, &c.ModifiedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(raw), &c.Messages)
	return &c, nil
}
