// Package chat runs the conversational search surface: it grounds questions
// in the note collection, records the exchange, and persists named
// conversations for later.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/zettel/internal/ai"
	"github.com/mhollis/zettel/internal/models"
	"github.com/mhollis/zettel/internal/store"
)

// titleMax caps how much of the first question becomes the chat title.
const titleMax = 60

// Service answers questions against the note collection and manages saved
// conversations.
type Service struct {
	db store.Repository
	ai *ai.Client

	// Now is the clock; tests override it.
	Now func() time.Time
}

// New creates the chat service.
func New(db store.Repository, client *ai.Client) *Service {
	return &Service{db: db, ai: client, Now: time.Now}
}

// Ask answers a question using the whole collection as grounding. When chatID
// names an existing conversation the exchange is appended to it, otherwise a
// new conversation is created. Returns the updated conversation and the
// assistant message.
func (s *Service) Ask(ctx context.Context, chatID, query string) (*models.SavedChat, *models.ChatMessage, error) {
	notes, err := s.db.ListNotes()
	if err != nil {
		return nil, nil, fmt.Errorf("chat: load notes: %w", err)
	}

	answer, cited, err := s.ai.SearchKnowledge(ctx, query, notes)
	if err != nil {
		return nil, nil, err
	}

	now := s.Now().UTC()
	chat, err := s.loadOrCreate(chatID, query, now)
	if err != nil {
		return nil, nil, err
	}

	user := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   query,
		Timestamp: now,
	}
	assistant := models.ChatMessage{
		ID:         uuid.NewString(),
		Role:       models.RoleAssistant,
		Content:    answer,
		Timestamp:  now,
		CitedNotes: cited,
	}
	chat.Messages = append(chat.Messages, user, assistant)
	chat.ModifiedAt = now

	if err := s.db.SaveChat(chat); err != nil {
		return nil, nil, fmt.Errorf("chat: save: %w", err)
	}
	return chat, &assistant, nil
}

func (s *Service) loadOrCreate(chatID, query string, now time.Time) (*models.SavedChat, error) {
	if chatID != "" {
		chat, err := s.db.GetChat(chatID)
		if err != nil {
			return nil, fmt.Errorf("chat: load %s: %w", chatID, err)
		}
		if chat != nil {
			return chat, nil
		}
	}
	return &models.SavedChat{
		ID:        uuid.NewString(),
		Title:     chatTitle(query),
		CreatedAt: now,
	}, nil
}

func chatTitle(query string) string {
	title := strings.TrimSpace(query)
	if title == "" {
		return "New chat"
	}
	runes := []rune(title)
	if len(runes) > titleMax {
		title = string(runes[:titleMax-3]) + "..."
	}
	return title
}

// List returns saved conversations, most recently modified first.
func (s *Service) List(_ context.Context) ([]models.SavedChat, error) {
	return s.db.ListChats()
}

// Get returns one conversation, or nil when absent.
func (s *Service) Get(_ context.Context, id string) (*models.SavedChat, error) {
	return s.db.GetChat(id)
}

// Rename changes a conversation's title. Returns nil, nil when absent.
func (s *Service) Rename(_ context.Context, id, title string) (*models.SavedChat, error) {
	chat, err := s.db.GetChat(id)
	if err != nil || chat == nil {
		return nil, err
	}
	chat.Title = chatTitle(title)
	chat.ModifiedAt = s.Now().UTC()
	if err := s.db.SaveChat(chat); err != nil {
		return nil, fmt.Errorf("chat: rename %s: %w", id, err)
	}
	return chat, nil
}

// Delete removes a conversation. Deleting an absent id is a no-op.
func (s *Service) Delete(_ context.Context, id string) error {
	return s.db.DeleteChat(id)
}
