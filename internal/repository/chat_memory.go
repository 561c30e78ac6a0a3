package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cybersafe-backend/internal/models"
)

// memoryChatStore keeps one ordered message list per chat session id.
type memoryChatStore struct {
	mu    sync.RWMutex
	chats map[string][]*models.ChatMessage
}

// NewMemoryChatStore creates an empty in-memory chat store.
func NewMemoryChatStore() ChatStore {
	return &memoryChatStore{
		chats: make(map[string][]*models.ChatMessage),
	}
}

func (s *memoryChatStore) Append(chatID string, message *models.ChatMessage) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *message
	stored.ChatID = chatID
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	messages := s.chats[chatID]
	replaced := false
	for i, m := range messages {
		if m.ID == stored.ID {
			messages[i] = &stored
			replaced = true
			break
		}
	}
	if !replaced {
		messages = append(messages, &stored)
	}
	s.chats[chatID] = messages

	result := stored
	return &result, nil
}

func (s *memoryChatStore) List(chatID string) ([]*models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.chats[chatID]
	out := make([]*models.ChatMessage, len(messages))
	for i, m := range messages {
		cp := *m
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
