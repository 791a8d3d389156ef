package storage

import (
	"sync"
	"time"

	"github.com/orfo-trainer/spelling-bot/internal/service"
)

// ChatState is the per-chat screen state kept between updates.
type ChatState struct {
	Navigator *service.Navigator
	MessageID int       // message edited in place, 0 until the first screen is sent
	Selected  string    // option picked but not yet submitted
	LastSeen  time.Time // time of the last update from the chat
}

// ChatStorage provides in-memory storage for chat states by chat ID.
type ChatStorage struct {
	mu    sync.RWMutex
	chats map[int64]*ChatState
}

// NewChatStorage creates a new ChatStorage.
func NewChatStorage() *ChatStorage {
	return &ChatStorage{
		chats: make(map[int64]*ChatState),
	}
}

// Store saves the state for a given chat ID.
func (s *ChatStorage) Store(chatID int64, state *ChatState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chatID] = state
}

// Get retrieves the state for a given chat ID.
func (s *ChatStorage) Get(chatID int64) (*ChatState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.chats[chatID]
	return state, ok
}

// Delete removes the state for a given chat ID.
func (s *ChatStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, chatID)
}

// EvictIdle removes every chat last seen before cutoff and returns their IDs.
func (s *ChatStorage) EvictIdle(cutoff time.Time) []int64 {
	s.mu.RLock()
	var idle []int64
	for chatID, state := range s.chats {
		if state.LastSeen.Before(cutoff) {
			idle = append(idle, chatID)
		}
	}
	s.mu.RUnlock()

	for _, chatID := range idle {
		s.Delete(chatID)
	}
	return idle
}

// Len returns the number of stored chats.
func (s *ChatStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}
