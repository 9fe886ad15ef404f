package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/model/status"
)

// MemoryMessageStore keeps turns in process memory. It backs tests and the
// storeless development mode; data is lost on restart.
type MemoryMessageStore struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
}

// NewMemoryMessageStore bootstraps an empty in-memory message store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{messages: make(map[string][]chat.Message)}
}

// Append persists one turn under the session.
func (s *MemoryMessageStore) Append(_ context.Context, sessionID, sender, message string) (chat.Message, error) {
	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Message:   message,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	s.mu.Unlock()

	return msg, nil
}

// Recent returns the tail of the session history, oldest first.
func (s *MemoryMessageStore) Recent(_ context.Context, sessionID string, limit int) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	copied := make([]chat.Message, len(msgs))
	copy(copied, msgs)
	return copied, nil
}

// All returns the session history from the beginning, bounded by maxCount.
func (s *MemoryMessageStore) All(_ context.Context, sessionID string, maxCount int) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if maxCount > 0 && len(msgs) > maxCount {
		msgs = msgs[:maxCount]
	}

	copied := make([]chat.Message, len(msgs))
	copy(copied, msgs)
	return copied, nil
}

// MemoryStatusStore keeps status checks in process memory.
type MemoryStatusStore struct {
	mu     sync.RWMutex
	checks []status.Check
}

// NewMemoryStatusStore bootstraps an empty in-memory status store.
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{}
}

// Create records one status check.
func (s *MemoryStatusStore) Create(_ context.Context, clientName string) (status.Check, error) {
	check := status.Check{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.checks = append(s.checks, check)
	s.mu.Unlock()

	return check, nil
}

// List returns recorded checks in creation order, bounded by limit.
func (s *MemoryStatusStore) List(_ context.Context, limit int) ([]status.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checks := s.checks
	if limit > 0 && len(checks) > limit {
		checks = checks[:limit]
	}

	copied := make([]status.Check, len(checks))
	copy(copied, checks)
	return copied, nil
}
